package server

import (
	"net/http"
	"strings"
	"time"
)

func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		entry := AuditLogEntry{
			Timestamp:  start.UTC(),
			Route:      routeName(r),
			Method:     r.Method,
			Path:       r.URL.Path,
			Query:      r.URL.RawQuery,
			ExecutorID: r.URL.Query().Get(uuidParam),
			RemoteAddr: r.RemoteAddr,
		}

		rec := newResponseRecorder(w, auditBodyLimit)

		next.ServeHTTP(rec, r)

		entry.StatusCode = rec.status
		entry.DurationMs = time.Since(start).Milliseconds()
		if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
			entry.Response = rec.body.String()
		}

		s.audit.LogEntry(r.Context(), entry)
	})
}

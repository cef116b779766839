package server

import (
	"time"
)

// auditBodyLimit caps the response body stored in an audit entry.
const auditBodyLimit = 4 << 10

type AuditLogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Route      string    `json:"route"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Query      string    `json:"query,omitempty"`
	StatusCode int       `json:"status_code"`
	DurationMs int64     `json:"duration_ms"`
	ExecutorID string    `json:"executor_id,omitempty"`
	RemoteAddr string    `json:"remote_addr,omitempty"`
	Response   string    `json:"response,omitempty"`
}

// Key groups entries of one executor on the same partition.
func (e AuditLogEntry) Key() []byte {
	if e.ExecutorID != "" {
		return []byte(e.ExecutorID)
	}
	return []byte(e.Route)
}

package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/pupkingeorgij/artmarket/internal/repository"
)

const uuidParam = "uuid"

// requiredQuery writes a 400 and reports false when the parameter is absent.
// An empty value counts as present.
func requiredQuery(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	q := r.URL.Query()
	if !q.Has(name) {
		respondError(w, http.StatusBadRequest, "missing query parameter: "+name)
		return "", false
	}
	return q.Get(name), true
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := requiredQuery(w, r, uuidParam)
	if !ok {
		return
	}

	executor, err := s.executors.GetExecutor(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			respondError(w, http.StatusBadRequest, "invalid executor id")
			return
		}
		s.logger.Error("get executor", zap.String("uuid", id), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to get executor")
		return
	}

	if executor == nil {
		respondJSON(w, http.StatusOK, nil)
		return
	}
	respondJSON(w, http.StatusOK, executor)
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	executors, err := s.executors.ListExecutors(r.Context(), repository.DefaultExecutorsLimit)
	if err != nil {
		s.logger.Error("list executors", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to list executors")
		return
	}
	respondJSON(w, http.StatusOK, executors)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

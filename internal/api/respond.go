package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gatedlife/community-server/internal/workflow"
)

// respondJSON writes a JSON response
func (s *RESTServer) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Error().Err(err).Msg("Failed to encode response")
		}
	}
}

// respondError writes a JSON error response
func (s *RESTServer) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]interface{}{
		"error": message,
	})
}

// respondWorkflowError maps a workflow error kind to an HTTP status
func (s *RESTServer) respondWorkflowError(w http.ResponseWriter, err error) {
	kind := workflow.KindOf(err)

	var status int
	switch kind {
	case workflow.KindUnauthenticated:
		status = http.StatusUnauthorized
	case workflow.KindForbidden:
		status = http.StatusForbidden
	case workflow.KindNotFound:
		status = http.StatusNotFound
	case workflow.KindInvalidArgument:
		status = http.StatusBadRequest
	case workflow.KindConflict:
		status = http.StatusConflict
	case workflow.KindInvalidState:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Workflow operation failed")
		message = "internal server error"
	}

	var werr *workflow.Error
	errorKind := string(kind)
	if errors.As(err, &werr) {
		message = werr.Message
	}

	s.respondJSON(w, status, map[string]interface{}{
		"error":     message,
		"errorKind": errorKind,
	})
}

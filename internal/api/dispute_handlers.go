package api

import (
	"encoding/json"
	"net/http"

	"github.com/gatedlife/community-server/internal/workflow"
)

// ========== Dispute handlers ==========

// HandleCreateDispute opens a dispute on a rent session
func (s *RESTServer) HandleCreateDispute(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	sessionID, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req workflow.CreateDisputeInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.SessionID = sessionID

	dispute, err := s.disputes.Create(r.Context(), p.ID, req)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, dispute)
}

// HandleListDisputes lists a session's disputes
func (s *RESTServer) HandleListDisputes(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	sessionID, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	disputes, err := s.disputes.List(r.Context(), p, sessionID)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"disputes": disputes,
		"total":    len(disputes),
	})
}

// HandleGetDispute gets a dispute with its thread and approvals
func (s *RESTServer) HandleGetDispute(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid dispute id")
		return
	}

	detail, err := s.disputes.Get(r.Context(), p, id)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, detail)
}

// HandlePostDisputeMessage appends to a dispute's chat thread
func (s *RESTServer) HandlePostDisputeMessage(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid dispute id")
		return
	}

	var req workflow.PostMessageInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := s.disputes.PostMessage(r.Context(), p, id, req)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, message)
}

// HandleEscalateDispute flags a dispute for admin attention
func (s *RESTServer) HandleEscalateDispute(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid dispute id")
		return
	}

	dispute, err := s.disputes.Escalate(r.Context(), p.ID, id)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, dispute)
}

// HandleApproveDispute records a resolution sign-off
func (s *RESTServer) HandleApproveDispute(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid dispute id")
		return
	}

	dispute, err := s.disputes.Approve(r.Context(), p, id)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, dispute)
}

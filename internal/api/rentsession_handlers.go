package api

import (
	"encoding/json"
	"net/http"

	"github.com/gatedlife/community-server/internal/models"
	"github.com/gatedlife/community-server/internal/workflow"
)

// ========== Rent session handlers ==========

// HandleCreateSession opens a rent session
func (s *RESTServer) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	var req workflow.CreateSessionInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.sessions.Create(r.Context(), p.ID, req)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, session)
}

// HandleGetSession gets a session with charges and preferences
func (s *RESTServer) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	detail, err := s.sessions.Get(r.Context(), p, id)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, detail)
}

// HandleListMySessions lists sessions where the resident is a party.
// The role query parameter selects which side, defaulting to owner.
func (s *RESTServer) HandleListMySessions(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	role := models.OwnershipType(r.URL.Query().Get("role"))
	if role == "" {
		role = models.OwnershipOwner
	}

	sessions, err := s.sessions.ListMine(r.Context(), p.ID, role)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

// HandleListApartmentSessions lists an apartment's sessions
func (s *RESTServer) HandleListApartmentSessions(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid apartment id")
		return
	}

	sessions, err := s.sessions.ListByApartment(r.Context(), p, id)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

// HandleTerminateSession runs one step of the two-party termination
// handshake
func (s *RESTServer) HandleTerminateSession(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req struct {
		Reason *string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.sessions.Terminate(r.Context(), p.ID, id, req.Reason)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, session)
}

// ========== Session document handlers ==========

// HandleUploadDocument records document metadata on a session
func (s *RESTServer) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req workflow.UploadDocumentInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := s.sessions.UploadDocument(r.Context(), p.ID, id, req)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, doc)
}

// HandleListDocuments lists a session's documents
func (s *RESTServer) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	docs, err := s.sessions.ListDocuments(r.Context(), p, id)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     len(docs),
	})
}

// HandleReviewDocument applies the owner's decision to a pending
// tenant upload
func (s *RESTServer) HandleReviewDocument(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	var req struct {
		Approve         bool    `json:"approve"`
		RejectionReason *string `json:"rejectionReason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := s.sessions.ReviewDocument(r.Context(), p.ID, id, req.Approve, req.RejectionReason)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, doc)
}

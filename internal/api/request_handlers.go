package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gatedlife/community-server/internal/models"
	"github.com/gatedlife/community-server/internal/workflow"
)

// pathID parses the {id} URL parameter
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// ========== Apartment request handlers ==========

// HandleSubmitRequest submits an apartment request
func (s *RESTServer) HandleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	var req workflow.SubmitRequestInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := s.requests.Submit(r.Context(), p.ID, req)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, request)
}

// HandleListMyRequests lists the resident's own requests
func (s *RESTServer) HandleListMyRequests(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	requests, err := s.requests.ListMine(r.Context(), p.ID)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"total":    len(requests),
	})
}

// HandleListRequests lists requests in the admin's community
func (s *RESTServer) HandleListRequests(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 20
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	var status *models.RequestStatus
	if q := r.URL.Query().Get("status"); q != "" {
		st := models.RequestStatus(q)
		switch st {
		case models.RequestPending, models.RequestApproved, models.RequestRejected:
			status = &st
		default:
			s.respondError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
	}

	requests, total, err := s.requests.List(r.Context(), p, status, limit, offset)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"total":    total,
	})
}

// HandleGetRequest gets a request with members and rule responses
func (s *RESTServer) HandleGetRequest(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	detail, err := s.requests.Get(r.Context(), p, id)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, detail)
}

// HandleReviewRequest applies an admin decision to a pending request
func (s *RESTServer) HandleReviewRequest(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req workflow.ReviewInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := s.requests.Review(r.Context(), p, id, req)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, request)
}

package api

import (
	"encoding/json"
	"net/http"
)

// ========== Resident context handlers ==========

// HandleListMyApartments lists the resident's approved apartment access
func (s *RESTServer) HandleListMyApartments(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	apartments, err := s.resolver.ListApartments(r.Context(), p.ID)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"apartments": apartments,
		"total":      len(apartments),
	})
}

// HandleGetCurrentApartment resolves the resident's current apartment
// context, initializing it when absent
func (s *RESTServer) HandleGetCurrentApartment(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	apCtx, ownership, err := s.resolver.CurrentApartment(r.Context(), p.ID)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"context":       apCtx,
		"ownershipType": ownership.OwnershipType,
	})
}

// HandleSwitchApartment switches the resident's current apartment
func (s *RESTServer) HandleSwitchApartment(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	var req struct {
		ApartmentID int64 `json:"apartmentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ApartmentID <= 0 {
		s.respondError(w, http.StatusBadRequest, "apartmentId is required")
		return
	}

	apCtx, err := s.resolver.SwitchApartment(r.Context(), p.ID, req.ApartmentID)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, apCtx)
}

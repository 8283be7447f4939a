package api

import (
	"encoding/json"
	"net/http"

	"github.com/gatedlife/community-server/internal/models"
	"github.com/gatedlife/community-server/internal/workflow"
)

// approvalFilter parses the optional status query parameter
func approvalFilter(r *http.Request) (*models.ApprovalStatus, bool) {
	q := r.URL.Query().Get("status")
	if q == "" {
		return nil, true
	}
	st := models.ApprovalStatus(q)
	switch st {
	case models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected:
		return &st, true
	}
	return nil, false
}

// ========== Room handlers ==========

// HandleCreateRoom creates a room proposal
func (s *RESTServer) HandleCreateRoom(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	apartmentID, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid apartment id")
		return
	}

	var req workflow.CreateRoomInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ApartmentID = apartmentID

	room, err := s.rooms.CreateRoom(r.Context(), p.ID, req)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, room)
}

// HandleListRooms lists an apartment's rooms
func (s *RESTServer) HandleListRooms(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	apartmentID, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid apartment id")
		return
	}

	status, ok := approvalFilter(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	rooms, err := s.rooms.ListRooms(r.Context(), p.ID, apartmentID, status)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"total": len(rooms),
	})
}

// HandleReviewRoom applies the counterpart's decision to a pending room
func (s *RESTServer) HandleReviewRoom(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room, err := s.rooms.ReviewRoom(r.Context(), p.ID, id, req.Approve)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, room)
}

// ========== Accessory handlers ==========

// HandleCreateAccessory creates an accessory proposal on a room
func (s *RESTServer) HandleCreateAccessory(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	roomID, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var req workflow.CreateAccessoryInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.RoomID = roomID

	accessory, err := s.rooms.CreateAccessory(r.Context(), p.ID, req)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, accessory)
}

// HandleListAccessories lists a room's accessories
func (s *RESTServer) HandleListAccessories(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	roomID, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	status, ok := approvalFilter(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	accessories, err := s.rooms.ListAccessories(r.Context(), p.ID, roomID, status)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"accessories": accessories,
		"total":       len(accessories),
	})
}

// HandleReviewAccessory applies the counterpart's decision to a
// pending accessory
func (s *RESTServer) HandleReviewAccessory(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid accessory id")
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accessory, err := s.rooms.ReviewAccessory(r.Context(), p.ID, id, req.Approve)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, accessory)
}

// ========== Replacement handlers ==========

// HandleCreateReplacement records an accessory replacement on a session
func (s *RESTServer) HandleCreateReplacement(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	sessionID, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req workflow.CreateReplacementInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.SessionID = sessionID

	replacement, err := s.rooms.CreateReplacement(r.Context(), p.ID, req)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, replacement)
}

// HandleListReplacements lists a session's replacement records
func (s *RESTServer) HandleListReplacements(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	sessionID, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	replacements, err := s.rooms.ListReplacements(r.Context(), p.ID, sessionID)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"replacements": replacements,
		"total":        len(replacements),
	})
}

// HandleReviewReplacement applies the counterpart's decision to a
// pending replacement
func (s *RESTServer) HandleReviewReplacement(w http.ResponseWriter, r *http.Request) {
	p, _ := s.principal(r)

	id, ok := pathID(r)
	if !ok {
		s.respondError(w, http.StatusBadRequest, "invalid replacement id")
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

	replacement, err := s.rooms.ReviewReplacement(r.Context(), p.ID, id, req.Approve, req.RejectionReason)
	if err != nil {
		s.respondWorkflowError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, replacement)
}

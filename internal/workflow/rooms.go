package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gatedlife/community-server/internal/models"
	"github.com/gatedlife/community-server/internal/notify"
	"github.com/gatedlife/community-server/internal/storage"
)

// RoomService runs the room, accessory, and replacement approval
// workflows.
type RoomService struct {
	store  storage.Store
	events notify.Publisher
	log    zerolog.Logger
}

// NewRoomService creates the room workflow service
func NewRoomService(store storage.Store, events notify.Publisher, log zerolog.Logger) *RoomService {
	return &RoomService{store: store, events: events, log: log}
}

// CreateRoomInput is a room proposal
type CreateRoomInput struct {
	ApartmentID int64   `json:"apartmentId"`
	RoomName    string  `json:"roomName"`
	RoomType    *string `json:"roomType"`
}

// CreateRoom creates a room. An owner outside an active session gets
// the room approved immediately. During an active session either party
// may propose, the room is tied to the session, and the counterpart
// must approve. A tenant cannot add rooms without an active session.
func (s *RoomService) CreateRoom(ctx context.Context, userID int64, input CreateRoomInput) (*models.ApartmentRoom, error) {
	if strings.TrimSpace(input.RoomName) == "" {
		return nil, InvalidArgument("roomName is required")
	}

	role, session, err := s.resolveProposer(ctx, userID, input.ApartmentID)
	if err != nil {
		return nil, err
	}

	room := &models.ApartmentRoom{
		ApartmentID:   input.ApartmentID,
		RoomName:      input.RoomName,
		RoomType:      input.RoomType,
		CreatedBy:     userID,
		CreatedByRole: role,
	}
	if session == nil {
		ts := now()
		room.ApprovalStatus = models.ApprovalApproved
		room.ApprovedBy = &userID
		room.ApprovedAt = &ts
	} else {
		room.SessionID = &session.ID
		room.ApprovalStatus = models.ApprovalPending
	}

	if err := s.store.CreateRoom(ctx, room); err != nil {
		return nil, err
	}

	s.log.Info().Int64("room_id", room.ID).Int64("apartment_id", input.ApartmentID).
		Str("approval_status", string(room.ApprovalStatus)).Msg("Room created")

	return room, nil
}

// resolveProposer returns the caller's role in the apartment and the
// active session, if any. Tenants may only propose inside a session
// they are party to.
func (s *RoomService) resolveProposer(ctx context.Context, userID, apartmentID int64) (models.OwnershipType, *models.RentSession, error) {
	ownership, err := s.store.GetApprovedOwnership(ctx, userID, apartmentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, Forbidden("no approved access to apartment")
		}
		return "", nil, err
	}

	session, err := s.store.GetActiveRentSession(ctx, apartmentID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return "", nil, err
		}
		session = nil
	}

	if session == nil {
		if ownership.OwnershipType != models.OwnershipOwner {
			return "", nil, InvalidState("no active rental session")
		}
		return models.OwnershipOwner, nil, nil
	}

	role := session.PartyRole(userID)
	if role == "" {
		return "", nil, Forbidden("caller is not a party to the active rent session")
	}
	return role, session, nil
}

// ListRooms lists an apartment's rooms for anyone with approved access
func (s *RoomService) ListRooms(ctx context.Context, userID, apartmentID int64, status *models.ApprovalStatus) ([]*models.ApartmentRoom, error) {
	if _, err := s.store.GetApprovedOwnership(ctx, userID, apartmentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, Forbidden("no approved access to apartment")
		}
		return nil, err
	}
	return s.store.ListRooms(ctx, apartmentID, status)
}

// ReviewRoom applies the counterpart's decision to a pending room
// proposal. The creator never reviews their own proposal.
func (s *RoomService) ReviewRoom(ctx context.Context, userID, roomID int64, approve bool) (*models.ApartmentRoom, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("room not found")
		}
		return nil, err
	}

	if err := s.authorizeReview(ctx, room.SessionID, room.CreatedBy, room.CreatedByRole, userID); err != nil {
		return nil, err
	}
	if room.ApprovalStatus != models.ApprovalPending {
		return nil, InvalidState("room has already been reviewed")
	}

	ts := now()
	room.ApprovedBy = &userID
	room.ApprovedAt = &ts
	if approve {
		room.ApprovalStatus = models.ApprovalApproved
	} else {
		room.ApprovalStatus = models.ApprovalRejected
	}

	if err := s.store.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// authorizeReview checks the caller holds the counterpart role of the
// proposal's creator in its session.
func (s *RoomService) authorizeReview(ctx context.Context, sessionID *int64, createdBy int64, createdByRole models.OwnershipType, userID int64) error {
	if sessionID == nil {
		return InvalidState("proposal is not tied to a rent session")
	}
	if createdBy == userID {
		return Forbidden("creator cannot review their own proposal")
	}

	session, err := s.store.GetRentSession(ctx, *sessionID)
	if err != nil {
		return err
	}

	role := session.PartyRole(userID)
	if role == "" {
		return Forbidden("caller is not a party to this session")
	}
	if role != createdByRole.Counterpart() {
		return Forbidden("only the counterpart role reviews this proposal")
	}
	return nil
}

// ========== Accessories ==========

// CreateAccessoryInput is an accessory proposal
type CreateAccessoryInput struct {
	RoomID        int64   `json:"roomId"`
	AccessoryName string  `json:"accessoryName"`
	BrandName     *string `json:"brandName"`
	Quantity      int     `json:"quantity"`
}

// CreateAccessory creates an accessory on an approved room, with the
// same session-dependent approval rules as rooms.
func (s *RoomService) CreateAccessory(ctx context.Context, userID int64, input CreateAccessoryInput) (*models.RoomAccessory, error) {
	if strings.TrimSpace(input.AccessoryName) == "" {
		return nil, InvalidArgument("accessoryName is required")
	}
	if input.Quantity <= 0 {
		return nil, InvalidArgument("quantity must be positive")
	}

	room, err := s.store.GetRoom(ctx, input.RoomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("room not found")
		}
		return nil, err
	}
	if room.ApprovalStatus != models.ApprovalApproved {
		return nil, InvalidState("room is not approved")
	}

	role, session, err := s.resolveProposer(ctx, userID, room.ApartmentID)
	if err != nil {
		return nil, err
	}

	accessory := &models.RoomAccessory{
		RoomID:        input.RoomID,
		AccessoryName: input.AccessoryName,
		BrandName:     input.BrandName,
		Quantity:      input.Quantity,
		CreatedBy:     userID,
		CreatedByRole: role,
	}
	if session == nil {
		ts := now()
		accessory.ApprovalStatus = models.ApprovalApproved
		accessory.ApprovedBy = &userID
		accessory.ApprovedAt = &ts
	} else {
		accessory.ApprovalStatus = models.ApprovalPending
	}

	if err := s.store.CreateAccessory(ctx, accessory); err != nil {
		return nil, err
	}

	return accessory, nil
}

// ListAccessories lists a room's accessories for anyone with approved
// access to its apartment
func (s *RoomService) ListAccessories(ctx context.Context, userID, roomID int64, status *models.ApprovalStatus) ([]*models.RoomAccessory, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("room not found")
		}
		return nil, err
	}

	if _, err := s.store.GetApprovedOwnership(ctx, userID, room.ApartmentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, Forbidden("no approved access to apartment")
		}
		return nil, err
	}

	return s.store.ListAccessories(ctx, roomID, status)
}

// ReviewAccessory applies the counterpart's decision to a pending
// accessory proposal.
func (s *RoomService) ReviewAccessory(ctx context.Context, userID, accessoryID int64, approve bool) (*models.RoomAccessory, error) {
	accessory, err := s.store.GetAccessory(ctx, accessoryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("accessory not found")
		}
		return nil, err
	}
	if accessory.ApprovalStatus != models.ApprovalPending {
		return nil, InvalidState("accessory has already been reviewed")
	}
	if accessory.CreatedBy == userID {
		return nil, Forbidden("creator cannot review their own proposal")
	}

	room, err := s.store.GetRoom(ctx, accessory.RoomID)
	if err != nil {
		return nil, err
	}

	session, err := s.store.GetActiveRentSession(ctx, room.ApartmentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, InvalidState("no active rent session for this apartment")
		}
		return nil, err
	}

	role := session.PartyRole(userID)
	if role == "" {
		return nil, Forbidden("caller is not a party to this session")
	}
	if role != accessory.CreatedByRole.Counterpart() {
		return nil, Forbidden("only the counterpart role reviews this proposal")
	}

	ts := now()
	accessory.ApprovedBy = &userID
	accessory.ApprovedAt = &ts
	if approve {
		accessory.ApprovalStatus = models.ApprovalApproved
	} else {
		accessory.ApprovalStatus = models.ApprovalRejected
	}

	if err := s.store.UpdateAccessory(ctx, accessory); err != nil {
		return nil, err
	}

	return accessory, nil
}

// ========== Replacements ==========

// CreateReplacementInput records an accessory replacement
type CreateReplacementInput struct {
	SessionID         int64                `json:"sessionId"`
	RoomID            int64                `json:"roomId"`
	AccessoryID       *int64               `json:"accessoryId"`
	OldAccessoryName  *string              `json:"oldAccessoryName"`
	NewAccessoryName  *string              `json:"newAccessoryName"`
	ReplacementReason *string              `json:"replacementReason"`
	Cost              *float64             `json:"cost"`
	PaidBy            models.OwnershipType `json:"paidBy"`
	IncludedInRent    bool                 `json:"includedInRent"`
}

// CreateReplacement records a replacement event on an active session.
// Cost fields are informational; rent is never recalculated.
func (s *RoomService) CreateReplacement(ctx context.Context, userID int64, input CreateReplacementInput) (*models.AccessoryReplacement, error) {
	if !input.PaidBy.Valid() {
		return nil, InvalidArgument("paidBy must be owner or tenant")
	}
	if input.Cost != nil && *input.Cost < 0 {
		return nil, InvalidArgument("cost must not be negative")
	}

	session, err := s.store.GetRentSession(ctx, input.SessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("rent session not found")
		}
		return nil, err
	}
	if session.Status != models.SessionActive {
		return nil, InvalidState("rent session is not active")
	}

	role := session.PartyRole(userID)
	if role == "" {
		return nil, Forbidden("caller is not a party to this session")
	}

	room, err := s.store.GetRoom(ctx, input.RoomID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("room not found")
		}
		return nil, err
	}
	if room.ApartmentID != session.ApartmentID {
		return nil, InvalidArgument("room does not belong to the session's apartment")
	}

	if input.AccessoryID != nil {
		accessory, err := s.store.GetAccessory(ctx, *input.AccessoryID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, NotFound("accessory not found")
			}
			return nil, err
		}
		if accessory.RoomID != input.RoomID {
			return nil, InvalidArgument("accessory does not belong to the room")
		}
	}

	ts := now()
	replacement := &models.AccessoryReplacement{
		SessionID:         input.SessionID,
		RoomID:            input.RoomID,
		AccessoryID:       input.AccessoryID,
		OldAccessoryName:  input.OldAccessoryName,
		NewAccessoryName:  input.NewAccessoryName,
		ReplacementReason: input.ReplacementReason,
		ReplacedBy:        userID,
		ReplacedByRole:    role,
		Cost:              input.Cost,
		PaidBy:            input.PaidBy,
		IncludedInRent:    input.IncludedInRent,
		ReplacementDate:   &ts,
		ApprovalStatus:    models.ApprovalPending,
	}

	if err := s.store.CreateReplacement(ctx, replacement); err != nil {
		return nil, err
	}

	return replacement, nil
}

// ListReplacements lists a session's replacement records for a party
func (s *RoomService) ListReplacements(ctx context.Context, userID, sessionID int64) ([]*models.AccessoryReplacement, error) {
	session, err := s.store.GetRentSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("rent session not found")
		}
		return nil, err
	}
	if session.PartyRole(userID) == "" {
		return nil, Forbidden("caller is not a party to this session")
	}

	return s.store.ListReplacements(ctx, sessionID)
}

// ReviewReplacement applies the counterpart's decision to a pending
// replacement.
func (s *RoomService) ReviewReplacement(ctx context.Context, userID, replacementID int64, approve bool, rejectionReason *string) (*models.AccessoryReplacement, error) {
	replacement, err := s.store.GetReplacement(ctx, replacementID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("replacement not found")
		}
		return nil, err
	}
	if replacement.ApprovalStatus != models.ApprovalPending {
		return nil, InvalidState("replacement has already been reviewed")
	}
	if replacement.ReplacedBy == userID {
		return nil, Forbidden("creator cannot review their own proposal")
	}

	session, err := s.store.GetRentSession(ctx, replacement.SessionID)
	if err != nil {
		return nil, err
	}

	role := session.PartyRole(userID)
	if role == "" {
		return nil, Forbidden("caller is not a party to this session")
	}
	if role != replacement.ReplacedByRole.Counterpart() {
		return nil, Forbidden("only the counterpart role reviews this proposal")
	}

	ts := now()
	replacement.ApprovedBy = &userID
	replacement.ApprovedAt = &ts
	if approve {
		replacement.ApprovalStatus = models.ApprovalApproved
	} else {
		replacement.ApprovalStatus = models.ApprovalRejected
		replacement.RejectionReason = rejectionReason
	}

	if err := s.store.UpdateReplacement(ctx, replacement); err != nil {
		return nil, err
	}

	return replacement, nil
}

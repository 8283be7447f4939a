package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gatedlife/community-server/internal/auth"
	"github.com/gatedlife/community-server/internal/models"
	"github.com/gatedlife/community-server/internal/notify"
	"github.com/gatedlife/community-server/internal/storage"
)

// DisputeService runs the dispute workflow: report, chat, escalation,
// and two-party resolution.
type DisputeService struct {
	store  storage.Store
	events notify.Publisher
	log    zerolog.Logger
}

// NewDisputeService creates the dispute workflow service
func NewDisputeService(store storage.Store, events notify.Publisher, log zerolog.Logger) *DisputeService {
	return &DisputeService{store: store, events: events, log: log}
}

// CreateDisputeInput is a new dispute report
type CreateDisputeInput struct {
	SessionID     int64                    `json:"sessionId"`
	ReportType    models.DisputeReportType `json:"reportType"`
	RoomID        *int64                   `json:"roomId"`
	Reason        string                   `json:"reason"`
	ImageFilename *string                  `json:"imageFilename"`
}

// DisputeDetail is a dispute with its chat thread and sign-offs
type DisputeDetail struct {
	Dispute   *models.DisputeReport               `json:"dispute"`
	Messages  []*models.DisputeMessage            `json:"messages"`
	Approvals []*models.DisputeResolutionApproval `json:"approvals"`
}

// Create opens a dispute on an active session. Room-based disputes
// must name a room of the session's apartment; common disputes must
// not name one.
func (s *DisputeService) Create(ctx context.Context, userID int64, input CreateDisputeInput) (*models.DisputeReport, error) {
	if !input.ReportType.Valid() {
		return nil, InvalidArgument("reportType must be room_based or common")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, InvalidArgument("reason is required")
	}

	session, err := s.store.GetRentSession(ctx, input.SessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("rent session not found")
		}
		return nil, err
	}

	role := session.PartyRole(userID)
	if role == "" {
		return nil, Forbidden("caller is not a party to this session")
	}
	if session.Status != models.SessionActive {
		return nil, InvalidState("disputes can only be raised on an active session")
	}

	switch input.ReportType {
	case models.DisputeRoomBased:
		if input.RoomID == nil {
			return nil, InvalidArgument("room_based dispute requires roomId")
		}
		room, err := s.store.GetRoom(ctx, *input.RoomID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, NotFound("room not found")
			}
			return nil, err
		}
		if room.ApartmentID != session.ApartmentID {
			return nil, InvalidArgument("room does not belong to the session's apartment")
		}
	case models.DisputeCommon:
		if input.RoomID != nil {
			return nil, InvalidArgument("common dispute must not name a room")
		}
	}

	dispute := &models.DisputeReport{
		SessionID:      input.SessionID,
		ReportedBy:     userID,
		ReportedByRole: role,
		ReportType:     input.ReportType,
		RoomID:         input.RoomID,
		Reason:         input.Reason,
		ImageFilename:  input.ImageFilename,
		Status:         models.DisputeOpen,
	}

	if err := s.store.CreateDispute(ctx, dispute); err != nil {
		return nil, err
	}

	s.log.Info().Int64("dispute_id", dispute.ID).Int64("session_id", input.SessionID).
		Str("report_type", string(input.ReportType)).Msg("Dispute created")
	s.events.Publish(notify.SubjectDisputeCreated, dispute)

	return dispute, nil
}

// List lists a session's disputes for a party or community admin
func (s *DisputeService) List(ctx context.Context, p auth.Principal, sessionID int64) ([]*models.DisputeReport, error) {
	if _, err := s.authorizeSession(ctx, p, sessionID); err != nil {
		return nil, err
	}
	return s.store.ListDisputesBySession(ctx, sessionID)
}

// Get returns a dispute with its messages and approvals
func (s *DisputeService) Get(ctx context.Context, p auth.Principal, disputeID int64) (*DisputeDetail, error) {
	dispute, _, err := s.authorizeDispute(ctx, p, disputeID)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.ListDisputeMessages(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	approvals, err := s.store.ListResolutionApprovals(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	return &DisputeDetail{Dispute: dispute, Messages: messages, Approvals: approvals}, nil
}

// PostMessageInput is one chat entry
type PostMessageInput struct {
	MessageText   *string `json:"messageText"`
	ImageFilename *string `json:"imageFilename"`
}

// PostMessage appends to the dispute's chat thread. The first message
// from someone other than the reporter moves an open dispute to
// in_progress. Admins may post only after escalation. Messages are
// append-only and a resolved dispute's thread is closed.
func (s *DisputeService) PostMessage(ctx context.Context, p auth.Principal, disputeID int64, input PostMessageInput) (*models.DisputeMessage, error) {
	hasText := input.MessageText != nil && strings.TrimSpace(*input.MessageText) != ""
	hasImage := input.ImageFilename != nil && *input.ImageFilename != ""
	if !hasText && !hasImage {
		return nil, InvalidArgument("message requires text or an image")
	}

	dispute, senderRole, err := s.authorizeDispute(ctx, p, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status == models.DisputeResolved {
		return nil, InvalidState("dispute has been resolved")
	}

	message := &models.DisputeMessage{
		DisputeID:     disputeID,
		SenderID:      p.ID,
		SenderRole:    senderRole,
		MessageText:   input.MessageText,
		ImageFilename: input.ImageFilename,
	}
	if err := s.store.CreateDisputeMessage(ctx, message); err != nil {
		return nil, err
	}

	if dispute.Status == models.DisputeOpen && p.ID != dispute.ReportedBy {
		dispute.Status = models.DisputeInProgress
		if err := s.store.UpdateDispute(ctx, dispute); err != nil {
			return nil, err
		}
	}

	return message, nil
}

// Escalate flags the dispute for admin attention. Escalation is
// one-way and does not block later resolution.
func (s *DisputeService) Escalate(ctx context.Context, userID, disputeID int64) (*models.DisputeReport, error) {
	dispute, err := s.store.GetDispute(ctx, disputeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("dispute not found")
		}
		return nil, err
	}

	session, err := s.store.GetRentSession(ctx, dispute.SessionID)
	if err != nil {
		return nil, err
	}
	if session.PartyRole(userID) == "" {
		return nil, Forbidden("caller is not a party to this session")
	}

	if dispute.Status == models.DisputeResolved {
		return nil, InvalidState("dispute has been resolved")
	}
	if dispute.EscalatedToAdmin {
		return nil, InvalidState("dispute has already been escalated")
	}

	ts := now()
	dispute.EscalatedToAdmin = true
	dispute.EscalatedAt = &ts
	dispute.Status = models.DisputeEscalated
	if err := s.store.UpdateDispute(ctx, dispute); err != nil {
		return nil, err
	}

	s.log.Info().Int64("dispute_id", dispute.ID).Int64("user_id", userID).
		Msg("Dispute escalated to admin")
	s.events.Publish(notify.SubjectDisputeEscalated, dispute)

	return dispute, nil
}

// Approve records a party's resolution sign-off. A repeated sign-off
// is a no-op. The dispute resolves, in the same transaction, once the
// owner and the tenant both hold one. Admin sign-offs are recorded but
// never count toward resolution.
func (s *DisputeService) Approve(ctx context.Context, p auth.Principal, disputeID int64) (*models.DisputeReport, error) {
	dispute, role, err := s.authorizeDispute(ctx, p, disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status == models.DisputeResolved {
		return nil, InvalidState("dispute has been resolved")
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	approval := &models.DisputeResolutionApproval{
		DisputeID:      disputeID,
		ApprovedBy:     p.ID,
		ApprovedByRole: role,
	}
	if err := tx.CreateResolutionApproval(ctx, approval); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return dispute, nil
		}
		return nil, err
	}

	approvals, err := tx.ListResolutionApprovals(ctx, disputeID)
	if err != nil {
		return nil, err
	}

	var ownerSigned, tenantSigned bool
	for _, a := range approvals {
		switch a.ApprovedByRole {
		case models.DisputeRoleOwner:
			ownerSigned = true
		case models.DisputeRoleTenant:
			tenantSigned = true
		}
	}

	if ownerSigned && tenantSigned {
		ts := now()
		dispute.Status = models.DisputeResolved
		dispute.ResolvedAt = &ts
		if err := tx.UpdateDispute(ctx, dispute); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if dispute.Status == models.DisputeResolved {
		s.log.Info().Int64("dispute_id", dispute.ID).Msg("Dispute resolved")
		s.events.Publish(notify.SubjectDisputeResolved, dispute)
	}

	return dispute, nil
}

// authorizeDispute loads a dispute and resolves the principal's role
// in it. Admins get access only after escalation.
func (s *DisputeService) authorizeDispute(ctx context.Context, p auth.Principal, disputeID int64) (*models.DisputeReport, models.DisputeRole, error) {
	dispute, err := s.store.GetDispute(ctx, disputeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", NotFound("dispute not found")
		}
		return nil, "", err
	}

	session, err := s.store.GetRentSession(ctx, dispute.SessionID)
	if err != nil {
		return nil, "", err
	}

	switch p.Type {
	case auth.PrincipalResident:
		switch session.PartyRole(p.ID) {
		case models.OwnershipOwner:
			return dispute, models.DisputeRoleOwner, nil
		case models.OwnershipTenant:
			return dispute, models.DisputeRoleTenant, nil
		}
		return nil, "", Forbidden("caller is not a party to this session")
	case auth.PrincipalAdmin:
		if !dispute.EscalatedToAdmin {
			return nil, "", Forbidden("dispute has not been escalated")
		}
		apartment, err := s.store.GetApartment(ctx, session.ApartmentID)
		if err != nil {
			return nil, "", err
		}
		if p.CommunityID == nil || *p.CommunityID != apartment.CommunityID {
			return nil, "", Forbidden("dispute belongs to another community")
		}
		return dispute, models.DisputeRoleAdmin, nil
	}

	return nil, "", Forbidden("not allowed to access disputes")
}

// authorizeSession checks the principal may see a session's disputes
func (s *DisputeService) authorizeSession(ctx context.Context, p auth.Principal, sessionID int64) (*models.RentSession, error) {
	session, err := s.store.GetRentSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("rent session not found")
		}
		return nil, err
	}

	switch p.Type {
	case auth.PrincipalResident:
		if session.PartyRole(p.ID) == "" {
			return nil, Forbidden("caller is not a party to this session")
		}
	case auth.PrincipalAdmin:
		apartment, err := s.store.GetApartment(ctx, session.ApartmentID)
		if err != nil {
			return nil, err
		}
		if p.CommunityID == nil || *p.CommunityID != apartment.CommunityID {
			return nil, Forbidden("session belongs to another community")
		}
	default:
		return nil, Forbidden("not allowed to access disputes")
	}

	return session, nil
}

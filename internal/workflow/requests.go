package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gatedlife/community-server/internal/auth"
	"github.com/gatedlife/community-server/internal/models"
	"github.com/gatedlife/community-server/internal/notify"
	"github.com/gatedlife/community-server/internal/storage"
)

// defaultRejectionReason is recorded when an admin rejects without
// giving a reason.
const defaultRejectionReason = "Not specified"

// RequestService runs the apartment request approval workflow
type RequestService struct {
	store  storage.Store
	events notify.Publisher
	log    zerolog.Logger
}

// NewRequestService creates the request workflow service
func NewRequestService(store storage.Store, events notify.Publisher, log zerolog.Logger) *RequestService {
	return &RequestService{store: store, events: events, log: log}
}

// SubmitMemberInput is a proposed co-occupant on a request
type SubmitMemberInput struct {
	Name         string  `json:"name"`
	MobileNumber *string `json:"mobileNumber"`
	Relation     *string `json:"relation"`
}

// RuleResponseInput is the evidence for one community rule
type RuleResponseInput struct {
	RuleID        int64   `json:"ruleId"`
	TextResponse  *string `json:"textResponse"`
	ImageFilename *string `json:"imageFilename"`
}

// SubmitRequestInput is a resident's apartment application
type SubmitRequestInput struct {
	ApartmentID   int64                `json:"apartmentId"`
	OwnershipType models.OwnershipType `json:"ownershipType"`
	Members       []SubmitMemberInput  `json:"members"`
	RuleResponses []RuleResponseInput  `json:"ruleResponses"`
}

// RequestDetail is a request with its members and rule responses
type RequestDetail struct {
	Request       *models.ApartmentRequest      `json:"request"`
	Members       []*models.RequestMember       `json:"members"`
	RuleResponses []*models.RequestRuleResponse `json:"ruleResponses"`
}

// Submit creates a pending apartment request with its members and rule
// responses in one transaction. Mandatory community rules must each
// have a response.
func (s *RequestService) Submit(ctx context.Context, userID int64, input SubmitRequestInput) (*models.ApartmentRequest, error) {
	if !input.OwnershipType.Valid() {
		return nil, InvalidArgument("ownershipType must be owner or tenant")
	}
	if input.ApartmentID <= 0 {
		return nil, InvalidArgument("apartmentId is required")
	}

	apartment, err := s.store.GetApartment(ctx, input.ApartmentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("apartment not found")
		}
		return nil, err
	}
	if apartment.Status != models.ApartmentActive {
		return nil, InvalidState("apartment is not active")
	}

	existing, err := s.store.ListApartmentRequestsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, req := range existing {
		if req.ApartmentID == input.ApartmentID && req.Status == models.RequestPending {
			return nil, Conflict("a pending request for this apartment already exists")
		}
	}

	if _, err := s.store.GetApprovedOwnership(ctx, userID, input.ApartmentID); err == nil {
		return nil, Conflict("user already has approved access to this apartment")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	rules, err := s.store.ListRules(ctx, apartment.CommunityID)
	if err != nil {
		return nil, err
	}
	if err := checkRuleResponses(rules, input.RuleResponses); err != nil {
		return nil, err
	}

	for _, m := range input.Members {
		if strings.TrimSpace(m.Name) == "" {
			return nil, InvalidArgument("member name is required")
		}
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	request := &models.ApartmentRequest{
		UserID:        userID,
		ApartmentID:   input.ApartmentID,
		CommunityID:   apartment.CommunityID,
		OwnershipType: input.OwnershipType,
		Status:        models.RequestPending,
	}
	if err := tx.CreateApartmentRequest(ctx, request); err != nil {
		return nil, err
	}

	for _, m := range input.Members {
		member := &models.RequestMember{
			RequestID:    request.ID,
			Name:         m.Name,
			MobileNumber: m.MobileNumber,
			Relation:     m.Relation,
		}
		if err := tx.CreateRequestMember(ctx, member); err != nil {
			return nil, err
		}
	}

	for _, resp := range input.RuleResponses {
		response := &models.RequestRuleResponse{
			RequestID:     request.ID,
			RuleID:        resp.RuleID,
			TextResponse:  resp.TextResponse,
			ImageFilename: resp.ImageFilename,
		}
		if err := tx.CreateRuleResponse(ctx, response); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info().Int64("request_id", request.ID).Int64("user_id", userID).
		Int64("apartment_id", input.ApartmentID).Str("ownership_type", string(input.OwnershipType)).
		Msg("Apartment request submitted")
	s.events.Publish(notify.SubjectRequestSubmitted, request)

	return request, nil
}

func checkRuleResponses(rules []*models.Rule, responses []RuleResponseInput) error {
	byRule := make(map[int64]RuleResponseInput, len(responses))
	known := make(map[int64]bool, len(rules))
	for _, r := range responses {
		byRule[r.RuleID] = r
	}

	for _, rule := range rules {
		known[rule.ID] = true
		resp, ok := byRule[rule.ID]
		if !ok {
			if rule.IsMandatory {
				return InvalidArgument(fmt.Sprintf("mandatory rule %d has no response", rule.ID))
			}
			continue
		}

		needText := rule.ProofType == models.RuleProofText || rule.ProofType == models.RuleProofBoth
		needImage := rule.ProofType == models.RuleProofImage || rule.ProofType == models.RuleProofBoth
		if needText && (resp.TextResponse == nil || strings.TrimSpace(*resp.TextResponse) == "") {
			return InvalidArgument(fmt.Sprintf("rule %d requires a text response", rule.ID))
		}
		if needImage && (resp.ImageFilename == nil || *resp.ImageFilename == "") {
			return InvalidArgument(fmt.Sprintf("rule %d requires an image", rule.ID))
		}
	}

	for _, r := range responses {
		if !known[r.RuleID] {
			return InvalidArgument(fmt.Sprintf("rule %d does not belong to this community", r.RuleID))
		}
	}

	return nil
}

// ListMine lists the resident's own requests
func (s *RequestService) ListMine(ctx context.Context, userID int64) ([]*models.ApartmentRequest, error) {
	return s.store.ListApartmentRequestsByUser(ctx, userID)
}

// List lists requests in the admin's community, optionally filtered by
// status
func (s *RequestService) List(ctx context.Context, admin auth.Principal, status *models.RequestStatus, limit, offset int) ([]*models.ApartmentRequest, int64, error) {
	if admin.CommunityID == nil {
		return nil, 0, Forbidden("admin is not scoped to a community")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListApartmentRequests(ctx, *admin.CommunityID, status, limit, offset)
}

// Get returns a request with members and rule responses. Admins see
// requests in their community; residents see their own.
func (s *RequestService) Get(ctx context.Context, p auth.Principal, requestID int64) (*RequestDetail, error) {
	request, err := s.store.GetApartmentRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("request not found")
		}
		return nil, err
	}

	switch p.Type {
	case auth.PrincipalAdmin:
		if p.CommunityID == nil || *p.CommunityID != request.CommunityID {
			return nil, Forbidden("request belongs to another community")
		}
	case auth.PrincipalResident:
		if p.ID != request.UserID {
			return nil, Forbidden("request belongs to another user")
		}
	default:
		return nil, Forbidden("not allowed to view requests")
	}

	members, err := s.store.ListRequestMembers(ctx, requestID)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.ListRuleResponses(ctx, requestID)
	if err != nil {
		return nil, err
	}

	return &RequestDetail{Request: request, Members: members, RuleResponses: responses}, nil
}

// ReviewInput is an admin's decision on a request
type ReviewInput struct {
	Approve         bool    `json:"approve"`
	RejectionReason *string `json:"rejectionReason"`
	AdminComments   *string `json:"adminComments"`
}

// Review applies an admin decision to a pending request. Approval
// creates the ownership, member records, and member user accounts in
// the same transaction. A request already reviewed is never reviewed
// again.
func (s *RequestService) Review(ctx context.Context, admin auth.Principal, requestID int64, input ReviewInput) (*models.ApartmentRequest, error) {
	if admin.CommunityID == nil {
		return nil, Forbidden("admin is not scoped to a community")
	}

	request, err := s.store.GetApartmentRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("request not found")
		}
		return nil, err
	}
	if request.CommunityID != *admin.CommunityID {
		return nil, Forbidden("request belongs to another community")
	}
	if request.Status != models.RequestPending {
		return nil, InvalidState("request has already been reviewed")
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ts := now()
	request.ReviewedAt = &ts
	request.ReviewedByAdminID = &admin.ID
	request.AdminComments = input.AdminComments

	if input.Approve {
		request.Status = models.RequestApproved
		if err := s.applyApproval(ctx, tx, request); err != nil {
			return nil, err
		}
	} else {
		request.Status = models.RequestRejected
		reason := defaultRejectionReason
		if input.RejectionReason != nil && strings.TrimSpace(*input.RejectionReason) != "" {
			reason = *input.RejectionReason
		}
		request.RejectionReason = &reason
	}

	if err := tx.UpdateApartmentRequest(ctx, request); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info().Int64("request_id", request.ID).Str("status", string(request.Status)).
		Int64("admin_id", admin.ID).Msg("Apartment request reviewed")
	s.events.Publish(notify.SubjectRequestReviewed, request)

	return request, nil
}

// applyApproval provisions the ownership and member accounts inside the
// review transaction.
func (s *RequestService) applyApproval(ctx context.Context, tx storage.Store, request *models.ApartmentRequest) error {
	ownership := &models.ApartmentOwnership{
		UserID:          request.UserID,
		ApartmentID:     request.ApartmentID,
		OwnershipType:   request.OwnershipType,
		RulesAccepted:   true,
		IsAdminApproved: true,
	}
	if err := tx.CreateOwnership(ctx, ownership); err != nil {
		return err
	}

	members, err := tx.ListRequestMembers(ctx, request.ID)
	if err != nil {
		return err
	}

	for _, m := range members {
		memberUser, err := s.resolveMemberUser(ctx, tx, m)
		if err != nil {
			return err
		}

		member := &models.Member{
			UserID:       memberUser.ID,
			CommunityID:  request.CommunityID,
			ApartmentID:  request.ApartmentID,
			Name:         m.Name,
			MobileNumber: m.MobileNumber,
			Relation:     m.Relation,
			IsVerified:   false,
		}
		if err := tx.CreateMember(ctx, member); err != nil {
			return err
		}
	}

	return nil
}

// resolveMemberUser finds the user account behind a proposed member by
// mobile number, creating a placeholder account when none exists. A
// member listed without a mobile number gets a synthetic unique one so
// the account can be claimed later.
func (s *RequestService) resolveMemberUser(ctx context.Context, tx storage.Store, m *models.RequestMember) (*models.User, error) {
	if m.MobileNumber != nil && *m.MobileNumber != "" {
		user, err := tx.GetUserByMobile(ctx, *m.MobileNumber)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}

		user = &models.User{Name: m.Name, MobileNumber: *m.MobileNumber}
		if err := tx.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	user := &models.User{
		Name:         m.Name,
		MobileNumber: "pending-" + uuid.New().String(),
	}
	if err := tx.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

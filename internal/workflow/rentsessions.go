package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatedlife/community-server/internal/auth"
	"github.com/gatedlife/community-server/internal/models"
	"github.com/gatedlife/community-server/internal/notify"
	"github.com/gatedlife/community-server/internal/storage"
)

// SessionService runs the rent session lifecycle
type SessionService struct {
	store  storage.Store
	events notify.Publisher
	log    zerolog.Logger
}

// NewSessionService creates the rent session workflow service
func NewSessionService(store storage.Store, events notify.Publisher, log zerolog.Logger) *SessionService {
	return &SessionService{store: store, events: events, log: log}
}

// ChargeInput is one recurring charge on a new session
type ChargeInput struct {
	ChargeTitle  string  `json:"chargeTitle"`
	ChargeAmount float64 `json:"chargeAmount"`
}

// PreferencesInput is the per-session tenant details record
type PreferencesInput struct {
	NumberOfCars      int     `json:"numberOfCars"`
	NumberOfPets      int     `json:"numberOfPets"`
	OwnerRestrictions *string `json:"ownerRestrictions"`
}

// CreateSessionInput is an owner's request to open a tenancy. The
// tenant is named by phone number because owners never see internal
// user ids.
type CreateSessionInput struct {
	ApartmentID     int64             `json:"apartmentId"`
	TenantPhone     string            `json:"tenantPhone"`
	RentAmount      float64           `json:"rentAmount"`
	MaintenanceCost float64           `json:"maintenanceCost"`
	InitialDeposit  float64           `json:"initialDeposit"`
	StartDate       time.Time         `json:"startDate"`
	EndDate         *time.Time        `json:"endDate"`
	DurationMonths  int               `json:"durationMonths"`
	Charges         []ChargeInput     `json:"charges"`
	Preferences     *PreferencesInput `json:"preferences"`
}

// SessionDetail is a session with its charges and preferences
type SessionDetail struct {
	Session     *models.RentSession        `json:"session"`
	Charges     []*models.AdditionalCharge `json:"charges"`
	Preferences *models.TenantPreferences  `json:"preferences,omitempty"`
}

// Create opens a rent session between the calling owner and a tenant.
// The tenant's approved tenant ownership is provisioned inside the
// session transaction when missing, so a tenancy never exists without
// matching apartment access.
func (s *SessionService) Create(ctx context.Context, ownerID int64, input CreateSessionInput) (*models.RentSession, error) {
	if input.RentAmount <= 0 {
		return nil, InvalidArgument("rentAmount must be positive")
	}
	if input.MaintenanceCost < 0 || input.InitialDeposit < 0 {
		return nil, InvalidArgument("maintenanceCost and initialDeposit must not be negative")
	}
	if input.DurationMonths <= 0 {
		return nil, InvalidArgument("durationMonths must be positive")
	}
	if input.StartDate.IsZero() {
		return nil, InvalidArgument("startDate is required")
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return nil, InvalidArgument("endDate must be after startDate")
	}
	if strings.TrimSpace(input.TenantPhone) == "" {
		return nil, InvalidArgument("tenantPhone is required")
	}
	for _, c := range input.Charges {
		if strings.TrimSpace(c.ChargeTitle) == "" || c.ChargeAmount < 0 {
			return nil, InvalidArgument("charges require a title and a non-negative amount")
		}
	}

	if _, err := s.store.GetApprovedOwnershipByType(ctx, ownerID, input.ApartmentID, models.OwnershipOwner); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, Forbidden("caller is not an approved owner of this apartment")
		}
		return nil, err
	}

	tenant, err := s.store.GetUserByMobile(ctx, input.TenantPhone)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("tenant must pre-register before a session can be created")
		}
		return nil, err
	}
	if tenant.ID == ownerID {
		return nil, InvalidArgument("owner cannot be their own tenant")
	}

	if _, err := s.store.GetActiveRentSession(ctx, input.ApartmentID); err == nil {
		return nil, Conflict("apartment already has an active rent session")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	session := &models.RentSession{
		ApartmentID:     input.ApartmentID,
		OwnerID:         ownerID,
		TenantID:        tenant.ID,
		RentAmount:      input.RentAmount,
		MaintenanceCost: input.MaintenanceCost,
		InitialDeposit:  input.InitialDeposit,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		DurationMonths:  input.DurationMonths,
		Status:          models.SessionActive,
	}
	if err := tx.CreateRentSession(ctx, session); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, Conflict("apartment already has an active rent session")
		}
		return nil, err
	}

	for _, c := range input.Charges {
		charge := &models.AdditionalCharge{
			SessionID:    session.ID,
			ChargeTitle:  c.ChargeTitle,
			ChargeAmount: c.ChargeAmount,
		}
		if err := tx.CreateAdditionalCharge(ctx, charge); err != nil {
			return nil, err
		}
	}

	if input.Preferences != nil {
		prefs := &models.TenantPreferences{
			SessionID:         session.ID,
			NumberOfCars:      input.Preferences.NumberOfCars,
			NumberOfPets:      input.Preferences.NumberOfPets,
			OwnerRestrictions: input.Preferences.OwnerRestrictions,
		}
		if err := tx.CreateTenantPreferences(ctx, prefs); err != nil {
			return nil, err
		}
	}

	if err := s.ensureTenantAccess(ctx, tx, tenant.ID, input.ApartmentID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.log.Info().Int64("session_id", session.ID).Int64("apartment_id", input.ApartmentID).
		Int64("owner_id", ownerID).Int64("tenant_id", tenant.ID).
		Msg("Rent session created")
	s.events.Publish(notify.SubjectSessionCreated, session)

	return session, nil
}

func (s *SessionService) ensureTenantAccess(ctx context.Context, tx storage.Store, tenantID, apartmentID int64) error {
	_, err := tx.GetApprovedOwnershipByType(ctx, tenantID, apartmentID, models.OwnershipTenant)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	ownership := &models.ApartmentOwnership{
		UserID:          tenantID,
		ApartmentID:     apartmentID,
		OwnershipType:   models.OwnershipTenant,
		RulesAccepted:   true,
		IsAdminApproved: true,
	}
	return tx.CreateOwnership(ctx, ownership)
}

// Get returns a session with charges and preferences. Parties see
// their own sessions; admins see sessions in their community.
func (s *SessionService) Get(ctx context.Context, p auth.Principal, sessionID int64) (*SessionDetail, error) {
	session, err := s.authorizeSession(ctx, p, sessionID)
	if err != nil {
		return nil, err
	}

	charges, err := s.store.ListAdditionalCharges(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	prefs, err := s.store.GetTenantPreferences(ctx, session.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	return &SessionDetail{Session: session, Charges: charges, Preferences: prefs}, nil
}

// ListByApartment lists an apartment's sessions for a party or admin
func (s *SessionService) ListByApartment(ctx context.Context, p auth.Principal, apartmentID int64) ([]*models.RentSession, error) {
	apartment, err := s.store.GetApartment(ctx, apartmentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("apartment not found")
		}
		return nil, err
	}

	switch p.Type {
	case auth.PrincipalAdmin:
		if p.CommunityID == nil || *p.CommunityID != apartment.CommunityID {
			return nil, Forbidden("apartment belongs to another community")
		}
	case auth.PrincipalResident:
		if _, err := s.store.GetApprovedOwnership(ctx, p.ID, apartmentID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, Forbidden("no approved access to apartment")
			}
			return nil, err
		}
	default:
		return nil, Forbidden("not allowed to view rent sessions")
	}

	return s.store.ListRentSessionsByApartment(ctx, apartmentID)
}

// ListMine lists sessions where the user is a party, in the given role
func (s *SessionService) ListMine(ctx context.Context, userID int64, role models.OwnershipType) ([]*models.RentSession, error) {
	if !role.Valid() {
		return nil, InvalidArgument("role must be owner or tenant")
	}
	return s.store.ListRentSessionsByParty(ctx, userID, role)
}

// Terminate runs the two-party early termination handshake. The first
// party's call records the termination request; the counterpart's call
// completes it. The requester cannot approve their own request.
func (s *SessionService) Terminate(ctx context.Context, userID, sessionID int64, reason *string) (*models.RentSession, error) {
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
	if session.Status != models.SessionActive {
		return nil, InvalidState("rent session is not active")
	}

	if session.EarlyTerminationRequestedBy == nil {
		session.EarlyTerminationRequestedBy = &userID
		session.EarlyTerminationReason = reason
		if err := s.store.UpdateRentSession(ctx, session); err != nil {
			return nil, err
		}

		s.log.Info().Int64("session_id", session.ID).Int64("requested_by", userID).
			Msg("Early termination requested")
		return session, nil
	}

	if *session.EarlyTerminationRequestedBy == userID {
		return nil, InvalidState("termination already requested by caller, awaiting counterpart approval")
	}

	ts := now()
	session.EarlyTerminationApprovedBy = &userID
	session.Status = models.SessionTerminated
	session.TerminatedAt = &ts
	session.EndDate = &ts
	if err := s.store.UpdateRentSession(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info().Int64("session_id", session.ID).Int64("approved_by", userID).
		Msg("Rent session terminated")
	s.events.Publish(notify.SubjectSessionTerminated, session)

	return session, nil
}

// authorizeSession loads a session and checks the principal may see it
func (s *SessionService) authorizeSession(ctx context.Context, p auth.Principal, sessionID int64) (*models.RentSession, error) {
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
		return nil, Forbidden("not allowed to view rent sessions")
	}

	return session, nil
}

// ========== Session Documents ==========

// UploadDocumentInput is per-session document metadata
type UploadDocumentInput struct {
	DocumentType     string `json:"documentType"`
	DocumentFilename string `json:"documentFilename"`
}

// UploadDocument records document metadata on a session. Owner uploads
// are approved immediately; tenant uploads wait for owner approval.
func (s *SessionService) UploadDocument(ctx context.Context, userID, sessionID int64, input UploadDocumentInput) (*models.SessionDocument, error) {
	if strings.TrimSpace(input.DocumentType) == "" || strings.TrimSpace(input.DocumentFilename) == "" {
		return nil, InvalidArgument("documentType and documentFilename are required")
	}

	session, err := s.store.GetRentSession(ctx, sessionID)
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

	doc := &models.SessionDocument{
		SessionID:        sessionID,
		DocumentType:     input.DocumentType,
		DocumentFilename: input.DocumentFilename,
		UploadedBy:       userID,
		ApprovalStatus:   models.ApprovalPending,
	}
	if role == models.OwnershipOwner {
		ts := now()
		doc.ApprovalStatus = models.ApprovalApproved
		doc.ApprovedBy = &userID
		doc.ApprovedAt = &ts
	}

	if err := s.store.CreateSessionDocument(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// ListDocuments lists a session's documents for a party or admin
func (s *SessionService) ListDocuments(ctx context.Context, p auth.Principal, sessionID int64) ([]*models.SessionDocument, error) {
	if _, err := s.authorizeSession(ctx, p, sessionID); err != nil {
		return nil, err
	}
	return s.store.ListSessionDocuments(ctx, sessionID)
}

// ReviewDocument applies the owner's decision to a pending tenant
// upload.
func (s *SessionService) ReviewDocument(ctx context.Context, userID, documentID int64, approve bool, rejectionReason *string) (*models.SessionDocument, error) {
	doc, err := s.store.GetSessionDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, NotFound("document not found")
		}
		return nil, err
	}

	session, err := s.store.GetRentSession(ctx, doc.SessionID)
	if err != nil {
		return nil, err
	}
	if session.PartyRole(userID) != models.OwnershipOwner {
		return nil, Forbidden("only the session owner reviews documents")
	}
	if doc.UploadedBy == userID {
		return nil, Forbidden("uploader cannot review their own document")
	}
	if doc.ApprovalStatus != models.ApprovalPending {
		return nil, InvalidState("document has already been reviewed")
	}

	ts := now()
	doc.ApprovedBy = &userID
	doc.ApprovedAt = &ts
	if approve {
		doc.ApprovalStatus = models.ApprovalApproved
	} else {
		doc.ApprovalStatus = models.ApprovalRejected
		doc.RejectionReason = rejectionReason
	}

	if err := s.store.UpdateSessionDocument(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

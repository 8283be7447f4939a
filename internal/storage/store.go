package storage

import (
	"context"
	"errors"

	"github.com/gatedlife/community-server/internal/models"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidData  = errors.New("invalid data")
)

// Store defines the storage interface
type Store interface {
	// Transaction support
	BeginTx(ctx context.Context) (Store, error)
	Commit() error
	Rollback() error

	// User and principal directory
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByMobile(ctx context.Context, mobileNumber string) (*models.User, error)
	GetAdmin(ctx context.Context, id int64) (*models.CommunityAdmin, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.CommunityAdmin, error)
	GetSuperAdminByEmail(ctx context.Context, email string) (*models.SuperAdmin, error)
	GetSecurityByUsername(ctx context.Context, username string) (*models.Security, error)

	// Communities and apartments
	GetCommunity(ctx context.Context, id int64) (*models.Community, error)
	GetApartment(ctx context.Context, id int64) (*models.Apartment, error)
	ListRules(ctx context.Context, communityID int64) ([]*models.Rule, error)

	// Ownerships, members, apartment context
	CreateOwnership(ctx context.Context, o *models.ApartmentOwnership) error
	GetOwnership(ctx context.Context, userID, apartmentID int64) (*models.ApartmentOwnership, error)
	GetApprovedOwnership(ctx context.Context, userID, apartmentID int64) (*models.ApartmentOwnership, error)
	GetApprovedOwnershipByType(ctx context.Context, userID, apartmentID int64, t models.OwnershipType) (*models.ApartmentOwnership, error)
	FirstApprovedOwnership(ctx context.Context, userID int64) (*models.ApartmentOwnership, error)
	ListApartmentAccess(ctx context.Context, userID int64) ([]*models.ApartmentAccess, error)
	CreateMember(ctx context.Context, m *models.Member) error
	ListMembers(ctx context.Context, apartmentID int64) ([]*models.Member, error)
	GetApartmentContext(ctx context.Context, userID int64) (*models.ApartmentContext, error)
	SaveApartmentContext(ctx context.Context, userID, apartmentID int64) error

	// Apartment requests
	CreateApartmentRequest(ctx context.Context, r *models.ApartmentRequest) error
	GetApartmentRequest(ctx context.Context, id int64) (*models.ApartmentRequest, error)
	UpdateApartmentRequest(ctx context.Context, r *models.ApartmentRequest) error
	ListApartmentRequests(ctx context.Context, communityID int64, status *models.RequestStatus, limit, offset int) ([]*models.ApartmentRequest, int64, error)
	ListApartmentRequestsByUser(ctx context.Context, userID int64) ([]*models.ApartmentRequest, error)
	CreateRequestMember(ctx context.Context, m *models.RequestMember) error
	ListRequestMembers(ctx context.Context, requestID int64) ([]*models.RequestMember, error)
	CreateRuleResponse(ctx context.Context, r *models.RequestRuleResponse) error
	ListRuleResponses(ctx context.Context, requestID int64) ([]*models.RequestRuleResponse, error)

	// Rent sessions
	CreateRentSession(ctx context.Context, s *models.RentSession) error
	GetRentSession(ctx context.Context, id int64) (*models.RentSession, error)
	GetActiveRentSession(ctx context.Context, apartmentID int64) (*models.RentSession, error)
	UpdateRentSession(ctx context.Context, s *models.RentSession) error
	ListRentSessionsByApartment(ctx context.Context, apartmentID int64) ([]*models.RentSession, error)
	ListRentSessionsByParty(ctx context.Context, userID int64, role models.OwnershipType) ([]*models.RentSession, error)
	CreateAdditionalCharge(ctx context.Context, c *models.AdditionalCharge) error
	ListAdditionalCharges(ctx context.Context, sessionID int64) ([]*models.AdditionalCharge, error)
	CreateTenantPreferences(ctx context.Context, p *models.TenantPreferences) error
	GetTenantPreferences(ctx context.Context, sessionID int64) (*models.TenantPreferences, error)
	CreateSessionDocument(ctx context.Context, d *models.SessionDocument) error
	GetSessionDocument(ctx context.Context, id int64) (*models.SessionDocument, error)
	UpdateSessionDocument(ctx context.Context, d *models.SessionDocument) error
	ListSessionDocuments(ctx context.Context, sessionID int64) ([]*models.SessionDocument, error)

	// Rooms, accessories, replacements
	CreateRoom(ctx context.Context, r *models.ApartmentRoom) error
	GetRoom(ctx context.Context, id int64) (*models.ApartmentRoom, error)
	UpdateRoom(ctx context.Context, r *models.ApartmentRoom) error
	ListRooms(ctx context.Context, apartmentID int64, status *models.ApprovalStatus) ([]*models.ApartmentRoom, error)
	CreateAccessory(ctx context.Context, a *models.RoomAccessory) error
	GetAccessory(ctx context.Context, id int64) (*models.RoomAccessory, error)
	UpdateAccessory(ctx context.Context, a *models.RoomAccessory) error
	ListAccessories(ctx context.Context, roomID int64, status *models.ApprovalStatus) ([]*models.RoomAccessory, error)
	CreateReplacement(ctx context.Context, r *models.AccessoryReplacement) error
	GetReplacement(ctx context.Context, id int64) (*models.AccessoryReplacement, error)
	UpdateReplacement(ctx context.Context, r *models.AccessoryReplacement) error
	ListReplacements(ctx context.Context, sessionID int64) ([]*models.AccessoryReplacement, error)

	// Disputes
	CreateDispute(ctx context.Context, d *models.DisputeReport) error
	GetDispute(ctx context.Context, id int64) (*models.DisputeReport, error)
	UpdateDispute(ctx context.Context, d *models.DisputeReport) error
	ListDisputesBySession(ctx context.Context, sessionID int64) ([]*models.DisputeReport, error)
	CreateDisputeMessage(ctx context.Context, m *models.DisputeMessage) error
	ListDisputeMessages(ctx context.Context, disputeID int64) ([]*models.DisputeMessage, error)
	CreateResolutionApproval(ctx context.Context, a *models.DisputeResolutionApproval) error
	ListResolutionApprovals(ctx context.Context, disputeID int64) ([]*models.DisputeResolutionApproval, error)

	// Close the store
	Close() error
}

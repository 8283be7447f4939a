package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatedlife/community-server/internal/auth"
	"github.com/gatedlife/community-server/internal/models"
	"github.com/gatedlife/community-server/internal/notify"
)

type env struct {
	store    *fakeStore
	resolver *Resolver
	requests *RequestService
	sessions *SessionService
	rooms    *RoomService
	disputes *DisputeService

	community *models.Community
	apartment *models.Apartment
	admin     *models.CommunityAdmin
	owner     *models.User
	tenant    *models.User
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := newFakeStore()
	logger := zerolog.Nop()
	events := notify.NoopPublisher{}

	e := &env{
		store:    store,
		resolver: NewResolver(store, logger),
		requests: NewRequestService(store, events, logger),
		sessions: NewSessionService(store, events, logger),
		rooms:    NewRoomService(store, events, logger),
		disputes: NewDisputeService(store, events, logger),
	}

	e.community = &models.Community{ID: store.id(), Name: "Green Meadows", FullAddress: "12 Lake Road", Country: "India"}
	store.communities[e.community.ID] = e.community

	e.apartment = &models.Apartment{
		ID:              store.id(),
		CommunityID:     e.community.ID,
		ApartmentNumber: "A-101",
		Status:          models.ApartmentActive,
	}
	store.apartments[e.apartment.ID] = e.apartment

	e.admin = &models.CommunityAdmin{ID: store.id(), Name: "Admin", Email: "admin@example.com", CommunityID: e.community.ID}
	store.admins[e.admin.ID] = e.admin

	e.owner = e.addUser("Owner One", "9000000001")
	e.tenant = e.addUser("Tenant One", "9000000002")

	return e
}

func (e *env) addUser(name, mobile string) *models.User {
	u := &models.User{ID: e.store.id(), Name: name, MobileNumber: mobile}
	e.store.users[u.ID] = u
	return u
}

// addApartment creates another active apartment in the community
func (e *env) addApartment(number string) *models.Apartment {
	a := &models.Apartment{
		ID:              e.store.id(),
		CommunityID:     e.community.ID,
		ApartmentNumber: number,
		Status:          models.ApartmentActive,
	}
	e.store.apartments[a.ID] = a
	return a
}

// addRule registers a community rule
func (e *env) addRule(name string, mandatory bool, proof models.RuleProofType) *models.Rule {
	r := &models.Rule{
		ID:          e.store.id(),
		CommunityID: e.community.ID,
		RuleName:    name,
		IsMandatory: mandatory,
		ProofType:   proof,
	}
	e.store.rules[r.ID] = r
	return r
}

// approve inserts an approved ownership directly
func (e *env) approve(userID, apartmentID int64, t models.OwnershipType) *models.ApartmentOwnership {
	o := &models.ApartmentOwnership{
		ID:              e.store.id(),
		CreatedAt:       time.Now(),
		UserID:          userID,
		ApartmentID:     apartmentID,
		OwnershipType:   t,
		RulesAccepted:   true,
		IsAdminApproved: true,
	}
	e.store.ownerships[o.ID] = o
	return o
}

// activeSession creates an active session between owner and tenant on
// the default apartment
func (e *env) activeSession(t *testing.T) *models.RentSession {
	t.Helper()
	e.approve(e.owner.ID, e.apartment.ID, models.OwnershipOwner)

	session, err := e.sessions.Create(context.Background(), e.owner.ID, CreateSessionInput{
		ApartmentID:    e.apartment.ID,
		TenantPhone:    e.tenant.MobileNumber,
		RentAmount:     25000,
		InitialDeposit: 100000,
		StartDate:      time.Now(),
		DurationMonths: 11,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}

func (e *env) adminPrincipal() auth.Principal {
	return auth.Principal{ID: e.admin.ID, Type: auth.PrincipalAdmin, CommunityID: &e.admin.CommunityID}
}

func (e *env) residentPrincipal(userID int64) auth.Principal {
	return auth.Principal{ID: userID, Type: auth.PrincipalResident}
}

func strPtr(s string) *string { return &s }

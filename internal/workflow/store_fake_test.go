package workflow

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gatedlife/community-server/internal/models"
	"github.com/gatedlife/community-server/internal/storage"
)

// fakeStore is an in-memory Store for workflow tests. Transactions are
// pass-through; workflow logic under test never relies on rollback.
type fakeStore struct {
	mu sync.Mutex

	nextID int64

	users       map[int64]*models.User
	admins      map[int64]*models.CommunityAdmin
	superAdmins map[int64]*models.SuperAdmin
	securities  map[int64]*models.Security

	communities map[int64]*models.Community
	apartments  map[int64]*models.Apartment
	rules       map[int64]*models.Rule

	ownerships map[int64]*models.ApartmentOwnership
	members    map[int64]*models.Member
	contexts   map[int64]*models.ApartmentContext

	requests       map[int64]*models.ApartmentRequest
	requestMembers map[int64]*models.RequestMember
	ruleResponses  map[int64]*models.RequestRuleResponse

	sessions     map[int64]*models.RentSession
	charges      map[int64]*models.AdditionalCharge
	preferences  map[int64]*models.TenantPreferences
	documents    map[int64]*models.SessionDocument
	rooms        map[int64]*models.ApartmentRoom
	accessories  map[int64]*models.RoomAccessory
	replacements map[int64]*models.AccessoryReplacement

	disputes  map[int64]*models.DisputeReport
	messages  map[int64]*models.DisputeMessage
	approvals map[int64]*models.DisputeResolutionApproval
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:          make(map[int64]*models.User),
		admins:         make(map[int64]*models.CommunityAdmin),
		superAdmins:    make(map[int64]*models.SuperAdmin),
		securities:     make(map[int64]*models.Security),
		communities:    make(map[int64]*models.Community),
		apartments:     make(map[int64]*models.Apartment),
		rules:          make(map[int64]*models.Rule),
		ownerships:     make(map[int64]*models.ApartmentOwnership),
		members:        make(map[int64]*models.Member),
		contexts:       make(map[int64]*models.ApartmentContext),
		requests:       make(map[int64]*models.ApartmentRequest),
		requestMembers: make(map[int64]*models.RequestMember),
		ruleResponses:  make(map[int64]*models.RequestRuleResponse),
		sessions:       make(map[int64]*models.RentSession),
		charges:        make(map[int64]*models.AdditionalCharge),
		preferences:    make(map[int64]*models.TenantPreferences),
		documents:      make(map[int64]*models.SessionDocument),
		rooms:          make(map[int64]*models.ApartmentRoom),
		accessories:    make(map[int64]*models.RoomAccessory),
		replacements:   make(map[int64]*models.AccessoryReplacement),
		disputes:       make(map[int64]*models.DisputeReport),
		messages:       make(map[int64]*models.DisputeMessage),
		approvals:      make(map[int64]*models.DisputeResolutionApproval),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) BeginTx(ctx context.Context) (storage.Store, error) { return f, nil }
func (f *fakeStore) Commit() error                                      { return nil }
func (f *fakeStore) Rollback() error                                    { return nil }
func (f *fakeStore) Close() error                                       { return nil }

// ========== Users ==========

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.MobileNumber == user.MobileNumber {
			return storage.ErrDuplicateKey
		}
	}
	user.ID = f.id()
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) GetUserByMobile(ctx context.Context, mobileNumber string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.MobileNumber == mobileNumber {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetAdmin(ctx context.Context, id int64) (*models.CommunityAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.admins[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) GetAdminByEmail(ctx context.Context, email string) (*models.CommunityAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetSuperAdminByEmail(ctx context.Context, email string) (*models.SuperAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.superAdmins {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetSecurityByUsername(ctx context.Context, username string) (*models.Security, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.securities {
		if s.Username != nil && *s.Username == username {
			return s, nil
		}
	}
	return nil, storage.ErrNotFound
}

// ========== Communities / apartments ==========

func (f *fakeStore) GetCommunity(ctx context.Context, id int64) (*models.Community, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.communities[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) GetApartment(ctx context.Context, id int64) (*models.Apartment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apartments[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) ListRules(ctx context.Context, communityID int64) ([]*models.Rule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rules []*models.Rule
	for _, r := range f.rules {
		if r.CommunityID == communityID {
			rules = append(rules, r)
		}
	}
	sortByID(rules, func(r *models.Rule) int64 { return r.ID })
	return rules, nil
}

// ========== Ownerships / members / context ==========

func (f *fakeStore) CreateOwnership(ctx context.Context, o *models.ApartmentOwnership) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o.ID = f.id()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	f.ownerships[o.ID] = o
	return nil
}

func (f *fakeStore) approvedOwnerships(userID int64) []*models.ApartmentOwnership {
	var result []*models.ApartmentOwnership
	for _, o := range f.ownerships {
		if o.UserID == userID && o.IsAdminApproved {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (f *fakeStore) GetOwnership(ctx context.Context, userID, apartmentID int64) (*models.ApartmentOwnership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.ownerships {
		if o.UserID == userID && o.ApartmentID == apartmentID {
			return o, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetApprovedOwnership(ctx context.Context, userID, apartmentID int64) (*models.ApartmentOwnership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.approvedOwnerships(userID) {
		if o.ApartmentID == apartmentID {
			return o, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetApprovedOwnershipByType(ctx context.Context, userID, apartmentID int64, t models.OwnershipType) (*models.ApartmentOwnership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.approvedOwnerships(userID) {
		if o.ApartmentID == apartmentID && o.OwnershipType == t {
			return o, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) FirstApprovedOwnership(ctx context.Context, userID int64) (*models.ApartmentOwnership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	approved := f.approvedOwnerships(userID)
	if len(approved) == 0 {
		return nil, storage.ErrNotFound
	}
	return approved[0], nil
}

func (f *fakeStore) ListApartmentAccess(ctx context.Context, userID int64) ([]*models.ApartmentAccess, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var access []*models.ApartmentAccess
	for _, o := range f.approvedOwnerships(userID) {
		apt := f.apartments[o.ApartmentID]
		if apt == nil {
			continue
		}
		entry := &models.ApartmentAccess{
			ApartmentID:     o.ApartmentID,
			OwnershipType:   o.OwnershipType,
			ApartmentNumber: apt.ApartmentNumber,
			TowerName:       apt.TowerName,
			FloorNumber:     apt.FloorNumber,
			CommunityID:     apt.CommunityID,
		}
		if c := f.communities[apt.CommunityID]; c != nil {
			entry.CommunityName = c.Name
		}
		access = append(access, entry)
	}
	return access, nil
}

func (f *fakeStore) CreateMember(ctx context.Context, m *models.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.id()
	m.CreatedAt = time.Now()
	f.members[m.ID] = m
	return nil
}

func (f *fakeStore) ListMembers(ctx context.Context, apartmentID int64) ([]*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.Member
	for _, m := range f.members {
		if m.ApartmentID == apartmentID {
			result = append(result, m)
		}
	}
	sortByID(result, func(m *models.Member) int64 { return m.ID })
	return result, nil
}

func (f *fakeStore) GetApartmentContext(ctx context.Context, userID int64) (*models.ApartmentContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contexts[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) SaveApartmentContext(ctx context.Context, userID, apartmentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contexts[userID]
	if !ok {
		c = &models.ApartmentContext{ID: f.id(), UserID: userID}
		f.contexts[userID] = c
	}
	c.CurrentApartmentID = apartmentID
	c.LastSwitchedAt = time.Now()
	return nil
}

// ========== Requests ==========

func (f *fakeStore) CreateApartmentRequest(ctx context.Context, r *models.ApartmentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.id()
	r.SubmittedAt = time.Now()
	f.requests[r.ID] = r
	return nil
}

func (f *fakeStore) GetApartmentRequest(ctx context.Context, id int64) (*models.ApartmentRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) UpdateApartmentRequest(ctx context.Context, r *models.ApartmentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[r.ID]; !ok {
		return storage.ErrNotFound
	}
	f.requests[r.ID] = r
	return nil
}

func (f *fakeStore) ListApartmentRequests(ctx context.Context, communityID int64, status *models.RequestStatus, limit, offset int) ([]*models.ApartmentRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.ApartmentRequest
	for _, r := range f.requests {
		if r.CommunityID != communityID {
			continue
		}
		if status != nil && r.Status != *status {
			continue
		}
		result = append(result, r)
	}
	sortByID(result, func(r *models.ApartmentRequest) int64 { return r.ID })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result, total, nil
}

func (f *fakeStore) ListApartmentRequestsByUser(ctx context.Context, userID int64) ([]*models.ApartmentRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.ApartmentRequest
	for _, r := range f.requests {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	sortByID(result, func(r *models.ApartmentRequest) int64 { return r.ID })
	return result, nil
}

func (f *fakeStore) CreateRequestMember(ctx context.Context, m *models.RequestMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.id()
	f.requestMembers[m.ID] = m
	return nil
}

func (f *fakeStore) ListRequestMembers(ctx context.Context, requestID int64) ([]*models.RequestMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.RequestMember
	for _, m := range f.requestMembers {
		if m.RequestID == requestID {
			result = append(result, m)
		}
	}
	sortByID(result, func(m *models.RequestMember) int64 { return m.ID })
	return result, nil
}

func (f *fakeStore) CreateRuleResponse(ctx context.Context, r *models.RequestRuleResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.id()
	f.ruleResponses[r.ID] = r
	return nil
}

func (f *fakeStore) ListRuleResponses(ctx context.Context, requestID int64) ([]*models.RequestRuleResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.RequestRuleResponse
	for _, r := range f.ruleResponses {
		if r.RequestID == requestID {
			result = append(result, r)
		}
	}
	sortByID(result, func(r *models.RequestRuleResponse) int64 { return r.ID })
	return result, nil
}

// ========== Rent sessions ==========

func (f *fakeStore) CreateRentSession(ctx context.Context, s *models.RentSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.Status == models.SessionActive {
		for _, existing := range f.sessions {
			if existing.ApartmentID == s.ApartmentID && existing.Status == models.SessionActive {
				return storage.ErrDuplicateKey
			}
		}
	}
	s.ID = f.id()
	s.CreatedAt = time.Now()
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeStore) GetRentSession(ctx context.Context, id int64) (*models.RentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) GetActiveRentSession(ctx context.Context, apartmentID int64) (*models.RentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ApartmentID == apartmentID && s.Status == models.SessionActive {
			return s, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) UpdateRentSession(ctx context.Context, s *models.RentSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[s.ID]; !ok {
		return storage.ErrNotFound
	}
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeStore) ListRentSessionsByApartment(ctx context.Context, apartmentID int64) ([]*models.RentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.RentSession
	for _, s := range f.sessions {
		if s.ApartmentID == apartmentID {
			result = append(result, s)
		}
	}
	sortByID(result, func(s *models.RentSession) int64 { return s.ID })
	return result, nil
}

func (f *fakeStore) ListRentSessionsByParty(ctx context.Context, userID int64, role models.OwnershipType) ([]*models.RentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.RentSession
	for _, s := range f.sessions {
		if (role == models.OwnershipOwner && s.OwnerID == userID) ||
			(role == models.OwnershipTenant && s.TenantID == userID) {
			result = append(result, s)
		}
	}
	sortByID(result, func(s *models.RentSession) int64 { return s.ID })
	return result, nil
}

func (f *fakeStore) CreateAdditionalCharge(ctx context.Context, c *models.AdditionalCharge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.id()
	f.charges[c.ID] = c
	return nil
}

func (f *fakeStore) ListAdditionalCharges(ctx context.Context, sessionID int64) ([]*models.AdditionalCharge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.AdditionalCharge
	for _, c := range f.charges {
		if c.SessionID == sessionID {
			result = append(result, c)
		}
	}
	sortByID(result, func(c *models.AdditionalCharge) int64 { return c.ID })
	return result, nil
}

func (f *fakeStore) CreateTenantPreferences(ctx context.Context, p *models.TenantPreferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id()
	f.preferences[p.ID] = p
	return nil
}

func (f *fakeStore) GetTenantPreferences(ctx context.Context, sessionID int64) (*models.TenantPreferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.preferences {
		if p.SessionID == sessionID {
			return p, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) CreateSessionDocument(ctx context.Context, d *models.SessionDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d.ID = f.id()
	d.UploadedAt = time.Now()
	f.documents[d.ID] = d
	return nil
}

func (f *fakeStore) GetSessionDocument(ctx context.Context, id int64) (*models.SessionDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.documents[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return d, nil
}

func (f *fakeStore) UpdateSessionDocument(ctx context.Context, d *models.SessionDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.documents[d.ID]; !ok {
		return storage.ErrNotFound
	}
	f.documents[d.ID] = d
	return nil
}

func (f *fakeStore) ListSessionDocuments(ctx context.Context, sessionID int64) ([]*models.SessionDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.SessionDocument
	for _, d := range f.documents {
		if d.SessionID == sessionID {
			result = append(result, d)
		}
	}
	sortByID(result, func(d *models.SessionDocument) int64 { return d.ID })
	return result, nil
}

// ========== Rooms / accessories / replacements ==========

func (f *fakeStore) CreateRoom(ctx context.Context, r *models.ApartmentRoom) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.id()
	f.rooms[r.ID] = r
	return nil
}

func (f *fakeStore) GetRoom(ctx context.Context, id int64) (*models.ApartmentRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) UpdateRoom(ctx context.Context, r *models.ApartmentRoom) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rooms[r.ID]; !ok {
		return storage.ErrNotFound
	}
	f.rooms[r.ID] = r
	return nil
}

func (f *fakeStore) ListRooms(ctx context.Context, apartmentID int64, status *models.ApprovalStatus) ([]*models.ApartmentRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.ApartmentRoom
	for _, r := range f.rooms {
		if r.ApartmentID != apartmentID {
			continue
		}
		if status != nil && r.ApprovalStatus != *status {
			continue
		}
		result = append(result, r)
	}
	sortByID(result, func(r *models.ApartmentRoom) int64 { return r.ID })
	return result, nil
}

func (f *fakeStore) CreateAccessory(ctx context.Context, a *models.RoomAccessory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.id()
	f.accessories[a.ID] = a
	return nil
}

func (f *fakeStore) GetAccessory(ctx context.Context, id int64) (*models.RoomAccessory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accessories[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) UpdateAccessory(ctx context.Context, a *models.RoomAccessory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accessories[a.ID]; !ok {
		return storage.ErrNotFound
	}
	f.accessories[a.ID] = a
	return nil
}

func (f *fakeStore) ListAccessories(ctx context.Context, roomID int64, status *models.ApprovalStatus) ([]*models.RoomAccessory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.RoomAccessory
	for _, a := range f.accessories {
		if a.RoomID != roomID {
			continue
		}
		if status != nil && a.ApprovalStatus != *status {
			continue
		}
		result = append(result, a)
	}
	sortByID(result, func(a *models.RoomAccessory) int64 { return a.ID })
	return result, nil
}

func (f *fakeStore) CreateReplacement(ctx context.Context, r *models.AccessoryReplacement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.id()
	f.replacements[r.ID] = r
	return nil
}

func (f *fakeStore) GetReplacement(ctx context.Context, id int64) (*models.AccessoryReplacement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.replacements[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) UpdateReplacement(ctx context.Context, r *models.AccessoryReplacement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.replacements[r.ID]; !ok {
		return storage.ErrNotFound
	}
	f.replacements[r.ID] = r
	return nil
}

func (f *fakeStore) ListReplacements(ctx context.Context, sessionID int64) ([]*models.AccessoryReplacement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.AccessoryReplacement
	for _, r := range f.replacements {
		if r.SessionID == sessionID {
			result = append(result, r)
		}
	}
	sortByID(result, func(r *models.AccessoryReplacement) int64 { return r.ID })
	return result, nil
}

// ========== Disputes ==========

func (f *fakeStore) CreateDispute(ctx context.Context, d *models.DisputeReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d.ID = f.id()
	f.disputes[d.ID] = d
	return nil
}

func (f *fakeStore) GetDispute(ctx context.Context, id int64) (*models.DisputeReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.disputes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return d, nil
}

func (f *fakeStore) UpdateDispute(ctx context.Context, d *models.DisputeReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.disputes[d.ID]; !ok {
		return storage.ErrNotFound
	}
	f.disputes[d.ID] = d
	return nil
}

func (f *fakeStore) ListDisputesBySession(ctx context.Context, sessionID int64) ([]*models.DisputeReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.DisputeReport
	for _, d := range f.disputes {
		if d.SessionID == sessionID {
			result = append(result, d)
		}
	}
	sortByID(result, func(d *models.DisputeReport) int64 { return d.ID })
	return result, nil
}

func (f *fakeStore) CreateDisputeMessage(ctx context.Context, m *models.DisputeMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.id()
	m.SentAt = time.Now()
	f.messages[m.ID] = m
	return nil
}

func (f *fakeStore) ListDisputeMessages(ctx context.Context, disputeID int64) ([]*models.DisputeMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.DisputeMessage
	for _, m := range f.messages {
		if m.DisputeID == disputeID {
			result = append(result, m)
		}
	}
	sortByID(result, func(m *models.DisputeMessage) int64 { return m.ID })
	return result, nil
}

func (f *fakeStore) CreateResolutionApproval(ctx context.Context, a *models.DisputeResolutionApproval) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.approvals {
		if existing.DisputeID == a.DisputeID && existing.ApprovedByRole == a.ApprovedByRole {
			return storage.ErrDuplicateKey
		}
	}
	a.ID = f.id()
	a.ApprovedAt = time.Now()
	f.approvals[a.ID] = a
	return nil
}

func (f *fakeStore) ListResolutionApprovals(ctx context.Context, disputeID int64) ([]*models.DisputeResolutionApproval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.DisputeResolutionApproval
	for _, a := range f.approvals {
		if a.DisputeID == disputeID {
			result = append(result, a)
		}
	}
	sortByID(result, func(a *models.DisputeResolutionApproval) int64 { return a.ID })
	return result, nil
}

func sortByID[T any](items []T, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

package storage

import (
	"context"

	"github.com/gatedlife/community-server/internal/models"
)

// ========== Community / Apartment Methods ==========

// GetCommunity gets a community by ID
func (s *PostgresStore) GetCommunity(ctx context.Context, id int64) (*models.Community, error) {
	query := `
        SELECT id, created_at, updated_at, name, image_url, full_address,
               district, state, country, pincode, created_by_super_admin_id
        FROM communities
        WHERE id = $1`

	c := &models.Community{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.ImageURL, &c.FullAddress,
		&c.District, &c.State, &c.Country, &c.Pincode, &c.CreatedBySuperAdminID,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return c, nil
}

// GetApartment gets an apartment by ID
func (s *PostgresStore) GetApartment(ctx context.Context, id int64) (*models.Apartment, error) {
	query := `
        SELECT id, created_at, community_id, tower_name, floor_number, apartment_number, status
        FROM apartments
        WHERE id = $1`

	a := &models.Apartment{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.CreatedAt, &a.CommunityID, &a.TowerName,
		&a.FloorNumber, &a.ApartmentNumber, &a.Status,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return a, nil
}

// ListRules lists a community's rules
func (s *PostgresStore) ListRules(ctx context.Context, communityID int64) ([]*models.Rule, error) {
	query := `
        SELECT id, created_at, community_id, rule_name, description, is_mandatory, proof_type
        FROM rules
        WHERE community_id = $1
        ORDER BY id`

	rows, err := s.getDB().QueryContext(ctx, query, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*models.Rule
	for rows.Next() {
		r := &models.Rule{}
		err := rows.Scan(
			&r.ID, &r.CreatedAt, &r.CommunityID, &r.RuleName,
			&r.Description, &r.IsMandatory, &r.ProofType,
		)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	return rules, rows.Err()
}

// ========== Ownership Methods ==========

// CreateOwnership creates an apartment ownership row
func (s *PostgresStore) CreateOwnership(ctx context.Context, o *models.ApartmentOwnership) error {
	o.CreatedAt = now()

	query := `
        INSERT INTO apartment_ownerships (
            created_at, user_id, apartment_id, ownership_type, rules_accepted, is_admin_approved
        ) VALUES (
            $1, $2, $3, $4, $5, $6
        ) RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		o.CreatedAt, o.UserID, o.ApartmentID, o.OwnershipType,
		o.RulesAccepted, o.IsAdminApproved,
	).Scan(&o.ID)

	return mapError(err)
}

const ownershipColumns = `id, created_at, user_id, apartment_id, ownership_type, rules_accepted, is_admin_approved`

func scanOwnership(row interface{ Scan(...interface{}) error }) (*models.ApartmentOwnership, error) {
	o := &models.ApartmentOwnership{}
	err := row.Scan(
		&o.ID, &o.CreatedAt, &o.UserID, &o.ApartmentID,
		&o.OwnershipType, &o.RulesAccepted, &o.IsAdminApproved,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return o, nil
}

// GetOwnership gets any ownership row for (user, apartment)
func (s *PostgresStore) GetOwnership(ctx context.Context, userID, apartmentID int64) (*models.ApartmentOwnership, error) {
	query := `SELECT ` + ownershipColumns + `
        FROM apartment_ownerships
        WHERE user_id = $1 AND apartment_id = $2
        ORDER BY created_at, id
        LIMIT 1`

	return scanOwnership(s.getDB().QueryRowContext(ctx, query, userID, apartmentID))
}

// GetApprovedOwnership gets an admin-approved ownership for (user, apartment)
func (s *PostgresStore) GetApprovedOwnership(ctx context.Context, userID, apartmentID int64) (*models.ApartmentOwnership, error) {
	query := `SELECT ` + ownershipColumns + `
        FROM apartment_ownerships
        WHERE user_id = $1 AND apartment_id = $2 AND is_admin_approved = TRUE
        ORDER BY created_at, id
        LIMIT 1`

	return scanOwnership(s.getDB().QueryRowContext(ctx, query, userID, apartmentID))
}

// GetApprovedOwnershipByType gets an approved ownership of a specific type
func (s *PostgresStore) GetApprovedOwnershipByType(ctx context.Context, userID, apartmentID int64, t models.OwnershipType) (*models.ApartmentOwnership, error) {
	query := `SELECT ` + ownershipColumns + `
        FROM apartment_ownerships
        WHERE user_id = $1 AND apartment_id = $2 AND ownership_type = $3 AND is_admin_approved = TRUE
        ORDER BY created_at, id
        LIMIT 1`

	return scanOwnership(s.getDB().QueryRowContext(ctx, query, userID, apartmentID, t))
}

// FirstApprovedOwnership gets the user's earliest-created approved
// ownership. The ordering is the deterministic tie-break for lazily
// initializing the apartment context.
func (s *PostgresStore) FirstApprovedOwnership(ctx context.Context, userID int64) (*models.ApartmentOwnership, error) {
	query := `SELECT ` + ownershipColumns + `
        FROM apartment_ownerships
        WHERE user_id = $1 AND is_admin_approved = TRUE
        ORDER BY created_at, id
        LIMIT 1`

	return scanOwnership(s.getDB().QueryRowContext(ctx, query, userID))
}

// ListApartmentAccess lists the user's approved ownerships joined with
// apartment and community details
func (s *PostgresStore) ListApartmentAccess(ctx context.Context, userID int64) ([]*models.ApartmentAccess, error) {
	query := `
        SELECT o.apartment_id, o.ownership_type, a.apartment_number, a.tower_name,
               a.floor_number, a.community_id, c.name
        FROM apartment_ownerships o
        JOIN apartments a ON o.apartment_id = a.id
        JOIN communities c ON a.community_id = c.id
        WHERE o.user_id = $1 AND o.is_admin_approved = TRUE
        ORDER BY o.created_at, o.id`

	rows, err := s.getDB().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var access []*models.ApartmentAccess
	for rows.Next() {
		a := &models.ApartmentAccess{}
		err := rows.Scan(
			&a.ApartmentID, &a.OwnershipType, &a.ApartmentNumber, &a.TowerName,
			&a.FloorNumber, &a.CommunityID, &a.CommunityName,
		)
		if err != nil {
			return nil, err
		}
		access = append(access, a)
	}

	return access, rows.Err()
}

// ========== Member Methods ==========

// CreateMember creates a member scoped to an apartment and community
func (s *PostgresStore) CreateMember(ctx context.Context, m *models.Member) error {
	m.CreatedAt = now()

	query := `
        INSERT INTO members (
            created_at, user_id, community_id, apartment_id, name, mobile_number, relation, is_verified
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8
        ) RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		m.CreatedAt, m.UserID, m.CommunityID, m.ApartmentID,
		m.Name, m.MobileNumber, m.Relation, m.IsVerified,
	).Scan(&m.ID)

	return mapError(err)
}

// ListMembers lists members of an apartment
func (s *PostgresStore) ListMembers(ctx context.Context, apartmentID int64) ([]*models.Member, error) {
	query := `
        SELECT id, created_at, user_id, community_id, apartment_id, name, mobile_number, relation, is_verified
        FROM members
        WHERE apartment_id = $1
        ORDER BY created_at, id`

	rows, err := s.getDB().QueryContext(ctx, query, apartmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m := &models.Member{}
		err := rows.Scan(
			&m.ID, &m.CreatedAt, &m.UserID, &m.CommunityID, &m.ApartmentID,
			&m.Name, &m.MobileNumber, &m.Relation, &m.IsVerified,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// ========== Apartment Context Methods ==========

// GetApartmentContext gets the user's current-apartment pointer
func (s *PostgresStore) GetApartmentContext(ctx context.Context, userID int64) (*models.ApartmentContext, error) {
	query := `
        SELECT id, user_id, current_apartment_id, last_switched_at
        FROM user_apartment_context
        WHERE user_id = $1`

	c := &models.ApartmentContext{}
	err := s.getDB().QueryRowContext(ctx, query, userID).Scan(
		&c.ID, &c.UserID, &c.CurrentApartmentID, &c.LastSwitchedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return c, nil
}

// SaveApartmentContext upserts the user's current-apartment pointer.
// The unique constraint on user_id makes this safe under concurrent
// lazy initialization.
func (s *PostgresStore) SaveApartmentContext(ctx context.Context, userID, apartmentID int64) error {
	query := `
        INSERT INTO user_apartment_context (user_id, current_apartment_id, last_switched_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE
        SET current_apartment_id = EXCLUDED.current_apartment_id,
            last_switched_at = EXCLUDED.last_switched_at`

	_, err := s.getDB().ExecContext(ctx, query, userID, apartmentID, now())
	return mapError(err)
}

package storage

import (
	"context"

	"github.com/gatedlife/community-server/internal/models"
)

// ========== Room Methods ==========

const roomColumns = `id, created_at, updated_at, apartment_id, session_id, room_name, room_type,
               created_by, created_by_role, approval_status, approved_by, approved_at`

func scanRoom(row interface{ Scan(...interface{}) error }) (*models.ApartmentRoom, error) {
	r := &models.ApartmentRoom{}
	err := row.Scan(
		&r.ID, &r.CreatedAt, &r.UpdatedAt, &r.ApartmentID, &r.SessionID,
		&r.RoomName, &r.RoomType, &r.CreatedBy, &r.CreatedByRole,
		&r.ApprovalStatus, &r.ApprovedBy, &r.ApprovedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return r, nil
}

// CreateRoom creates a room proposal
func (s *PostgresStore) CreateRoom(ctx context.Context, r *models.ApartmentRoom) error {
	ts := now()
	r.CreatedAt = ts
	r.UpdatedAt = ts

	query := `
        INSERT INTO apartment_rooms (
            created_at, updated_at, apartment_id, session_id, room_name, room_type,
            created_by, created_by_role, approval_status, approved_by, approved_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
        ) RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		r.CreatedAt, r.UpdatedAt, r.ApartmentID, r.SessionID, r.RoomName, r.RoomType,
		r.CreatedBy, r.CreatedByRole, r.ApprovalStatus, r.ApprovedBy, r.ApprovedAt,
	).Scan(&r.ID)

	return mapError(err)
}

// GetRoom gets a room by ID
func (s *PostgresStore) GetRoom(ctx context.Context, id int64) (*models.ApartmentRoom, error) {
	query := `SELECT ` + roomColumns + `
        FROM apartment_rooms
        WHERE id = $1`

	return scanRoom(s.getDB().QueryRowContext(ctx, query, id))
}

// UpdateRoom updates a room's approval fields
func (s *PostgresStore) UpdateRoom(ctx context.Context, r *models.ApartmentRoom) error {
	r.UpdatedAt = now()

	query := `
        UPDATE apartment_rooms SET
            updated_at = $2, approval_status = $3, approved_by = $4, approved_at = $5
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		r.ID, r.UpdatedAt, r.ApprovalStatus, r.ApprovedBy, r.ApprovedAt,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListRooms lists an apartment's rooms, optionally filtered by approval
// status
func (s *PostgresStore) ListRooms(ctx context.Context, apartmentID int64, status *models.ApprovalStatus) ([]*models.ApartmentRoom, error) {
	args := []interface{}{apartmentID}
	query := `SELECT ` + roomColumns + ` FROM apartment_rooms WHERE apartment_id = $1`

	if status != nil {
		query += ` AND approval_status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.ApartmentRoom
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}

	return result, rows.Err()
}

// ========== Accessory Methods ==========

const accessoryColumns = `id, created_at, updated_at, room_id, accessory_name, brand_name, quantity,
               created_by, created_by_role, approval_status, approved_by, approved_at`

func scanAccessory(row interface{ Scan(...interface{}) error }) (*models.RoomAccessory, error) {
	a := &models.RoomAccessory{}
	err := row.Scan(
		&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.RoomID,
		&a.AccessoryName, &a.BrandName, &a.Quantity,
		&a.CreatedBy, &a.CreatedByRole,
		&a.ApprovalStatus, &a.ApprovedBy, &a.ApprovedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

// CreateAccessory creates an accessory proposal
func (s *PostgresStore) CreateAccessory(ctx context.Context, a *models.RoomAccessory) error {
	ts := now()
	a.CreatedAt = ts
	a.UpdatedAt = ts

	query := `
        INSERT INTO room_accessories (
            created_at, updated_at, room_id, accessory_name, brand_name, quantity,
            created_by, created_by_role, approval_status, approved_by, approved_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
        ) RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		a.CreatedAt, a.UpdatedAt, a.RoomID, a.AccessoryName, a.BrandName, a.Quantity,
		a.CreatedBy, a.CreatedByRole, a.ApprovalStatus, a.ApprovedBy, a.ApprovedAt,
	).Scan(&a.ID)

	return mapError(err)
}

// GetAccessory gets an accessory by ID
func (s *PostgresStore) GetAccessory(ctx context.Context, id int64) (*models.RoomAccessory, error) {
	query := `SELECT ` + accessoryColumns + `
        FROM room_accessories
        WHERE id = $1`

	return scanAccessory(s.getDB().QueryRowContext(ctx, query, id))
}

// UpdateAccessory updates an accessory's approval fields
func (s *PostgresStore) UpdateAccessory(ctx context.Context, a *models.RoomAccessory) error {
	a.UpdatedAt = now()

	query := `
        UPDATE room_accessories SET
            updated_at = $2, approval_status = $3, approved_by = $4, approved_at = $5
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		a.ID, a.UpdatedAt, a.ApprovalStatus, a.ApprovedBy, a.ApprovedAt,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListAccessories lists a room's accessories, optionally filtered by
// approval status
func (s *PostgresStore) ListAccessories(ctx context.Context, roomID int64, status *models.ApprovalStatus) ([]*models.RoomAccessory, error) {
	args := []interface{}{roomID}
	query := `SELECT ` + accessoryColumns + ` FROM room_accessories WHERE room_id = $1`

	if status != nil {
		query += ` AND approval_status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.RoomAccessory
	for rows.Next() {
		a, err := scanAccessory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}

	return result, rows.Err()
}

// ========== Replacement Methods ==========

const replacementColumns = `id, created_at, updated_at, session_id, room_id, accessory_id,
               old_accessory_name, new_accessory_name, replacement_reason,
               replaced_by, replaced_by_role, cost, paid_by, included_in_rent,
               replacement_date, approval_status, approved_by, approved_at, rejection_reason`

func scanReplacement(row interface{ Scan(...interface{}) error }) (*models.AccessoryReplacement, error) {
	r := &models.AccessoryReplacement{}
	err := row.Scan(
		&r.ID, &r.CreatedAt, &r.UpdatedAt, &r.SessionID, &r.RoomID, &r.AccessoryID,
		&r.OldAccessoryName, &r.NewAccessoryName, &r.ReplacementReason,
		&r.ReplacedBy, &r.ReplacedByRole, &r.Cost, &r.PaidBy, &r.IncludedInRent,
		&r.ReplacementDate, &r.ApprovalStatus, &r.ApprovedBy, &r.ApprovedAt, &r.RejectionReason,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return r, nil
}

// CreateReplacement creates an accessory replacement record
func (s *PostgresStore) CreateReplacement(ctx context.Context, r *models.AccessoryReplacement) error {
	ts := now()
	r.CreatedAt = ts
	r.UpdatedAt = ts

	query := `
        INSERT INTO accessory_replacements (
            created_at, updated_at, session_id, room_id, accessory_id,
            old_accessory_name, new_accessory_name, replacement_reason,
            replaced_by, replaced_by_role, cost, paid_by, included_in_rent,
            replacement_date, approval_status
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
        ) RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		r.CreatedAt, r.UpdatedAt, r.SessionID, r.RoomID, r.AccessoryID,
		r.OldAccessoryName, r.NewAccessoryName, r.ReplacementReason,
		r.ReplacedBy, r.ReplacedByRole, r.Cost, r.PaidBy, r.IncludedInRent,
		r.ReplacementDate, r.ApprovalStatus,
	).Scan(&r.ID)

	return mapError(err)
}

// GetReplacement gets a replacement by ID
func (s *PostgresStore) GetReplacement(ctx context.Context, id int64) (*models.AccessoryReplacement, error) {
	query := `SELECT ` + replacementColumns + `
        FROM accessory_replacements
        WHERE id = $1`

	return scanReplacement(s.getDB().QueryRowContext(ctx, query, id))
}

// UpdateReplacement updates a replacement's approval fields
func (s *PostgresStore) UpdateReplacement(ctx context.Context, r *models.AccessoryReplacement) error {
	r.UpdatedAt = now()

	query := `
        UPDATE accessory_replacements SET
            updated_at = $2, approval_status = $3, approved_by = $4,
            approved_at = $5, rejection_reason = $6
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		r.ID, r.UpdatedAt, r.ApprovalStatus, r.ApprovedBy, r.ApprovedAt, r.RejectionReason,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListReplacements lists a session's replacement records
func (s *PostgresStore) ListReplacements(ctx context.Context, sessionID int64) ([]*models.AccessoryReplacement, error) {
	query := `SELECT ` + replacementColumns + `
        FROM accessory_replacements
        WHERE session_id = $1
        ORDER BY created_at DESC, id DESC`

	rows, err := s.getDB().QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.AccessoryReplacement
	for rows.Next() {
		r, err := scanReplacement(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}

	return result, rows.Err()
}

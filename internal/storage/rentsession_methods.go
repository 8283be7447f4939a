package storage

import (
	"context"

	"github.com/gatedlife/community-server/internal/models"
)

// ========== Rent Session Methods ==========

const sessionColumns = `id, created_at, updated_at, apartment_id, owner_id, tenant_id,
               rent_amount, maintenance_cost, initial_deposit,
               start_date, end_date, duration_months, status,
               early_termination_requested_by, early_termination_approved_by,
               early_termination_reason, terminated_at`

func scanSession(row interface{ Scan(...interface{}) error }) (*models.RentSession, error) {
	sess := &models.RentSession{}
	err := row.Scan(
		&sess.ID, &sess.CreatedAt, &sess.UpdatedAt, &sess.ApartmentID, &sess.OwnerID, &sess.TenantID,
		&sess.RentAmount, &sess.MaintenanceCost, &sess.InitialDeposit,
		&sess.StartDate, &sess.EndDate, &sess.DurationMonths, &sess.Status,
		&sess.EarlyTerminationRequestedBy, &sess.EarlyTerminationApprovedBy,
		&sess.EarlyTerminationReason, &sess.TerminatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return sess, nil
}

// CreateRentSession creates a rent session. The partial unique index on
// (apartment_id) WHERE status = 'active' turns a concurrent second
// active session into ErrDuplicateKey.
func (s *PostgresStore) CreateRentSession(ctx context.Context, sess *models.RentSession) error {
	ts := now()
	sess.CreatedAt = ts
	sess.UpdatedAt = ts

	query := `
        INSERT INTO rent_sessions (
            created_at, updated_at, apartment_id, owner_id, tenant_id,
            rent_amount, maintenance_cost, initial_deposit,
            start_date, end_date, duration_months, status
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
        ) RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		sess.CreatedAt, sess.UpdatedAt, sess.ApartmentID, sess.OwnerID, sess.TenantID,
		sess.RentAmount, sess.MaintenanceCost, sess.InitialDeposit,
		sess.StartDate, sess.EndDate, sess.DurationMonths, sess.Status,
	).Scan(&sess.ID)

	return mapError(err)
}

// GetRentSession gets a session by ID
func (s *PostgresStore) GetRentSession(ctx context.Context, id int64) (*models.RentSession, error) {
	query := `SELECT ` + sessionColumns + `
        FROM rent_sessions
        WHERE id = $1`

	return scanSession(s.getDB().QueryRowContext(ctx, query, id))
}

// GetActiveRentSession gets the single active session for an apartment
func (s *PostgresStore) GetActiveRentSession(ctx context.Context, apartmentID int64) (*models.RentSession, error) {
	query := `SELECT ` + sessionColumns + `
        FROM rent_sessions
        WHERE apartment_id = $1 AND status = 'active'`

	return scanSession(s.getDB().QueryRowContext(ctx, query, apartmentID))
}

// UpdateRentSession updates a session's status and termination fields
func (s *PostgresStore) UpdateRentSession(ctx context.Context, sess *models.RentSession) error {
	sess.UpdatedAt = now()

	query := `
        UPDATE rent_sessions SET
            updated_at = $2, end_date = $3, status = $4,
            early_termination_requested_by = $5, early_termination_approved_by = $6,
            early_termination_reason = $7, terminated_at = $8
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		sess.ID, sess.UpdatedAt, sess.EndDate, sess.Status,
		sess.EarlyTerminationRequestedBy, sess.EarlyTerminationApprovedBy,
		sess.EarlyTerminationReason, sess.TerminatedAt,
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

// ListRentSessionsByApartment lists all sessions for an apartment,
// newest first
func (s *PostgresStore) ListRentSessionsByApartment(ctx context.Context, apartmentID int64) ([]*models.RentSession, error) {
	query := `SELECT ` + sessionColumns + `
        FROM rent_sessions
        WHERE apartment_id = $1
        ORDER BY created_at DESC, id DESC`

	return s.querySessions(ctx, query, apartmentID)
}

// ListRentSessionsByParty lists sessions where the user holds the given
// role
func (s *PostgresStore) ListRentSessionsByParty(ctx context.Context, userID int64, role models.OwnershipType) ([]*models.RentSession, error) {
	column := "owner_id"
	if role == models.OwnershipTenant {
		column = "tenant_id"
	}

	query := `SELECT ` + sessionColumns + `
        FROM rent_sessions
        WHERE ` + column + ` = $1
        ORDER BY created_at DESC, id DESC`

	return s.querySessions(ctx, query, userID)
}

func (s *PostgresStore) querySessions(ctx context.Context, query string, args ...interface{}) ([]*models.RentSession, error) {
	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.RentSession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

// ========== Additional Charge Methods ==========

// CreateAdditionalCharge creates a recurring charge row
func (s *PostgresStore) CreateAdditionalCharge(ctx context.Context, c *models.AdditionalCharge) error {
	c.CreatedAt = now()

	query := `
        INSERT INTO rent_additional_charges (created_at, session_id, charge_title, charge_amount)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		c.CreatedAt, c.SessionID, c.ChargeTitle, c.ChargeAmount,
	).Scan(&c.ID)

	return mapError(err)
}

// ListAdditionalCharges lists a session's charges
func (s *PostgresStore) ListAdditionalCharges(ctx context.Context, sessionID int64) ([]*models.AdditionalCharge, error) {
	query := `
        SELECT id, created_at, session_id, charge_title, charge_amount
        FROM rent_additional_charges
        WHERE session_id = $1
        ORDER BY id`

	rows, err := s.getDB().QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []*models.AdditionalCharge
	for rows.Next() {
		c := &models.AdditionalCharge{}
		err := rows.Scan(&c.ID, &c.CreatedAt, &c.SessionID, &c.ChargeTitle, &c.ChargeAmount)
		if err != nil {
			return nil, err
		}
		charges = append(charges, c)
	}

	return charges, rows.Err()
}

// ========== Tenant Preferences Methods ==========

// CreateTenantPreferences creates the per-session preferences record
func (s *PostgresStore) CreateTenantPreferences(ctx context.Context, p *models.TenantPreferences) error {
	ts := now()
	p.CreatedAt = ts
	p.UpdatedAt = ts

	query := `
        INSERT INTO tenant_preferences (
            created_at, updated_at, session_id, number_of_cars, number_of_pets, owner_restrictions
        ) VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		p.CreatedAt, p.UpdatedAt, p.SessionID, p.NumberOfCars, p.NumberOfPets, p.OwnerRestrictions,
	).Scan(&p.ID)

	return mapError(err)
}

// GetTenantPreferences gets a session's preferences record
func (s *PostgresStore) GetTenantPreferences(ctx context.Context, sessionID int64) (*models.TenantPreferences, error) {
	query := `
        SELECT id, created_at, updated_at, session_id, number_of_cars, number_of_pets, owner_restrictions
        FROM tenant_preferences
        WHERE session_id = $1`

	p := &models.TenantPreferences{}
	err := s.getDB().QueryRowContext(ctx, query, sessionID).Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.SessionID,
		&p.NumberOfCars, &p.NumberOfPets, &p.OwnerRestrictions,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return p, nil
}

// ========== Session Document Methods ==========

const documentColumns = `id, created_at, session_id, document_type, document_filename,
               uploaded_by, approval_status, approved_by, rejection_reason, approved_at, uploaded_at`

func scanDocument(row interface{ Scan(...interface{}) error }) (*models.SessionDocument, error) {
	d := &models.SessionDocument{}
	err := row.Scan(
		&d.ID, &d.CreatedAt, &d.SessionID, &d.DocumentType, &d.DocumentFilename,
		&d.UploadedBy, &d.ApprovalStatus, &d.ApprovedBy, &d.RejectionReason,
		&d.ApprovedAt, &d.UploadedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return d, nil
}

// CreateSessionDocument creates a document metadata row
func (s *PostgresStore) CreateSessionDocument(ctx context.Context, d *models.SessionDocument) error {
	ts := now()
	d.CreatedAt = ts
	d.UploadedAt = ts

	query := `
        INSERT INTO rent_session_documents (
            created_at, session_id, document_type, document_filename,
            uploaded_by, approval_status, approved_by, approved_at, uploaded_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		d.CreatedAt, d.SessionID, d.DocumentType, d.DocumentFilename,
		d.UploadedBy, d.ApprovalStatus, d.ApprovedBy, d.ApprovedAt, d.UploadedAt,
	).Scan(&d.ID)

	return mapError(err)
}

// GetSessionDocument gets a document by ID
func (s *PostgresStore) GetSessionDocument(ctx context.Context, id int64) (*models.SessionDocument, error) {
	query := `SELECT ` + documentColumns + `
        FROM rent_session_documents
        WHERE id = $1`

	return scanDocument(s.getDB().QueryRowContext(ctx, query, id))
}

// UpdateSessionDocument updates a document's approval fields
func (s *PostgresStore) UpdateSessionDocument(ctx context.Context, d *models.SessionDocument) error {
	query := `
        UPDATE rent_session_documents SET
            approval_status = $2, approved_by = $3, rejection_reason = $4, approved_at = $5
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		d.ID, d.ApprovalStatus, d.ApprovedBy, d.RejectionReason, d.ApprovedAt,
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

// ListSessionDocuments lists a session's documents
func (s *PostgresStore) ListSessionDocuments(ctx context.Context, sessionID int64) ([]*models.SessionDocument, error) {
	query := `SELECT ` + documentColumns + `
        FROM rent_session_documents
        WHERE session_id = $1
        ORDER BY uploaded_at DESC, id DESC`

	rows, err := s.getDB().QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []*models.SessionDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}

	return documents, rows.Err()
}

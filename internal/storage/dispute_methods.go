package storage

import (
	"context"

	"github.com/gatedlife/community-server/internal/models"
)

// ========== Dispute Methods ==========

const disputeColumns = `id, created_at, updated_at, session_id, reported_by, reported_by_role,
               report_type, room_id, reason, image_filename,
               status, escalated_to_admin, escalated_at, resolved_at`

func scanDispute(row interface{ Scan(...interface{}) error }) (*models.DisputeReport, error) {
	d := &models.DisputeReport{}
	err := row.Scan(
		&d.ID, &d.CreatedAt, &d.UpdatedAt, &d.SessionID, &d.ReportedBy, &d.ReportedByRole,
		&d.ReportType, &d.RoomID, &d.Reason, &d.ImageFilename,
		&d.Status, &d.EscalatedToAdmin, &d.EscalatedAt, &d.ResolvedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return d, nil
}

// CreateDispute creates a dispute report
func (s *PostgresStore) CreateDispute(ctx context.Context, d *models.DisputeReport) error {
	ts := now()
	d.CreatedAt = ts
	d.UpdatedAt = ts

	query := `
        INSERT INTO dispute_reports (
            created_at, updated_at, session_id, reported_by, reported_by_role,
            report_type, room_id, reason, image_filename, status, escalated_to_admin
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
        ) RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		d.CreatedAt, d.UpdatedAt, d.SessionID, d.ReportedBy, d.ReportedByRole,
		d.ReportType, d.RoomID, d.Reason, d.ImageFilename, d.Status, d.EscalatedToAdmin,
	).Scan(&d.ID)

	return mapError(err)
}

// GetDispute gets a dispute by ID
func (s *PostgresStore) GetDispute(ctx context.Context, id int64) (*models.DisputeReport, error) {
	query := `SELECT ` + disputeColumns + `
        FROM dispute_reports
        WHERE id = $1`

	return scanDispute(s.getDB().QueryRowContext(ctx, query, id))
}

// UpdateDispute updates a dispute's status and escalation fields
func (s *PostgresStore) UpdateDispute(ctx context.Context, d *models.DisputeReport) error {
	d.UpdatedAt = now()

	query := `
        UPDATE dispute_reports SET
            updated_at = $2, status = $3, escalated_to_admin = $4,
            escalated_at = $5, resolved_at = $6
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		d.ID, d.UpdatedAt, d.Status, d.EscalatedToAdmin, d.EscalatedAt, d.ResolvedAt,
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

// ListDisputesBySession lists a session's disputes, newest first
func (s *PostgresStore) ListDisputesBySession(ctx context.Context, sessionID int64) ([]*models.DisputeReport, error) {
	query := `SELECT ` + disputeColumns + `
        FROM dispute_reports
        WHERE session_id = $1
        ORDER BY created_at DESC, id DESC`

	rows, err := s.getDB().QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var disputes []*models.DisputeReport
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		disputes = append(disputes, d)
	}

	return disputes, rows.Err()
}

// ========== Dispute Message Methods ==========

// CreateDisputeMessage appends a message to a dispute's chat thread
func (s *PostgresStore) CreateDisputeMessage(ctx context.Context, m *models.DisputeMessage) error {
	ts := now()
	m.CreatedAt = ts
	m.SentAt = ts

	query := `
        INSERT INTO dispute_messages (
            created_at, dispute_id, sender_id, sender_role, message_text, image_filename, sent_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		m.CreatedAt, m.DisputeID, m.SenderID, m.SenderRole,
		m.MessageText, m.ImageFilename, m.SentAt,
	).Scan(&m.ID)

	return mapError(err)
}

// ListDisputeMessages lists a dispute's messages in send order
func (s *PostgresStore) ListDisputeMessages(ctx context.Context, disputeID int64) ([]*models.DisputeMessage, error) {
	query := `
        SELECT id, created_at, dispute_id, sender_id, sender_role, message_text, image_filename, sent_at
        FROM dispute_messages
        WHERE dispute_id = $1
        ORDER BY sent_at, id`

	rows, err := s.getDB().QueryContext(ctx, query, disputeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.DisputeMessage
	for rows.Next() {
		m := &models.DisputeMessage{}
		err := rows.Scan(
			&m.ID, &m.CreatedAt, &m.DisputeID, &m.SenderID, &m.SenderRole,
			&m.MessageText, &m.ImageFilename, &m.SentAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// ========== Resolution Approval Methods ==========

// CreateResolutionApproval records one party's resolution sign-off.
// The unique constraint on (dispute_id, approved_by_role) makes a
// repeat sign-off surface as ErrDuplicateKey.
func (s *PostgresStore) CreateResolutionApproval(ctx context.Context, a *models.DisputeResolutionApproval) error {
	ts := now()
	a.CreatedAt = ts
	a.ApprovedAt = ts

	query := `
        INSERT INTO dispute_resolution_approvals (created_at, dispute_id, approved_by, approved_by_role, approved_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		a.CreatedAt, a.DisputeID, a.ApprovedBy, a.ApprovedByRole, a.ApprovedAt,
	).Scan(&a.ID)

	return mapError(err)
}

// ListResolutionApprovals lists a dispute's resolution sign-offs
func (s *PostgresStore) ListResolutionApprovals(ctx context.Context, disputeID int64) ([]*models.DisputeResolutionApproval, error) {
	query := `
        SELECT id, created_at, dispute_id, approved_by, approved_by_role, approved_at
        FROM dispute_resolution_approvals
        WHERE dispute_id = $1
        ORDER BY approved_at, id`

	rows, err := s.getDB().QueryContext(ctx, query, disputeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var approvals []*models.DisputeResolutionApproval
	for rows.Next() {
		a := &models.DisputeResolutionApproval{}
		err := rows.Scan(&a.ID, &a.CreatedAt, &a.DisputeID, &a.ApprovedBy, &a.ApprovedByRole, &a.ApprovedAt)
		if err != nil {
			return nil, err
		}
		approvals = append(approvals, a)
	}

	return approvals, rows.Err()
}

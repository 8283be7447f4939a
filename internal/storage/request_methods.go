package storage

import (
	"context"
	"fmt"

	"github.com/gatedlife/community-server/internal/models"
)

// ========== Apartment Request Methods ==========

const requestColumns = `id, created_at, updated_at, user_id, apartment_id, community_id,
               ownership_type, status, rejection_reason, admin_comments,
               submitted_at, reviewed_at, reviewed_by_admin_id`

func scanRequest(row interface{ Scan(...interface{}) error }) (*models.ApartmentRequest, error) {
	r := &models.ApartmentRequest{}
	err := row.Scan(
		&r.ID, &r.CreatedAt, &r.UpdatedAt, &r.UserID, &r.ApartmentID, &r.CommunityID,
		&r.OwnershipType, &r.Status, &r.RejectionReason, &r.AdminComments,
		&r.SubmittedAt, &r.ReviewedAt, &r.ReviewedByAdminID,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return r, nil
}

// CreateApartmentRequest creates a pending apartment request
func (s *PostgresStore) CreateApartmentRequest(ctx context.Context, r *models.ApartmentRequest) error {
	ts := now()
	r.CreatedAt = ts
	r.UpdatedAt = ts
	r.SubmittedAt = ts

	query := `
        INSERT INTO apartment_requests (
            created_at, updated_at, user_id, apartment_id, community_id,
            ownership_type, status, submitted_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8
        ) RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		r.CreatedAt, r.UpdatedAt, r.UserID, r.ApartmentID, r.CommunityID,
		r.OwnershipType, r.Status, r.SubmittedAt,
	).Scan(&r.ID)

	return mapError(err)
}

// GetApartmentRequest gets a request by ID
func (s *PostgresStore) GetApartmentRequest(ctx context.Context, id int64) (*models.ApartmentRequest, error) {
	query := `SELECT ` + requestColumns + `
        FROM apartment_requests
        WHERE id = $1`

	return scanRequest(s.getDB().QueryRowContext(ctx, query, id))
}

// UpdateApartmentRequest updates a request's review fields
func (s *PostgresStore) UpdateApartmentRequest(ctx context.Context, r *models.ApartmentRequest) error {
	r.UpdatedAt = now()

	query := `
        UPDATE apartment_requests SET
            updated_at = $2, status = $3, rejection_reason = $4,
            admin_comments = $5, reviewed_at = $6, reviewed_by_admin_id = $7
        WHERE id = $1`

	result, err := s.getDB().ExecContext(ctx, query,
		r.ID, r.UpdatedAt, r.Status, r.RejectionReason,
		r.AdminComments, r.ReviewedAt, r.ReviewedByAdminID,
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

// ListApartmentRequests lists requests for a community, optionally
// filtered by status
func (s *PostgresStore) ListApartmentRequests(ctx context.Context, communityID int64, status *models.RequestStatus, limit, offset int) ([]*models.ApartmentRequest, int64, error) {
	args := []interface{}{communityID}
	query := `SELECT ` + requestColumns + ` FROM apartment_requests WHERE community_id = $1`
	countQuery := `SELECT COUNT(*) FROM apartment_requests WHERE community_id = $1`

	if status != nil {
		query += ` AND status = $2`
		countQuery += ` AND status = $2`
		args = append(args, *status)
	}

	var count int64
	if err := s.getDB().QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY submitted_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := s.getDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []*models.ApartmentRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, r)
	}

	return requests, count, rows.Err()
}

// ListApartmentRequestsByUser lists a resident's own requests
func (s *PostgresStore) ListApartmentRequestsByUser(ctx context.Context, userID int64) ([]*models.ApartmentRequest, error) {
	query := `SELECT ` + requestColumns + `
        FROM apartment_requests
        WHERE user_id = $1
        ORDER BY submitted_at DESC`

	rows, err := s.getDB().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.ApartmentRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}

	return requests, rows.Err()
}

// ========== Request Member Methods ==========

// CreateRequestMember creates a proposed co-occupant row
func (s *PostgresStore) CreateRequestMember(ctx context.Context, m *models.RequestMember) error {
	m.CreatedAt = now()

	query := `
        INSERT INTO apartment_request_members (created_at, request_id, name, mobile_number, relation)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		m.CreatedAt, m.RequestID, m.Name, m.MobileNumber, m.Relation,
	).Scan(&m.ID)

	return mapError(err)
}

// ListRequestMembers lists a request's proposed co-occupants
func (s *PostgresStore) ListRequestMembers(ctx context.Context, requestID int64) ([]*models.RequestMember, error) {
	query := `
        SELECT id, created_at, request_id, name, mobile_number, relation
        FROM apartment_request_members
        WHERE request_id = $1
        ORDER BY id`

	rows, err := s.getDB().QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.RequestMember
	for rows.Next() {
		m := &models.RequestMember{}
		err := rows.Scan(&m.ID, &m.CreatedAt, &m.RequestID, &m.Name, &m.MobileNumber, &m.Relation)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// ========== Rule Response Methods ==========

// CreateRuleResponse creates one rule-compliance response row
func (s *PostgresStore) CreateRuleResponse(ctx context.Context, r *models.RequestRuleResponse) error {
	ts := now()
	r.CreatedAt = ts
	r.SubmittedAt = ts

	query := `
        INSERT INTO apartment_request_rule_responses (
            created_at, request_id, rule_id, text_response, image_filename, submitted_at
        ) VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		r.CreatedAt, r.RequestID, r.RuleID, r.TextResponse, r.ImageFilename, r.SubmittedAt,
	).Scan(&r.ID)

	return mapError(err)
}

// ListRuleResponses lists a request's rule responses
func (s *PostgresStore) ListRuleResponses(ctx context.Context, requestID int64) ([]*models.RequestRuleResponse, error) {
	query := `
        SELECT id, created_at, request_id, rule_id, text_response, image_filename, submitted_at
        FROM apartment_request_rule_responses
        WHERE request_id = $1
        ORDER BY id`

	rows, err := s.getDB().QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []*models.RequestRuleResponse
	for rows.Next() {
		r := &models.RequestRuleResponse{}
		err := rows.Scan(&r.ID, &r.CreatedAt, &r.RequestID, &r.RuleID,
			&r.TextResponse, &r.ImageFilename, &r.SubmittedAt)
		if err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}

	return responses, rows.Err()
}

package storage

import (
	"context"

	"github.com/gatedlife/community-server/internal/models"
)

// ========== User Methods ==========

// CreateUser creates a new user
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	user.CreatedAt = now()

	query := `
        INSERT INTO users (
            created_at, name, mobile_number, email, password_hash,
            profile_image, mobile_verified, email_verified
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8
        ) RETURNING id`

	err := s.getDB().QueryRowContext(ctx, query,
		user.CreatedAt, user.Name, user.MobileNumber, user.Email,
		user.PasswordHash, user.ProfileImage, user.MobileVerified, user.EmailVerified,
	).Scan(&user.ID)

	return mapError(err)
}

// GetUser gets a user by ID
func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	query := `
        SELECT id, created_at, name, mobile_number, email, password_hash,
               profile_image, mobile_verified, email_verified
        FROM users
        WHERE id = $1`

	user := &models.User{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.CreatedAt, &user.Name, &user.MobileNumber, &user.Email,
		&user.PasswordHash, &user.ProfileImage, &user.MobileVerified, &user.EmailVerified,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

// GetUserByMobile gets a user by mobile number
func (s *PostgresStore) GetUserByMobile(ctx context.Context, mobileNumber string) (*models.User, error) {
	query := `
        SELECT id, created_at, name, mobile_number, email, password_hash,
               profile_image, mobile_verified, email_verified
        FROM users
        WHERE mobile_number = $1`

	user := &models.User{}
	err := s.getDB().QueryRowContext(ctx, query, mobileNumber).Scan(
		&user.ID, &user.CreatedAt, &user.Name, &user.MobileNumber, &user.Email,
		&user.PasswordHash, &user.ProfileImage, &user.MobileVerified, &user.EmailVerified,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}

// ========== Admin / SuperAdmin / Security Methods ==========

// GetAdmin gets a community admin by ID
func (s *PostgresStore) GetAdmin(ctx context.Context, id int64) (*models.CommunityAdmin, error) {
	query := `
        SELECT id, created_at, name, email, mobile_number, password_hash, community_id, role
        FROM community_admins
        WHERE id = $1`

	admin := &models.CommunityAdmin{}
	err := s.getDB().QueryRowContext(ctx, query, id).Scan(
		&admin.ID, &admin.CreatedAt, &admin.Name, &admin.Email,
		&admin.MobileNumber, &admin.PasswordHash, &admin.CommunityID, &admin.Role,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return admin, nil
}

// GetAdminByEmail gets a community admin by email
func (s *PostgresStore) GetAdminByEmail(ctx context.Context, email string) (*models.CommunityAdmin, error) {
	query := `
        SELECT id, created_at, name, email, mobile_number, password_hash, community_id, role
        FROM community_admins
        WHERE email = $1`

	admin := &models.CommunityAdmin{}
	err := s.getDB().QueryRowContext(ctx, query, email).Scan(
		&admin.ID, &admin.CreatedAt, &admin.Name, &admin.Email,
		&admin.MobileNumber, &admin.PasswordHash, &admin.CommunityID, &admin.Role,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return admin, nil
}

// GetSuperAdminByEmail gets a super admin by email
func (s *PostgresStore) GetSuperAdminByEmail(ctx context.Context, email string) (*models.SuperAdmin, error) {
	query := `
        SELECT id, created_at, name, email, password_hash
        FROM super_admins
        WHERE email = $1`

	admin := &models.SuperAdmin{}
	err := s.getDB().QueryRowContext(ctx, query, email).Scan(
		&admin.ID, &admin.CreatedAt, &admin.Name, &admin.Email, &admin.PasswordHash,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return admin, nil
}

// GetSecurityByUsername gets a security guard by username
func (s *PostgresStore) GetSecurityByUsername(ctx context.Context, username string) (*models.Security, error) {
	query := `
        SELECT id, created_at, community_id, name, mobile_number, username, password_hash, shift_timing
        FROM securities
        WHERE username = $1`

	sec := &models.Security{}
	err := s.getDB().QueryRowContext(ctx, query, username).Scan(
		&sec.ID, &sec.CreatedAt, &sec.CommunityID, &sec.Name,
		&sec.MobileNumber, &sec.Username, &sec.PasswordHash, &sec.ShiftTiming,
	)
	if err != nil {
		return nil, mapError(err)
	}

	return sec, nil
}

package models

import (
	"time"
)

// User represents a resident registered on the mobile app.
type User struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Name         string  `json:"name" db:"name"`
	MobileNumber string  `json:"mobileNumber" db:"mobile_number"`
	Email        *string `json:"email,omitempty" db:"email"`

	PasswordHash *string `json:"-" db:"password_hash"`

	ProfileImage   *string `json:"profileImage,omitempty" db:"profile_image"`
	MobileVerified bool    `json:"mobileVerified" db:"mobile_verified"`
	EmailVerified  bool    `json:"emailVerified" db:"email_verified"`
}

// CommunityAdmin manages a single community.
type CommunityAdmin struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Name         string  `json:"name" db:"name"`
	Email        string  `json:"email" db:"email"`
	MobileNumber *string `json:"mobileNumber,omitempty" db:"mobile_number"`
	PasswordHash string  `json:"-" db:"password_hash"`

	CommunityID int64  `json:"communityId" db:"community_id"`
	Role        string `json:"role" db:"role"`
}

// SuperAdmin manages communities across the platform.
type SuperAdmin struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// Security represents a security guard assigned to a community gate.
type Security struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	CommunityID  int64   `json:"communityId" db:"community_id"`
	Name         string  `json:"name" db:"name"`
	MobileNumber string  `json:"mobileNumber" db:"mobile_number"`
	Username     *string `json:"username,omitempty" db:"username"`
	PasswordHash string  `json:"-" db:"password_hash"`
	ShiftTiming  *string `json:"shiftTiming,omitempty" db:"shift_timing"`
}

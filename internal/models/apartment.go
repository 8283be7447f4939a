package models

import (
	"time"
)

// ApartmentStatus is the lifecycle state of an apartment.
type ApartmentStatus string

const (
	ApartmentActive   ApartmentStatus = "active"
	ApartmentInactive ApartmentStatus = "inactive"
)

// OwnershipType distinguishes owners from tenants.
type OwnershipType string

const (
	OwnershipOwner  OwnershipType = "owner"
	OwnershipTenant OwnershipType = "tenant"
)

// Valid reports whether t is a known ownership type.
func (t OwnershipType) Valid() bool {
	return t == OwnershipOwner || t == OwnershipTenant
}

// Counterpart returns the opposite role in a tenancy.
func (t OwnershipType) Counterpart() OwnershipType {
	if t == OwnershipOwner {
		return OwnershipTenant
	}
	return OwnershipOwner
}

// Apartment belongs to a community, identified by tower/floor/number within it.
type Apartment struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	CommunityID     int64           `json:"communityId" db:"community_id"`
	TowerName       *string         `json:"towerName,omitempty" db:"tower_name"`
	FloorNumber     *int            `json:"floorNumber,omitempty" db:"floor_number"`
	ApartmentNumber string          `json:"apartmentNumber" db:"apartment_number"`
	Status          ApartmentStatus `json:"status" db:"status"`
}

// ApartmentOwnership links a user to an apartment as owner or tenant.
// Access to apartment-scoped features requires IsAdminApproved.
type ApartmentOwnership struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	UserID          int64         `json:"userId" db:"user_id"`
	ApartmentID     int64         `json:"apartmentId" db:"apartment_id"`
	OwnershipType   OwnershipType `json:"ownershipType" db:"ownership_type"`
	RulesAccepted   bool          `json:"rulesAccepted" db:"rules_accepted"`
	IsAdminApproved bool          `json:"isAdminApproved" db:"is_admin_approved"`
}

// Member is a co-occupant of an apartment, created on request approval.
type Member struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	UserID       int64   `json:"userId" db:"user_id"`
	CommunityID  int64   `json:"communityId" db:"community_id"`
	ApartmentID  int64   `json:"apartmentId" db:"apartment_id"`
	Name         string  `json:"name" db:"name"`
	MobileNumber *string `json:"mobileNumber,omitempty" db:"mobile_number"`
	Relation     *string `json:"relation,omitempty" db:"relation"`
	IsVerified   bool    `json:"isVerified" db:"is_verified"`
}

// ApartmentContext is the single-row pointer to a user's currently
// selected apartment among their approved ownerships.
type ApartmentContext struct {
	ID                 int64     `json:"id" db:"id"`
	UserID             int64     `json:"userId" db:"user_id"`
	CurrentApartmentID int64     `json:"currentApartmentId" db:"current_apartment_id"`
	LastSwitchedAt     time.Time `json:"lastSwitchedAt" db:"last_switched_at"`
}

// ApartmentAccess is an approved ownership joined with apartment and
// community details, as returned by the "my apartments" listing.
type ApartmentAccess struct {
	ApartmentID     int64         `json:"apartmentId" db:"apartment_id"`
	OwnershipType   OwnershipType `json:"ownershipType" db:"ownership_type"`
	ApartmentNumber string        `json:"apartmentNumber" db:"apartment_number"`
	TowerName       *string       `json:"towerName,omitempty" db:"tower_name"`
	FloorNumber     *int          `json:"floorNumber,omitempty" db:"floor_number"`
	CommunityID     int64         `json:"communityId" db:"community_id"`
	CommunityName   string        `json:"communityName" db:"community_name"`
}

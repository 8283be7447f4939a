package models

import (
	"time"
)

// SessionStatus is the lifecycle state of a rent session.
type SessionStatus string

const (
	SessionActive     SessionStatus = "active"
	SessionCompleted  SessionStatus = "completed"
	SessionTerminated SessionStatus = "terminated"
)

// RentSession is the temporal anchor of a tenancy, linking exactly one
// owner and one tenant to an apartment. At most one active session may
// exist per apartment.
type RentSession struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	ApartmentID int64 `json:"apartmentId" db:"apartment_id"`
	OwnerID     int64 `json:"ownerId" db:"owner_id"`
	TenantID    int64 `json:"tenantId" db:"tenant_id"`

	RentAmount      float64 `json:"rentAmount" db:"rent_amount"`
	MaintenanceCost float64 `json:"maintenanceCost" db:"maintenance_cost"`
	InitialDeposit  float64 `json:"initialDeposit" db:"initial_deposit"`

	StartDate      time.Time  `json:"startDate" db:"start_date"`
	EndDate        *time.Time `json:"endDate,omitempty" db:"end_date"`
	DurationMonths int        `json:"durationMonths" db:"duration_months"`

	Status SessionStatus `json:"status" db:"status"`

	EarlyTerminationRequestedBy *int64     `json:"earlyTerminationRequestedBy,omitempty" db:"early_termination_requested_by"`
	EarlyTerminationApprovedBy  *int64     `json:"earlyTerminationApprovedBy,omitempty" db:"early_termination_approved_by"`
	EarlyTerminationReason      *string    `json:"earlyTerminationReason,omitempty" db:"early_termination_reason"`
	TerminatedAt                *time.Time `json:"terminatedAt,omitempty" db:"terminated_at"`
}

// PartyRole returns the role a user plays in the session, or "" if the
// user is not a party to it.
func (s *RentSession) PartyRole(userID int64) OwnershipType {
	switch userID {
	case s.OwnerID:
		return OwnershipOwner
	case s.TenantID:
		return OwnershipTenant
	}
	return ""
}

// AdditionalCharge is a recurring charge attached to a rent session.
type AdditionalCharge struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	SessionID    int64   `json:"sessionId" db:"session_id"`
	ChargeTitle  string  `json:"chargeTitle" db:"charge_title"`
	ChargeAmount float64 `json:"chargeAmount" db:"charge_amount"`
}

// TenantPreferences is the single per-session record of tenant details
// and owner restrictions.
type TenantPreferences struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	SessionID         int64   `json:"sessionId" db:"session_id"`
	NumberOfCars      int     `json:"numberOfCars" db:"number_of_cars"`
	NumberOfPets      int     `json:"numberOfPets" db:"number_of_pets"`
	OwnerRestrictions *string `json:"ownerRestrictions,omitempty" db:"owner_restrictions"`
}

// SessionDocument is per-session document metadata. Owner uploads are
// auto-approved; tenant uploads await owner approval.
type SessionDocument struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	SessionID        int64          `json:"sessionId" db:"session_id"`
	DocumentType     string         `json:"documentType" db:"document_type"`
	DocumentFilename string         `json:"documentFilename" db:"document_filename"`
	UploadedBy       int64          `json:"uploadedBy" db:"uploaded_by"`
	ApprovalStatus   ApprovalStatus `json:"approvalStatus" db:"approval_status"`
	ApprovedBy       *int64         `json:"approvedBy,omitempty" db:"approved_by"`
	RejectionReason  *string        `json:"rejectionReason,omitempty" db:"rejection_reason"`
	ApprovedAt       *time.Time     `json:"approvedAt,omitempty" db:"approved_at"`
	UploadedAt       time.Time      `json:"uploadedAt" db:"uploaded_at"`
}

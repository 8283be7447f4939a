package models

import (
	"time"
)

// ApprovalStatus is the counterpart-approval state shared by rooms,
// accessories, replacements, and session documents.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ApartmentRoom belongs to an apartment and, when proposed during an
// active rent session, to that session. Proposals made mid-session
// require approval from the counterpart role.
type ApartmentRoom struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	ApartmentID int64  `json:"apartmentId" db:"apartment_id"`
	SessionID   *int64 `json:"sessionId,omitempty" db:"session_id"`

	RoomName string  `json:"roomName" db:"room_name"`
	RoomType *string `json:"roomType,omitempty" db:"room_type"`

	CreatedBy     int64         `json:"createdBy" db:"created_by"`
	CreatedByRole OwnershipType `json:"createdByRole" db:"created_by_role"`

	ApprovalStatus ApprovalStatus `json:"approvalStatus" db:"approval_status"`
	ApprovedBy     *int64         `json:"approvedBy,omitempty" db:"approved_by"`
	ApprovedAt     *time.Time     `json:"approvedAt,omitempty" db:"approved_at"`
}

// RoomAccessory belongs to a room, with the same creator-role and
// approval shape as the room itself.
type RoomAccessory struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	RoomID        int64   `json:"roomId" db:"room_id"`
	AccessoryName string  `json:"accessoryName" db:"accessory_name"`
	BrandName     *string `json:"brandName,omitempty" db:"brand_name"`
	Quantity      int     `json:"quantity" db:"quantity"`

	CreatedBy     int64         `json:"createdBy" db:"created_by"`
	CreatedByRole OwnershipType `json:"createdByRole" db:"created_by_role"`

	ApprovalStatus ApprovalStatus `json:"approvalStatus" db:"approval_status"`
	ApprovedBy     *int64         `json:"approvedBy,omitempty" db:"approved_by"`
	ApprovedAt     *time.Time     `json:"approvedAt,omitempty" db:"approved_at"`
}

// AccessoryReplacement records a replacement event tied to a session and
// room. It carries its own approval cycle, independent of the room's.
// Cost fields are informational; no rent recalculation happens here.
type AccessoryReplacement struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	SessionID   int64  `json:"sessionId" db:"session_id"`
	RoomID      int64  `json:"roomId" db:"room_id"`
	AccessoryID *int64 `json:"accessoryId,omitempty" db:"accessory_id"`

	OldAccessoryName  *string `json:"oldAccessoryName,omitempty" db:"old_accessory_name"`
	NewAccessoryName  *string `json:"newAccessoryName,omitempty" db:"new_accessory_name"`
	ReplacementReason *string `json:"replacementReason,omitempty" db:"replacement_reason"`

	ReplacedBy     int64         `json:"replacedBy" db:"replaced_by"`
	ReplacedByRole OwnershipType `json:"replacedByRole" db:"replaced_by_role"`

	Cost           *float64      `json:"cost,omitempty" db:"cost"`
	PaidBy         OwnershipType `json:"paidBy" db:"paid_by"`
	IncludedInRent bool          `json:"includedInRent" db:"included_in_rent"`

	ReplacementDate *time.Time `json:"replacementDate,omitempty" db:"replacement_date"`

	ApprovalStatus  ApprovalStatus `json:"approvalStatus" db:"approval_status"`
	ApprovedBy      *int64         `json:"approvedBy,omitempty" db:"approved_by"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty" db:"approved_at"`
	RejectionReason *string        `json:"rejectionReason,omitempty" db:"rejection_reason"`
}

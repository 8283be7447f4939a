package models

import (
	"time"
)

// DisputeStatus is the lifecycle state of a dispute report.
type DisputeStatus string

const (
	DisputeOpen       DisputeStatus = "open"
	DisputeInProgress DisputeStatus = "in_progress"
	DisputeResolved   DisputeStatus = "resolved"
	DisputeEscalated  DisputeStatus = "escalated"
)

// DisputeReportType distinguishes room-scoped disputes from common ones.
type DisputeReportType string

const (
	DisputeRoomBased DisputeReportType = "room_based"
	DisputeCommon    DisputeReportType = "common"
)

// Valid reports whether t is a known report type.
func (t DisputeReportType) Valid() bool {
	return t == DisputeRoomBased || t == DisputeCommon
}

// DisputeRole identifies who authored a message or approval.
type DisputeRole string

const (
	DisputeRoleOwner  DisputeRole = "owner"
	DisputeRoleTenant DisputeRole = "tenant"
	DisputeRoleAdmin  DisputeRole = "admin"
)

// DisputeReport is a conflict raised by a party of an active rent
// session, resolved via chat and mutual approval. Escalation to admin
// is one-way and does not preclude later resolution.
type DisputeReport struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	SessionID      int64             `json:"sessionId" db:"session_id"`
	ReportedBy     int64             `json:"reportedBy" db:"reported_by"`
	ReportedByRole OwnershipType     `json:"reportedByRole" db:"reported_by_role"`
	ReportType     DisputeReportType `json:"reportType" db:"report_type"`
	RoomID         *int64            `json:"roomId,omitempty" db:"room_id"`

	Reason        string  `json:"reason" db:"reason"`
	ImageFilename *string `json:"imageFilename,omitempty" db:"image_filename"`

	Status           DisputeStatus `json:"status" db:"status"`
	EscalatedToAdmin bool          `json:"escalatedToAdmin" db:"escalated_to_admin"`
	EscalatedAt      *time.Time    `json:"escalatedAt,omitempty" db:"escalated_at"`
	ResolvedAt       *time.Time    `json:"resolvedAt,omitempty" db:"resolved_at"`
}

// DisputeMessage is one entry in a dispute's append-only chat thread.
type DisputeMessage struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	DisputeID     int64       `json:"disputeId" db:"dispute_id"`
	SenderID      int64       `json:"senderId" db:"sender_id"`
	SenderRole    DisputeRole `json:"senderRole" db:"sender_role"`
	MessageText   *string     `json:"messageText,omitempty" db:"message_text"`
	ImageFilename *string     `json:"imageFilename,omitempty" db:"image_filename"`
	SentAt        time.Time   `json:"sentAt" db:"sent_at"`
}

// DisputeResolutionApproval records one party's sign-off on resolving a
// dispute. The dispute resolves once owner and tenant both hold one.
type DisputeResolutionApproval struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	DisputeID      int64       `json:"disputeId" db:"dispute_id"`
	ApprovedBy     int64       `json:"approvedBy" db:"approved_by"`
	ApprovedByRole DisputeRole `json:"approvedByRole" db:"approved_by_role"`
	ApprovedAt     time.Time   `json:"approvedAt" db:"approved_at"`
}

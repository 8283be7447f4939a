package models

import (
	"time"
)

// RequestStatus is the lifecycle state of an apartment request.
// Once reviewed the status is terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// ApartmentRequest is a resident's application to join an apartment as
// owner or tenant, reviewed by a community admin.
type ApartmentRequest struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	UserID        int64         `json:"userId" db:"user_id"`
	ApartmentID   int64         `json:"apartmentId" db:"apartment_id"`
	CommunityID   int64         `json:"communityId" db:"community_id"`
	OwnershipType OwnershipType `json:"ownershipType" db:"ownership_type"`

	Status          RequestStatus `json:"status" db:"status"`
	RejectionReason *string       `json:"rejectionReason,omitempty" db:"rejection_reason"`
	AdminComments   *string       `json:"adminComments,omitempty" db:"admin_comments"`

	SubmittedAt       time.Time  `json:"submittedAt" db:"submitted_at"`
	ReviewedAt        *time.Time `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ReviewedByAdminID *int64     `json:"reviewedByAdminId,omitempty" db:"reviewed_by_admin_id"`
}

// RequestMember is a proposed co-occupant listed on an apartment request.
type RequestMember struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	RequestID    int64   `json:"requestId" db:"request_id"`
	Name         string  `json:"name" db:"name"`
	MobileNumber *string `json:"mobileNumber,omitempty" db:"mobile_number"`
	Relation     *string `json:"relation,omitempty" db:"relation"`
}

// RequestRuleResponse holds a resident's evidence for one community rule.
type RequestRuleResponse struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	RequestID     int64     `json:"requestId" db:"request_id"`
	RuleID        int64     `json:"ruleId" db:"rule_id"`
	TextResponse  *string   `json:"textResponse,omitempty" db:"text_response"`
	ImageFilename *string   `json:"imageFilename,omitempty" db:"image_filename"`
	SubmittedAt   time.Time `json:"submittedAt" db:"submitted_at"`
}

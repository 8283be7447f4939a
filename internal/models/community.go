package models

import (
	"time"
)

// Community represents a gated residential complex.
type Community struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Name        string  `json:"name" db:"name"`
	ImageURL    *string `json:"imageUrl,omitempty" db:"image_url"`
	FullAddress string  `json:"fullAddress" db:"full_address"`
	District    *string `json:"district,omitempty" db:"district"`
	State       *string `json:"state,omitempty" db:"state"`
	Country     string  `json:"country" db:"country"`
	Pincode     *string `json:"pincode,omitempty" db:"pincode"`

	CreatedBySuperAdminID int64 `json:"createdBySuperAdminId" db:"created_by_super_admin_id"`
}

// RuleProofType describes what kind of evidence a rule response must carry.
type RuleProofType string

const (
	RuleProofText  RuleProofType = "text"
	RuleProofImage RuleProofType = "image"
	RuleProofBoth  RuleProofType = "both"
)

// Rule is a community rule residents must respond to when requesting an apartment.
type Rule struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	CommunityID int64         `json:"communityId" db:"community_id"`
	RuleName    string        `json:"ruleName" db:"rule_name"`
	Description *string       `json:"description,omitempty" db:"description"`
	IsMandatory bool          `json:"isMandatory" db:"is_mandatory"`
	ProofType   RuleProofType `json:"proofType" db:"proof_type"`
}

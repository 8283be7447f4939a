package auth

// PrincipalType is the closed set of actor kinds a credential can
// resolve to. Every operation declares which types it accepts.
type PrincipalType string

const (
	PrincipalResident   PrincipalType = "user"
	PrincipalAdmin      PrincipalType = "admin"
	PrincipalSuperAdmin PrincipalType = "superadmin"
	PrincipalSecurity   PrincipalType = "security"
)

// Valid reports whether t is a known principal type.
func (t PrincipalType) Valid() bool {
	switch t {
	case PrincipalResident, PrincipalAdmin, PrincipalSuperAdmin, PrincipalSecurity:
		return true
	}
	return false
}

// Principal is the resolved actor behind a request.
type Principal struct {
	ID          int64         `json:"id"`
	Type        PrincipalType `json:"type"`
	CommunityID *int64        `json:"communityId,omitempty"`
}

// Is reports whether the principal matches any of the given types.
func (p Principal) Is(types ...PrincipalType) bool {
	for _, t := range types {
		if p.Type == t {
			return true
		}
	}
	return false
}

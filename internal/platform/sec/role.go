// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// Role is the closed set of authorization levels an account can hold.
type Role string

const (
	// RoleUser is the default role granted at signup.
	RoleUser Role = "user"

	// RoleModerator may edit or delete any review or comment.
	RoleModerator Role = "moderator"

	// RoleAdmin has unrestricted write access to the catalog and users.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleNames lists the roles as plain strings, in ascending privilege order.
func RoleNames() []string {
	return []string{string(RoleUser), string(RoleModerator), string(RoleAdmin)}
}

// # Principal

// Principal is the identity attached to an authenticated request.
//
// It is a snapshot of the account row taken after the access token is
// verified. Capabilities are derived from it on every call and never stored.
type Principal struct {
	ID          string
	Username    string
	Role        Role
	IsStaff     bool
	IsSuperuser bool
}

// IsAdmin reports role == admin or the legacy superuser flag.
func (p *Principal) IsAdmin() bool {
	if p == nil {
		return false
	}
	return p.Role == RoleAdmin || p.IsSuperuser
}

// IsModerator reports role == moderator or the legacy staff flag.
func (p *Principal) IsModerator() bool {
	if p == nil {
		return false
	}
	return p.Role == RoleModerator || p.IsStaff
}

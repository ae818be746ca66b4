// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Operator Roles

// UserRole represents the authorization level granted to an operator
// account. The tool-protocol surface (§6) requires an authenticated caller;
// within it only approve_proposal and reject_proposal check for
// [RoleOperator]. The admin surface uses these roles as well.
type UserRole string

const (
	// RoleOperator may assume the emergency-bypass role (§4.1) and review
	// pending Consent/Proposal entries.
	RoleOperator UserRole = "operator"

	// RoleViewer may read stats and proposal state but cannot assume
	// bypass or approve/reject proposals.
	RoleViewer UserRole = "viewer"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleOperator:
		return 20
	case RoleViewer:
		return 10
	default:
		return 0
	}
}

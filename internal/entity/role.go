package entity

import "slices"

type Role string

const (
	RoleAdministrator      Role = "administrator"
	RoleServiceDeskManager Role = "service_desk_manager"
	RoleSupportAgent       Role = "support_agent"
	RoleMerchant           Role = "merchant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleServiceDeskManager, RoleSupportAgent, RoleMerchant:
		return true
	default:
		return false
	}
}

func (r Role) IsStaff() bool {
	return r.Valid() && r != RoleMerchant
}

const (
	PermissionViewAllTerminals = "view_all_terminals"
	PermissionManageTerminals  = "manage_terminals"
	PermissionViewAllTickets   = "view_all_tickets"
	PermissionManageTickets    = "manage_tickets"
	PermissionViewAnalytics    = "view_analytics"
	PermissionGenerateReports  = "generate_reports"
	PermissionManageUsers      = "manage_users"
	PermissionSystemAdmin      = "system_admin"
	PermissionViewOwnTerminals = "view_own_terminals"
	PermissionViewOwnTickets   = "view_own_tickets"
	PermissionCreateTickets    = "create_tickets"
	PermissionViewOwnAnalytics = "view_own_analytics"
)

var rolePermissions = map[Role][]string{
	RoleAdministrator: {
		PermissionViewAllTerminals,
		PermissionManageTerminals,
		PermissionViewAllTickets,
		PermissionManageTickets,
		PermissionViewAnalytics,
		PermissionGenerateReports,
		PermissionManageUsers,
		PermissionSystemAdmin,
	},
	RoleServiceDeskManager: {
		PermissionViewAllTerminals,
		PermissionViewAllTickets,
		PermissionManageTickets,
		PermissionViewAnalytics,
		PermissionGenerateReports,
		PermissionManageUsers,
	},
	RoleSupportAgent: {
		PermissionViewAllTerminals,
		PermissionManageTerminals,
		PermissionViewAllTickets,
		PermissionManageTickets,
		PermissionViewAnalytics,
		PermissionGenerateReports,
	},
	RoleMerchant: {
		PermissionViewOwnTerminals,
		PermissionViewOwnTickets,
		PermissionCreateTickets,
		PermissionViewOwnAnalytics,
	},
}

// GetPermissionsByRole returns a copy of the role's permission set.
// Unknown roles have no permissions.
func GetPermissionsByRole(role Role) []string {
	return slices.Clone(rolePermissions[role])
}

func HasPermission(role Role, permission string) bool {
	return slices.Contains(rolePermissions[role], permission)
}

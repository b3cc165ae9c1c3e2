package permissions

import "strings"

// Permission identifies a single gated capability. The wildcard is a
// first-class value rather than an ad-hoc string check.
type Permission string

// Known permissions.
const (
	PermissionAll Permission = "*"

	PermissionDashboardView   Permission = "dashboard.view"
	PermissionDashboardManage Permission = "dashboard.manage"

	PermissionSitesView   Permission = "sites.view"
	PermissionSitesCreate Permission = "sites.create"
	PermissionSitesUpdate Permission = "sites.update"
	PermissionSitesDelete Permission = "sites.delete"

	PermissionKeywordsView   Permission = "keywords.view"
	PermissionKeywordsCreate Permission = "keywords.create"
	PermissionKeywordsUpdate Permission = "keywords.update"
	PermissionKeywordsDelete Permission = "keywords.delete"

	PermissionContentView    Permission = "content.view"
	PermissionContentApprove Permission = "content.approve"
	PermissionContentReject  Permission = "content.reject"
	PermissionContentPublish Permission = "content.publish"

	PermissionAuditLogsView Permission = "audit_logs.view"

	PermissionUsersView   Permission = "users.view"
	PermissionUsersManage Permission = "users.manage"

	PermissionAdminsView   Permission = "admins.view"
	PermissionAdminsManage Permission = "admins.manage"
)

// Built-in role names.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleViewer  = "viewer"
)

var rolePermissions = map[string][]Permission{
	RoleAdmin: {PermissionAll},
	RoleManager: {
		PermissionDashboardView,
		PermissionSitesView, PermissionSitesCreate, PermissionSitesUpdate, PermissionSitesDelete,
		PermissionKeywordsView, PermissionKeywordsCreate, PermissionKeywordsUpdate, PermissionKeywordsDelete,
		PermissionContentView, PermissionContentApprove, PermissionContentReject, PermissionContentPublish,
		PermissionAuditLogsView,
	},
	RoleViewer: {
		PermissionDashboardView,
		PermissionAuditLogsView,
	},
}

var roleRanks = map[string]int{
	RoleAdmin:   3,
	RoleManager: 2,
	RoleViewer:  1,
}

// NormalizeRole canonicalises a role name for lookups.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// HasPermission reports whether the role grants the permission. Unknown
// roles and permissions resolve to false: authorization defaults closed.
func HasPermission(role string, permission Permission) bool {
	granted, ok := rolePermissions[NormalizeRole(role)]
	if !ok {
		return false
	}
	for _, p := range granted {
		if p == PermissionAll || p == permission {
			return true
		}
	}
	return false
}

// PermissionsFor returns the permission set granted to the role. Roles
// holding the wildcard expand to every known permission.
func PermissionsFor(role string) []Permission {
	granted, ok := rolePermissions[NormalizeRole(role)]
	if !ok {
		return nil
	}
	for _, p := range granted {
		if p == PermissionAll {
			return allPermissions()
		}
	}
	out := make([]Permission, len(granted))
	copy(out, granted)
	return out
}

func allPermissions() []Permission {
	return []Permission{
		PermissionDashboardView, PermissionDashboardManage,
		PermissionSitesView, PermissionSitesCreate, PermissionSitesUpdate, PermissionSitesDelete,
		PermissionKeywordsView, PermissionKeywordsCreate, PermissionKeywordsUpdate, PermissionKeywordsDelete,
		PermissionContentView, PermissionContentApprove, PermissionContentReject, PermissionContentPublish,
		PermissionAuditLogsView,
		PermissionUsersView, PermissionUsersManage,
		PermissionAdminsView, PermissionAdminsManage,
	}
}

// HierarchyRank places roles on a total order: admin > manager > viewer.
// Unknown roles rank zero.
func HierarchyRank(role string) int {
	return roleRanks[NormalizeRole(role)]
}

// CanManage reports whether the actor role strictly outranks the target
// role. Peers and superiors may never be managed.
func CanManage(actorRole, targetRole string) bool {
	return HierarchyRank(actorRole) > HierarchyRank(targetRole)
}

// UpgradeableRoles lists the roles a user may apply for. The
// lowest-privilege role cannot be requested.
func UpgradeableRoles() []string {
	return []string{RoleManager, RoleAdmin}
}

// IsUpgradeableRole reports whether the role can be requested through the
// application workflow.
func IsUpgradeableRole(role string) bool {
	normalized := NormalizeRole(role)
	for _, candidate := range UpgradeableRoles() {
		if candidate == normalized {
			return true
		}
	}
	return false
}

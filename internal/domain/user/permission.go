package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Attendance
	PermissionAttendanceOwn     Permission = "attendance.own"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"
	PermissionAttendanceExport  Permission = "attendance.export"

	// Incidents and leave
	PermissionIncidentOwn     Permission = "incident.own"
	PermissionIncidentViewAll Permission = "incident.view_all"
	PermissionIncidentRespond Permission = "incident.respond"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAttendanceOwn,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionAttendanceExport,
		PermissionIncidentOwn,
		PermissionIncidentViewAll,
		PermissionIncidentRespond,
		PermissionUserManage,
	},
	RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAttendanceOwn,
		PermissionIncidentOwn,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

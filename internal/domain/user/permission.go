package user

type Permission string

const (
	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceManage  Permission = "attendance.manage"
	PermissionAttendanceApprove Permission = "attendance.approve_overtime"
	PermissionAttendanceExport  Permission = "attendance.export"
	PermissionPolicyView        Permission = "policy.view"
	PermissionPayrollView       Permission = "payroll.view"
	PermissionPayrollManage     Permission = "payroll.manage"
	PermissionPayrollMarkPaid   Permission = "payroll.mark_paid"
	PermissionSummaryViewOthers Permission = "summary.view_others"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionAttendanceApprove,
		PermissionAttendanceExport,
		PermissionPolicyView,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionPayrollMarkPaid,
		PermissionSummaryViewOthers,
	},
	RoleManager: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceManage,
		PermissionAttendanceApprove,
		PermissionAttendanceExport,
		PermissionPolicyView,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionSummaryViewOthers,
	},
	RoleEmployee: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionPolicyView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}

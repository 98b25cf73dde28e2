package auth

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const (
	PermUserManage      = "user.manage"
	PermEmployeeRead    = "employee.read"
	PermEmployeeWrite   = "employee.write"
	PermOrgRead         = "org.read"
	PermOrgWrite        = "org.write"
	PermScheduleRead    = "schedule.read"
	PermScheduleWrite   = "schedule.write"
	PermAttendanceRead  = "attendance.read"
	PermAttendanceWrite = "attendance.write"
	PermLeaveRead       = "leave.read"
	PermLeaveWrite      = "leave.write"
	PermLeaveApprove    = "leave.approve"
	PermAuditRead       = "audit.read"
	PermReportsRead     = "reports.read"
)

var DefaultPermissions = []string{
	PermUserManage,
	PermEmployeeRead,
	PermEmployeeWrite,
	PermOrgRead,
	PermOrgWrite,
	PermScheduleRead,
	PermScheduleWrite,
	PermAttendanceRead,
	PermAttendanceWrite,
	PermLeaveRead,
	PermLeaveWrite,
	PermLeaveApprove,
	PermAuditRead,
	PermReportsRead,
}

var RolePermissions = map[string][]string{
	RoleAdmin: DefaultPermissions,
	RoleManager: {
		PermEmployeeRead,
		PermOrgRead,
		PermScheduleRead,
		PermScheduleWrite,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermReportsRead,
	},
	RoleEmployee: {
		PermEmployeeRead,
		PermOrgRead,
		PermScheduleRead,
		PermAttendanceRead,
		PermAttendanceWrite,
		PermLeaveRead,
		PermLeaveWrite,
	},
}

package entity

// AdminDashboard holds the same-moment counters for the admin view. All
// counts are read inside one repeatable-read transaction so they agree on a
// single snapshot.
type AdminDashboard struct {
	TotalUsers           int64 `json:"totalUsers"`
	TotalDepartments     int64 `json:"totalDepartments"`
	TotalEmployees       int64 `json:"totalEmployees"`
	ActiveEmployees      int64 `json:"activeEmployees"`
	AttendedToday        int64 `json:"totalAttendedEmployeesToday"`
	PendingLeaveRequests int64 `json:"totalPendingLeaveRequest"`
	OnLeaveToday         int64 `json:"totalOnLeaveEmployeesToday"`
}

// ManagerDashboard is the admin set narrowed to the caller's own department.
type ManagerDashboard struct {
	DepartmentID         int64  `json:"departmentId"`
	DepartmentName       string `json:"departmentName"`
	TotalEmployees       int64  `json:"totalEmployees"`
	ActiveEmployees      int64  `json:"activeEmployees"`
	AttendedToday        int64  `json:"totalAttendedEmployeesToday"`
	PendingLeaveRequests int64  `json:"totalPendingLeaveRequest"`
	OnLeaveToday         int64  `json:"totalOnLeaveEmployeesToday"`
}

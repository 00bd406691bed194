package entity

import "time"

const (
	LeaveCasual  = "casual"
	LeaveMedical = "medical"
	LeaveAnnual  = "annual"

	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

func ValidLeaveType(t string) bool {
	return t == LeaveCasual || t == LeaveMedical || t == LeaveAnnual
}

type LeaveApplication struct {
	LeaveID    int64      `json:"leaveId"`
	EmployeeID int64      `json:"employeeId"`
	LeaveType  string     `json:"leaveType"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	TotalDays  int        `json:"totalDays"`
	Status     string     `json:"status"`
	Reason     *string    `json:"reason"`
	AppliedAt  time.Time  `json:"appliedAt"`
	ApprovedBy *string    `json:"approvedBy"`
}

// LeaveRow is the joined listing projection.
type LeaveRow struct {
	LeaveID        int64     `json:"leaveId"`
	EmployeeID     int64     `json:"employeeId"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	LeaveType      string    `json:"leaveType"`
	DepartmentName *string   `json:"departmentName"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Reason         *string   `json:"reason"`
	TotalDays      int       `json:"totalDays"`
	Status         string    `json:"status"`
}

type LeaveRequest struct {
	LeaveType string  `json:"leaveType"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Reason    *string `json:"reason"`
}

// LeaveFilter carries the optional listing filters.
type LeaveFilter struct {
	LeaveType    *string
	Status       *string
	DepartmentID *int64
}

type OnLeaveUser struct {
	EmployeeID  int64   `json:"employeeId"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Designation *string `json:"designation"`
	Phone       *string `json:"phone"`
	Email       string  `json:"email"`
}

// DepartmentOnLeave groups today's approved leave per department for the
// admin view.
type DepartmentOnLeave struct {
	DepartmentID   *int64        `json:"departmentId"`
	DepartmentName *string       `json:"departmentName"`
	UsersOnLeave   []OnLeaveUser `json:"usersOnLeave"`
}

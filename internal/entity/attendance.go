package entity

import "time"

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLeave   = "leave"
)

type Attendance struct {
	AttendanceID   int64      `json:"attendanceId"`
	EmployeeID     int64      `json:"employeeId"`
	AttendanceDate time.Time  `json:"attendanceDate"`
	CheckInTime    *time.Time `json:"checkInTime"`
	CheckOutTime   *time.Time `json:"checkOutTime"`
	Status         string     `json:"status"`
}

// AttendanceDay is the joined row returned by the by-date and by-department
// listings.
type AttendanceDay struct {
	AttendanceID   int64      `json:"attendanceId"`
	AttendanceDate time.Time  `json:"attendanceDate"`
	EmployeeID     int64      `json:"employeeId"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	DepartmentName string     `json:"departmentName"`
	CheckInTime    *time.Time `json:"checkInTime"`
	CheckOutTime   *time.Time `json:"checkOutTime"`
}

// AttendanceRecord is the narrow per-employee projection used by the
// self-history and month listings.
type AttendanceRecord struct {
	AttendanceID   int64      `json:"attendanceId"`
	AttendanceDate time.Time  `json:"attendanceDate"`
	CheckInTime    *time.Time `json:"checkInTime"`
	CheckOutTime   *time.Time `json:"checkOutTime"`
	Status         string     `json:"status"`
}

type AbsentEmployee struct {
	EmployeeID     int64  `json:"employeeId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	DepartmentName string `json:"departmentName"`
}

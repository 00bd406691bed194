package entity

type Department struct {
	DepartmentID   int64   `json:"departmentId"`
	DepartmentName string  `json:"departmentName"`
	ManagerID      *string `json:"managerId"`
	Description    *string `json:"description"`
}

type CreateDepartmentRequest struct {
	DepartmentName string  `json:"departmentName"`
	Description    *string `json:"description"`
}

type AssignManagerRequest struct {
	UserID string `json:"userId"`
}

type AssignEmployeeRequest struct {
	DepartmentID int64 `json:"departmentId"`
}

package entity

import "time"

type User struct {
	UserID    string  `json:"userId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"-"`
	Role      string  `json:"role"`
}

type Employee struct {
	EmployeeID   int64      `json:"employeeId"`
	Designation  *string    `json:"designation"`
	HireDate     *time.Time `json:"hireDate"`
	Status       string     `json:"status"`
	UserID       string     `json:"userId"`
	DepartmentID *int64     `json:"departmentId"`
}

// UserProfile is the users+employees projection returned for the caller's
// own record.
type UserProfile struct {
	UserID       string     `json:"userId"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Phone        *string    `json:"phone"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	EmployeeID   int64      `json:"employeeId"`
	Designation  *string    `json:"designation"`
	HireDate     *time.Time `json:"hireDate"`
	Status       string     `json:"status"`
	DepartmentID *int64     `json:"departmentId"`
}

// UserDetail is the wide users+employees+departments+addresses row used by
// the single-user lookup and the paginated listing.
type UserDetail struct {
	UserID         string     `json:"userId"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Phone          *string    `json:"phone"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	EmployeeID     int64      `json:"employeeId"`
	Designation    *string    `json:"designation"`
	HireDate       *time.Time `json:"hireDate"`
	Status         string     `json:"status"`
	DepartmentID   *int64     `json:"departmentId"`
	DepartmentName *string    `json:"departmentName"`
	ManagerID      *string    `json:"managerId"`
	Division       *string    `json:"division"`
	District       *string    `json:"district"`
	Thana          *string    `json:"thana"`
	PostCode       *string    `json:"postCode"`
}

type Address struct {
	AddressID int64   `json:"addressId"`
	Division  string  `json:"division"`
	District  string  `json:"district"`
	Thana     string  `json:"thana"`
	PostCode  string  `json:"postCode"`
	UserID    *string `json:"userId"`
}

type CreateUserRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     *string `json:"phone"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
}

type CreatedUser struct {
	UserID     string `json:"userId"`
	EmployeeID int64  `json:"employeeId"`
}

// UserFilter carries the optional listing filters; absent fields contribute
// no constraint.
type UserFilter struct {
	DepartmentID *int64
	Username     *string
	Phone        *string
	Email        *string
	Designation  *string
	HireDate     *time.Time
	Status       *string
	Role         *string
}

// OneUserFilter identifies a single user by any mix of keys.
type OneUserFilter struct {
	UserID     *string
	EmployeeID *int64
	Username   *string
	Phone      *string
	Email      *string
}

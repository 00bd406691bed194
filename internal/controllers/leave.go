package controllers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrmstack/hrm-service/internal/authz"
	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/hrmstack/hrm-service/internal/query"
	"github.com/jackc/pgx/v5"
)

const leaveDateLayout = "2006-01-02"

type LeaveController struct {
	deps *Dependens
}

func NewLeaveController(deps *Dependens) *LeaveController {
	return &LeaveController{
		deps: deps,
	}
}

// TotalLeaveDays counts the days a leave spans, both endpoints included.
func TotalLeaveDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("%w: endDate must not be before startDate", entity.ErrValidation)
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

func parseLeaveDates(req entity.LeaveRequest) (start, end time.Time, days int, err error) {
	if !entity.ValidLeaveType(req.LeaveType) {
		return start, end, 0, fmt.Errorf("%w: leaveType must be casual, medical or annual", entity.ErrValidation)
	}

	start, err = time.Parse(leaveDateLayout, req.StartDate)
	if err != nil {
		return start, end, 0, fmt.Errorf("%w: startDate must be YYYY-MM-DD", entity.ErrValidation)
	}

	end, err = time.Parse(leaveDateLayout, req.EndDate)
	if err != nil {
		return start, end, 0, fmt.Errorf("%w: endDate must be YYYY-MM-DD", entity.ErrValidation)
	}

	days, err = TotalLeaveDays(start, end)
	return start, end, days, err
}

// ApplyLeave files a pending application for the caller.
func (c *LeaveController) ApplyLeave(employeeID int64, req entity.LeaveRequest) (*entity.LeaveApplication, error) {
	start, end, days, err := parseLeaveDates(req)
	if err != nil {
		return nil, err
	}

	leave := entity.LeaveApplication{
		EmployeeID: employeeID,
		LeaveType:  req.LeaveType,
		StartDate:  start,
		EndDate:    end,
		TotalDays:  days,
		Status:     entity.LeavePending,
		Reason:     req.Reason,
	}

	sql := `INSERT INTO leave_applications (employee_id, leave_type, start_date, end_date, total_days, status, reason)
	          VALUES ($1, $2, $3, $4, $5, 'pending', $6)
	          RETURNING leave_id, applied_at`

	if err := c.deps.DB.QueryRow(context.Background(), sql,
		employeeID, req.LeaveType, start, end, days, req.Reason,
	).Scan(&leave.LeaveID, &leave.AppliedAt); err != nil {
		c.deps.Logger.Error("Error inserting leave application", slog.String("error", err.Error()))
		return nil, err
	}

	return &leave, nil
}

// GetLeaves lists applications with the optional filters applied, keyset-
// paginated on the row id. A manager's listing is always narrowed to the
// department they manage before any client filter, so a client-supplied
// department filter can only shrink the scope, never widen it.
func (c *LeaveController) GetLeaves(claims *entity.Claims, filter entity.LeaveFilter, cursor *int64, limit int) (*query.Page[entity.LeaveRow], error) {
	cond := query.Conj{}

	if claims.Role == string(authz.RoleManager) {
		dept, err := managedDepartment(c.deps, claims.UserID)
		if err != nil {
			return nil, err
		}
		cond = cond.Eq("employees.department_id", dept.DepartmentID)
	}

	if filter.LeaveType != nil {
		cond = cond.Eq("leave_applications.leave_type", *filter.LeaveType)
	}
	if filter.Status != nil {
		cond = cond.Eq("leave_applications.status", *filter.Status)
	}
	if filter.DepartmentID != nil {
		cond = cond.Eq("employees.department_id", *filter.DepartmentID)
	}
	if cursor != nil {
		cond = cond.Gt("leave_applications.leave_id", *cursor)
	}

	where, args := cond.Where(1)

	sql := fmt.Sprintf(`SELECT leave_applications.leave_id, leave_applications.employee_id,
	              users.first_name, users.last_name, leave_applications.leave_type, departments.department_name,
	              leave_applications.start_date, leave_applications.end_date, leave_applications.reason,
	              leave_applications.total_days, leave_applications.status
	          FROM leave_applications
	          INNER JOIN employees ON leave_applications.employee_id = employees.employee_id
	          INNER JOIN users ON employees.user_id = users.user_id
	          LEFT JOIN departments ON employees.department_id = departments.department_id
	          %s ORDER BY leave_applications.leave_id LIMIT $%d`, where, len(args)+1)

	rows, err := c.deps.DB.Query(context.Background(), sql, append(args, limit+1)...)
	if err != nil {
		c.deps.Logger.Error("Error querying leave applications", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	leaves, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.LeaveRow])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	page := query.CutPage(leaves, limit, func(l entity.LeaveRow) string {
		return query.IDKey(l.LeaveID)
	})
	return &page, nil
}

// GetMyLeaves lists the caller's own applications, keyset-paginated on the
// row id.
func (c *LeaveController) GetMyLeaves(employeeID int64, cursor *int64, limit int) (*query.Page[entity.LeaveApplication], error) {
	cond := query.Conj{}.Eq("employee_id", employeeID)
	if cursor != nil {
		cond = cond.Gt("leave_id", *cursor)
	}

	where, args := cond.Where(1)

	sql := fmt.Sprintf(`SELECT leave_id, employee_id, leave_type, start_date, end_date, total_days, status, reason, applied_at, approved_by
	          FROM leave_applications%s ORDER BY leave_id LIMIT $%d`, where, len(args)+1)

	rows, err := c.deps.DB.Query(context.Background(), sql, append(args, limit+1)...)
	if err != nil {
		c.deps.Logger.Error("Error querying leave applications", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	leaves, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.LeaveApplication])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	page := query.CutPage(leaves, limit, func(l entity.LeaveApplication) string {
		return query.IDKey(l.LeaveID)
	})
	return &page, nil
}

// UpdateLeave rewrites the caller's own application while it is still
// pending. The ownership and status checks live in the UPDATE itself, so a
// concurrent approval makes this touch zero rows instead of clobbering a
// processed application.
func (c *LeaveController) UpdateLeave(leaveID, employeeID int64, req entity.LeaveRequest) error {
	start, end, days, err := parseLeaveDates(req)
	if err != nil {
		return err
	}

	sql := `UPDATE leave_applications
	          SET leave_type = $1, start_date = $2, end_date = $3, total_days = $4, reason = $5
	          WHERE leave_id = $6 AND employee_id = $7 AND status = 'pending'`

	tag, err := c.deps.DB.Exec(context.Background(), sql,
		req.LeaveType, start, end, days, req.Reason, leaveID, employeeID)
	if err != nil {
		c.deps.Logger.Error("Error updating leave application", slog.String("error", err.Error()))
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: leave application not found or already processed", entity.ErrNotFound)
	}

	return nil
}

// ProcessLeave approves or rejects a pending application. The pending check
// is part of the UPDATE, so of two concurrent decisions exactly one wins.
// Managers may only process applications from their own department.
func (c *LeaveController) ProcessLeave(claims *entity.Claims, leaveID int64, status string) error {
	if status != entity.LeaveApproved && status != entity.LeaveRejected {
		return fmt.Errorf("%w: status must be approved or rejected", entity.ErrValidation)
	}

	sql := `UPDATE leave_applications SET status = $1, approved_by = $2
	          WHERE leave_id = $3 AND status = 'pending'`
	args := []any{status, claims.UserID, leaveID}

	if claims.Role == string(authz.RoleManager) {
		dept, err := managedDepartment(c.deps, claims.UserID)
		if err != nil {
			return err
		}
		sql += ` AND employee_id IN (SELECT employee_id FROM employees WHERE department_id = $4)`
		args = append(args, dept.DepartmentID)
	}

	tag, err := c.deps.DB.Exec(context.Background(), sql, args...)
	if err != nil {
		c.deps.Logger.Error("Error processing leave application", slog.String("error", err.Error()))
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: leave application not found or already processed", entity.ErrNotFound)
	}

	return nil
}

// DeleteLeave withdraws the caller's own application while it is still
// pending.
func (c *LeaveController) DeleteLeave(leaveID, employeeID int64) error {
	sql := `DELETE FROM leave_applications WHERE leave_id = $1 AND employee_id = $2 AND status = 'pending'`

	tag, err := c.deps.DB.Exec(context.Background(), sql, leaveID, employeeID)
	if err != nil {
		c.deps.Logger.Error("Error deleting leave application", slog.String("error", err.Error()))
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: leave application not found or already processed", entity.ErrNotFound)
	}

	return nil
}

type onLeaveRow struct {
	DepartmentID   *int64
	DepartmentName *string
	EmployeeID     int64
	FirstName      string
	LastName       string
	Designation    *string
	Phone          *string
	Email          string
}

const onLeaveSelect = `SELECT departments.department_id, departments.department_name,
	              employees.employee_id, users.first_name, users.last_name,
	              employees.designation, users.phone, users.email
	          FROM leave_applications
	          INNER JOIN employees ON leave_applications.employee_id = employees.employee_id
	          INNER JOIN users ON employees.user_id = users.user_id
	          LEFT JOIN departments ON employees.department_id = departments.department_id
	          WHERE leave_applications.status = 'approved'
	              AND leave_applications.start_date <= $1 AND leave_applications.end_date >= $1`

// GetOnLeaveToday returns everyone on approved leave covering today,
// grouped per department for the admin view.
func (c *LeaveController) GetOnLeaveToday(date time.Time) ([]entity.DepartmentOnLeave, error) {
	sql := onLeaveSelect + ` ORDER BY departments.department_name NULLS LAST, employees.employee_id`

	rows, err := c.deps.DB.Query(context.Background(), sql, date)
	if err != nil {
		c.deps.Logger.Error("Error querying on-leave employees", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	flat, err := pgx.CollectRows(rows, pgx.RowToStructByName[onLeaveRow])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	groups := []entity.DepartmentOnLeave{}
	for _, r := range flat {
		user := entity.OnLeaveUser{
			EmployeeID:  r.EmployeeID,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			Designation: r.Designation,
			Phone:       r.Phone,
			Email:       r.Email,
		}

		n := len(groups)
		if n > 0 && sameDepartment(groups[n-1].DepartmentID, r.DepartmentID) {
			groups[n-1].UsersOnLeave = append(groups[n-1].UsersOnLeave, user)
			continue
		}

		groups = append(groups, entity.DepartmentOnLeave{
			DepartmentID:   r.DepartmentID,
			DepartmentName: r.DepartmentName,
			UsersOnLeave:   []entity.OnLeaveUser{user},
		})
	}

	return groups, nil
}

func sameDepartment(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// GetOnLeaveTodayByDepartment is the manager variant: the flat list for one
// department.
func (c *LeaveController) GetOnLeaveTodayByDepartment(departmentID int64, date time.Time) ([]entity.OnLeaveUser, error) {
	sql := onLeaveSelect + ` AND employees.department_id = $2 ORDER BY employees.employee_id`

	rows, err := c.deps.DB.Query(context.Background(), sql, date, departmentID)
	if err != nil {
		c.deps.Logger.Error("Error querying on-leave employees", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	flat, err := pgx.CollectRows(rows, pgx.RowToStructByName[onLeaveRow])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	users := make([]entity.OnLeaveUser, 0, len(flat))
	for _, r := range flat {
		users = append(users, entity.OnLeaveUser{
			EmployeeID:  r.EmployeeID,
			FirstName:   r.FirstName,
			LastName:    r.LastName,
			Designation: r.Designation,
			Phone:       r.Phone,
			Email:       r.Email,
		})
	}

	return users, nil
}

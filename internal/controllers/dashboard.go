package controllers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/jackc/pgx/v5"
)

type DashboardController struct {
	deps *Dependens
}

func NewDashboardController(deps *Dependens) *DashboardController {
	return &DashboardController{
		deps: deps,
	}
}

// AdminDashboard gathers the organisation-wide counters. All counts run in
// one repeatable-read read-only transaction so they describe a single
// snapshot even while writes land concurrently.
func (c *DashboardController) AdminDashboard(today time.Time) (*entity.AdminDashboard, error) {
	ctx := context.Background()

	tx, err := c.deps.DB.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer tx.Rollback(ctx)

	var dash entity.AdminDashboard

	counters := []struct {
		sql  string
		args []any
		dest *int64
	}{
		{`SELECT COUNT(*) FROM users`, nil, &dash.TotalUsers},
		{`SELECT COUNT(*) FROM departments`, nil, &dash.TotalDepartments},
		{`SELECT COUNT(*) FROM employees`, nil, &dash.TotalEmployees},
		{`SELECT COUNT(*) FROM employees WHERE status = 'active'`, nil, &dash.ActiveEmployees},
		{`SELECT COUNT(*) FROM attendance WHERE attendance_date = $1 AND status = 'present'`,
			[]any{today}, &dash.AttendedToday},
		{`SELECT COUNT(*) FROM leave_applications WHERE status = 'pending'`, nil, &dash.PendingLeaveRequests},
		{`SELECT COUNT(*) FROM leave_applications WHERE status = 'approved' AND start_date <= $1 AND end_date >= $1`,
			[]any{today}, &dash.OnLeaveToday},
	}

	for _, counter := range counters {
		if err := tx.QueryRow(ctx, counter.sql, counter.args...).Scan(counter.dest); err != nil {
			c.deps.Logger.Error("Error counting dashboard metric", slog.String("error", err.Error()))
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return nil, err
	}

	return &dash, nil
}

// ManagerDashboard is the admin set narrowed to the department the caller
// manages. The department resolution fails closed for managers without one.
func (c *DashboardController) ManagerDashboard(userID string, today time.Time) (*entity.ManagerDashboard, error) {
	dept, err := managedDepartment(c.deps, userID)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	tx, err := c.deps.DB.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer tx.Rollback(ctx)

	dash := entity.ManagerDashboard{
		DepartmentID:   dept.DepartmentID,
		DepartmentName: dept.DepartmentName,
	}

	counters := []struct {
		sql  string
		args []any
		dest *int64
	}{
		{`SELECT COUNT(*) FROM employees WHERE department_id = $1`,
			[]any{dept.DepartmentID}, &dash.TotalEmployees},
		{`SELECT COUNT(*) FROM employees WHERE department_id = $1 AND status = 'active'`,
			[]any{dept.DepartmentID}, &dash.ActiveEmployees},
		{`SELECT COUNT(*) FROM attendance
		      INNER JOIN employees ON attendance.employee_id = employees.employee_id
		      WHERE employees.department_id = $1 AND attendance.attendance_date = $2 AND attendance.status = 'present'`,
			[]any{dept.DepartmentID, today}, &dash.AttendedToday},
		{`SELECT COUNT(*) FROM leave_applications
		      INNER JOIN employees ON leave_applications.employee_id = employees.employee_id
		      WHERE employees.department_id = $1 AND leave_applications.status = 'pending'`,
			[]any{dept.DepartmentID}, &dash.PendingLeaveRequests},
		{`SELECT COUNT(*) FROM leave_applications
		      INNER JOIN employees ON leave_applications.employee_id = employees.employee_id
		      WHERE employees.department_id = $1 AND leave_applications.status = 'approved'
		          AND leave_applications.start_date <= $2 AND leave_applications.end_date >= $2`,
			[]any{dept.DepartmentID, today}, &dash.OnLeaveToday},
	}

	for _, counter := range counters {
		if err := tx.QueryRow(ctx, counter.sql, counter.args...).Scan(counter.dest); err != nil {
			c.deps.Logger.Error("Error counting dashboard metric", slog.String("error", err.Error()))
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return nil, err
	}

	return &dash, nil
}

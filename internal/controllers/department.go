package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/jackc/pgx/v5"
)

type DepartmentController struct {
	deps *Dependens
}

func NewDepartmentController(deps *Dependens) *DepartmentController {
	return &DepartmentController{
		deps: deps,
	}
}

func (c *DepartmentController) GetDepartments() ([]entity.Department, error) {
	query := `SELECT department_id, department_name, manager_id, description FROM departments ORDER BY department_id`

	rows, err := c.deps.DB.Query(context.Background(), query)
	if err != nil {
		c.deps.Logger.Error("Error querying departments", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	departments, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.Department])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return departments, nil
}

func (c *DepartmentController) GetDepartmentByID(id int64) (*entity.Department, error) {
	query := `SELECT department_id, department_name, manager_id, description FROM departments WHERE department_id = $1`

	rows, err := c.deps.DB.Query(context.Background(), query, id)
	if err != nil {
		c.deps.Logger.Error("Error querying department", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	department, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Department])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: department not found", entity.ErrNotFound)
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	return &department, nil
}

func (c *DepartmentController) CreateDepartment(req entity.CreateDepartmentRequest) (*entity.Department, error) {
	if req.DepartmentName == "" {
		return nil, fmt.Errorf("%w: departmentName is required", entity.ErrValidation)
	}

	dept := entity.Department{
		DepartmentName: req.DepartmentName,
		Description:    req.Description,
	}

	query := `INSERT INTO departments (department_name, description) VALUES ($1, $2) RETURNING department_id`

	if err := c.deps.DB.QueryRow(context.Background(), query, req.DepartmentName, req.Description).Scan(&dept.DepartmentID); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: department name already exists", entity.ErrAlreadyExists)
		}

		c.deps.Logger.Error("Error inserting department", slog.String("error", err.Error()))
		return nil, err
	}

	return &dept, nil
}

// AssignManager sets the department's manager, moves that user into the
// department and promotes their role, all in one transaction. Admin roles
// are never demoted by the promotion.
func (c *DepartmentController) AssignManager(departmentID int64, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userId is required", entity.ErrValidation)
	}

	ctx := context.Background()
	tx, err := c.deps.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE departments SET manager_id = $1 WHERE department_id = $2`, userID, departmentID)
	if err != nil {
		c.deps.Logger.Error("Error assigning manager", slog.String("error", err.Error()))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: department not found", entity.ErrNotFound)
	}

	tag, err = tx.Exec(ctx, `UPDATE employees SET department_id = $1 WHERE user_id = $2`, departmentID, userID)
	if err != nil {
		c.deps.Logger.Error("Error moving manager into department", slog.String("error", err.Error()))
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user not found", entity.ErrNotFound)
	}

	if _, err = tx.Exec(ctx, `UPDATE users SET role = 'manager' WHERE user_id = $1 AND role = 'employee'`, userID); err != nil {
		c.deps.Logger.Error("Error promoting user to manager", slog.String("error", err.Error()))
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return err
	}

	return nil
}

func (c *DepartmentController) AssignEmployee(employeeID, departmentID int64) error {
	tag, err := c.deps.DB.Exec(context.Background(),
		`UPDATE employees SET department_id = $1 WHERE employee_id = $2`, departmentID, employeeID)
	if err != nil {
		c.deps.Logger.Error("Error assigning employee", slog.String("error", err.Error()))
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: employee not found", entity.ErrNotFound)
	}

	return nil
}

// ManagedDepartment resolves the department a manager actually manages.
// Callers use it to inject the mandatory department constraint; a manager
// without a department fails closed.
func (c *DepartmentController) ManagedDepartment(userID string) (*entity.Department, error) {
	return managedDepartment(c.deps, userID)
}

func managedDepartment(deps *Dependens, userID string) (*entity.Department, error) {
	query := `SELECT department_id, department_name, manager_id, description FROM departments WHERE manager_id = $1`

	rows, err := deps.DB.Query(context.Background(), query, userID)
	if err != nil {
		deps.Logger.Error("Error querying managed department", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	department, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.Department])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: caller does not manage a department", entity.ErrPermissionDenied)
		}

		deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	return &department, nil
}

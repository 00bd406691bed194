package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/hrmstack/hrm-service/internal/query"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const userDetailSelect = `SELECT users.user_id, users.first_name, users.last_name, users.phone, users.username, users.email, users.role,
              employees.employee_id, employees.designation, employees.hire_date, employees.status,
              departments.department_id, departments.department_name, departments.manager_id,
              addresses.division, addresses.district, addresses.thana, addresses.post_code
          FROM users
          INNER JOIN employees ON users.user_id = employees.user_id
          LEFT JOIN departments ON employees.department_id = departments.department_id
          LEFT JOIN addresses ON users.user_id = addresses.user_id`

type UserController struct {
	deps *Dependens
}

func NewUserController(deps *Dependens) *UserController {
	return &UserController{
		deps: deps,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateUser inserts the user and its employee extension in one
// transaction.
func (c *UserController) CreateUser(req entity.CreateUserRequest) (*entity.CreatedUser, error) {
	if req.FirstName == "" || req.LastName == "" || req.Username == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: first_name, last_name, username and email are required", entity.ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", entity.ErrValidation)
	}
	if req.Role != "admin" && req.Role != "manager" && req.Role != "employee" {
		return nil, fmt.Errorf("%w: role must be admin, manager or employee", entity.ErrValidation)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.deps.Logger.Error("Error hashing password", slog.String("error", err.Error()))
		return nil, err
	}

	userID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	tx, err := c.deps.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		c.deps.Logger.Error("Error starting transaction", slog.String("error", err.Error()))
		return nil, err
	}
	defer tx.Rollback(ctx)

	userQuery := `INSERT INTO users (user_id, first_name, last_name, phone, username, email, password, role)
	              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err = tx.Exec(ctx, userQuery,
		userID.String(), req.FirstName, req.LastName, req.Phone,
		req.Username, req.Email, string(passwordHash), req.Role,
	); err != nil {
		if isUniqueViolation(err) {
			c.deps.Logger.Warn("Username or email already exists", slog.String("email", req.Email))
			return nil, fmt.Errorf("%w: username or email already exists", entity.ErrAlreadyExists)
		}

		c.deps.Logger.Error("Error inserting user", slog.String("error", err.Error()))
		return nil, err
	}

	employeeID := int64(10000000 + rand.IntN(90000000))
	empQuery := `INSERT INTO employees (employee_id, user_id) VALUES ($1, $2)`

	if _, err = tx.Exec(ctx, empQuery, employeeID, userID.String()); err != nil {
		c.deps.Logger.Error("Error inserting employee", slog.String("error", err.Error()))
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		c.deps.Logger.Error("Error committing transaction", slog.String("error", err.Error()))
		return nil, err
	}

	return &entity.CreatedUser{UserID: userID.String(), EmployeeID: employeeID}, nil
}

// GetCurrentUser returns the caller's own joined profile. The caller's
// identity comes from the verified token, never from the request.
func (c *UserController) GetCurrentUser(userID string) (*entity.UserProfile, error) {
	profileQuery := `SELECT users.user_id, users.first_name, users.last_name, users.phone, users.username, users.email, users.role,
	              employees.employee_id, employees.designation, employees.hire_date, employees.status, employees.department_id
	          FROM users
	          INNER JOIN employees ON users.user_id = employees.user_id
	          WHERE users.user_id = $1`

	rows, err := c.deps.DB.Query(context.Background(), profileQuery, userID)
	if err != nil {
		c.deps.Logger.Error("Error querying current user", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	profile, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.UserProfile])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", entity.ErrNotFound)
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	return &profile, nil
}

// GetUser fetches one user matched by any combination of the identifying
// filters.
func (c *UserController) GetUser(filter entity.OneUserFilter) (*entity.UserDetail, error) {
	cond := query.Conj{}
	if filter.UserID != nil {
		cond = cond.Eq("users.user_id", *filter.UserID)
	}
	if filter.EmployeeID != nil {
		cond = cond.Eq("employees.employee_id", *filter.EmployeeID)
	}
	if filter.Username != nil {
		cond = cond.Eq("users.username", *filter.Username)
	}
	if filter.Phone != nil {
		cond = cond.Eq("users.phone", *filter.Phone)
	}
	if filter.Email != nil {
		cond = cond.Eq("users.email", *filter.Email)
	}

	if cond.Empty() {
		return nil, fmt.Errorf("%w: at least one of uid, eid, username, phone, email is required", entity.ErrValidation)
	}

	where, args := cond.Where(1)

	rows, err := c.deps.DB.Query(context.Background(), userDetailSelect+where, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying user", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	detail, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.UserDetail])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", entity.ErrNotFound)
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	return &detail, nil
}

func userFilterConj(filter entity.UserFilter) query.Conj {
	cond := query.Conj{}
	if filter.DepartmentID != nil {
		cond = cond.Eq("employees.department_id", *filter.DepartmentID)
	}
	if filter.Username != nil {
		cond = cond.Eq("users.username", *filter.Username)
	}
	if filter.Phone != nil {
		cond = cond.Eq("users.phone", *filter.Phone)
	}
	if filter.Email != nil {
		cond = cond.Eq("users.email", *filter.Email)
	}
	if filter.Designation != nil {
		cond = cond.Eq("employees.designation", *filter.Designation)
	}
	if filter.HireDate != nil {
		cond = cond.Eq("employees.hire_date", *filter.HireDate)
	}
	if filter.Status != nil {
		cond = cond.Eq("employees.status", *filter.Status)
	}
	if filter.Role != nil {
		cond = cond.Eq("users.role", *filter.Role)
	}
	return cond
}

// GetUsers returns the offset-paginated joined listing with all optional
// filters applied as one conjunction.
func (c *UserController) GetUsers(filter entity.UserFilter, page, pageSize int) (*query.OffsetPage[entity.UserDetail], error) {
	cond := userFilterConj(filter)
	where, args := cond.Where(1)

	countQuery := `SELECT COUNT(*)
	          FROM users
	          INNER JOIN employees ON users.user_id = employees.user_id
	          LEFT JOIN departments ON employees.department_id = departments.department_id
	          LEFT JOIN addresses ON users.user_id = addresses.user_id` + where

	ctx := context.Background()

	var total int64
	if err := c.deps.DB.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		c.deps.Logger.Error("Error counting users", slog.String("error", err.Error()))
		return nil, err
	}

	listQuery := fmt.Sprintf("%s%s ORDER BY users.user_id LIMIT $%d OFFSET $%d",
		userDetailSelect, where, len(args)+1, len(args)+2)
	listArgs := append(args, pageSize, (page-1)*pageSize)

	rows, err := c.deps.DB.Query(ctx, listQuery, listArgs...)
	if err != nil {
		c.deps.Logger.Error("Error querying users", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.UserDetail])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	result := query.BuildOffsetPage(users, total, page, pageSize)
	return &result, nil
}

package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrmstack/hrm-service/internal/authz"
	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/hrmstack/hrm-service/internal/query"
	"github.com/jackc/pgx/v5"
)

// noCheckIn stands in for NULL check-in times inside the compound sort key
// so rows without a check-in order after everyone who checked in. The SQL
// side coalesces to the same instant; both sides must agree or paging
// skips rows.
var noCheckIn = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

const coalescedCheckIn = `COALESCE(attendance.check_in_time, '9999-12-31 00:00:00+00')`

type AttendanceController struct {
	deps *Dependens
}

func NewAttendanceController(deps *Dependens) *AttendanceController {
	return &AttendanceController{
		deps: deps,
	}
}

// CheckIn marks today's attendance for the employee. The UNIQUE
// (employee_id, attendance_date) constraint is the arbiter under
// concurrency: the conditional upsert touches zero rows when a check-in
// already exists, and every loser of a race sees zero rows too.
func (c *AttendanceController) CheckIn(employeeID int64, now time.Time) (*entity.Attendance, error) {
	day := now.Truncate(24 * time.Hour)

	sql := `INSERT INTO attendance (employee_id, attendance_date, check_in_time, status)
	          VALUES ($1, $2, $3, 'present')
	          ON CONFLICT (employee_id, attendance_date) DO UPDATE
	              SET check_in_time = EXCLUDED.check_in_time, status = 'present'
	              WHERE attendance.check_in_time IS NULL
	          RETURNING attendance_id`

	record := entity.Attendance{
		EmployeeID:     employeeID,
		AttendanceDate: day,
		CheckInTime:    &now,
		Status:         entity.AttendancePresent,
	}

	if err := c.deps.DB.QueryRow(context.Background(), sql, employeeID, day, now).Scan(&record.AttendanceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Duplicate check-in", slog.Int64("employee_id", employeeID))
			return nil, fmt.Errorf("%w: already checked in today", entity.ErrAlreadyExists)
		}

		c.deps.Logger.Error("Error inserting attendance", slog.String("error", err.Error()))
		return nil, err
	}

	return &record, nil
}

// CheckOut stamps the check-out time. The update is conditional on the row
// belonging to the caller and not being checked out yet, so a repeated
// check-out cannot overwrite the first one.
func (c *AttendanceController) CheckOut(attendanceID, employeeID int64, now time.Time) error {
	sql := `UPDATE attendance SET check_out_time = $1
	          WHERE attendance_id = $2 AND employee_id = $3 AND check_in_time IS NOT NULL AND check_out_time IS NULL`

	tag, err := c.deps.DB.Exec(context.Background(), sql, now, attendanceID, employeeID)
	if err != nil {
		c.deps.Logger.Error("Error updating attendance", slog.String("error", err.Error()))
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: attendance record not found or already checked out", entity.ErrNotFound)
	}

	return nil
}

type attendanceKey struct {
	AttendanceID   int64
	DepartmentName string
	CheckInTime    *time.Time
}

func (k attendanceKey) cursor() string {
	checkIn := noCheckIn
	if k.CheckInTime != nil {
		checkIn = *k.CheckInTime
	}

	return query.CompoundCursor{
		Department: k.DepartmentName,
		CheckIn:    checkIn,
		ID:         k.AttendanceID,
	}.Encode()
}

// GetAttendanceByDate lists a day's attendance across departments, ordered
// by (department name, check-in time, row id) and keyset-paginated on that
// same compound key. The fetch runs in two phases: a narrow query walks the
// sort key and collects ids, then a wide query fetches the joined rows for
// exactly those ids and reassembles them in phase-one order.
func (c *AttendanceController) GetAttendanceByDate(date time.Time, cursor *query.CompoundCursor, limit int) (*query.Page[entity.AttendanceDay], error) {
	cond := query.Conj{}.Eq("attendance.attendance_date", date)
	if cursor != nil {
		cond = cond.RowGt(
			[]string{"departments.department_name", coalescedCheckIn, "attendance.attendance_id"},
			[]any{cursor.Department, cursor.CheckIn, cursor.ID},
		)
	}

	where, args := cond.Where(1)

	keySQL := fmt.Sprintf(`SELECT attendance.attendance_id, departments.department_name, attendance.check_in_time
	          FROM attendance
	          INNER JOIN employees ON attendance.employee_id = employees.employee_id
	          INNER JOIN departments ON employees.department_id = departments.department_id
	          %s ORDER BY departments.department_name, %s, attendance.attendance_id LIMIT $%d`,
		where, coalescedCheckIn, len(args)+1)

	ctx := context.Background()

	rows, err := c.deps.DB.Query(ctx, keySQL, append(args, limit+1)...)
	if err != nil {
		c.deps.Logger.Error("Error querying attendance keys", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	keys, err := pgx.CollectRows(rows, pgx.RowToStructByName[attendanceKey])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	keyPage := query.CutPage(keys, limit, attendanceKey.cursor)

	ids := make([]int64, 0, len(keyPage.Data))
	for _, k := range keyPage.Data {
		ids = append(ids, k.AttendanceID)
	}

	page := &query.Page[entity.AttendanceDay]{
		Data:     []entity.AttendanceDay{},
		PageInfo: keyPage.PageInfo,
	}
	if len(ids) == 0 {
		return page, nil
	}

	rowSQL := `SELECT attendance.attendance_id, attendance.attendance_date, employees.employee_id,
	              users.first_name, users.last_name, departments.department_name,
	              attendance.check_in_time, attendance.check_out_time
	          FROM attendance
	          INNER JOIN employees ON attendance.employee_id = employees.employee_id
	          INNER JOIN users ON employees.user_id = users.user_id
	          INNER JOIN departments ON employees.department_id = departments.department_id
	          WHERE attendance.attendance_id = ANY($1)`

	wideRows, err := c.deps.DB.Query(ctx, rowSQL, ids)
	if err != nil {
		c.deps.Logger.Error("Error querying attendance", slog.String("error", err.Error()))
		return nil, err
	}
	defer wideRows.Close()

	days, err := pgx.CollectRows(wideRows, pgx.RowToStructByName[entity.AttendanceDay])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	byID := make(map[int64]entity.AttendanceDay, len(days))
	for _, d := range days {
		byID[d.AttendanceID] = d
	}
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			page.Data = append(page.Data, d)
		}
	}

	return page, nil
}

// GetAttendanceByDepartment lists one department's attendance for a day,
// keyset-paginated on the row id. Managers may only read the department
// they manage.
func (c *AttendanceController) GetAttendanceByDepartment(claims *entity.Claims, departmentID int64, date time.Time, cursor *int64, limit int) (*query.Page[entity.AttendanceDay], error) {
	if claims.Role == string(authz.RoleManager) {
		dept, err := managedDepartment(c.deps, claims.UserID)
		if err != nil {
			return nil, err
		}
		if dept.DepartmentID != departmentID {
			return nil, fmt.Errorf("%w: department is outside the caller's scope", entity.ErrPermissionDenied)
		}
	}

	cond := query.Conj{}.
		Eq("attendance.attendance_date", date).
		Eq("employees.department_id", departmentID)
	if cursor != nil {
		cond = cond.Gt("attendance.attendance_id", *cursor)
	}

	where, args := cond.Where(1)

	sql := fmt.Sprintf(`SELECT attendance.attendance_id, attendance.attendance_date, employees.employee_id,
	              users.first_name, users.last_name, departments.department_name,
	              attendance.check_in_time, attendance.check_out_time
	          FROM attendance
	          INNER JOIN employees ON attendance.employee_id = employees.employee_id
	          INNER JOIN users ON employees.user_id = users.user_id
	          INNER JOIN departments ON employees.department_id = departments.department_id
	          %s ORDER BY attendance.attendance_id LIMIT $%d`, where, len(args)+1)

	rows, err := c.deps.DB.Query(context.Background(), sql, append(args, limit+1)...)
	if err != nil {
		c.deps.Logger.Error("Error querying attendance", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	days, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.AttendanceDay])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	page := query.CutPage(days, limit, func(d entity.AttendanceDay) string {
		return query.IDKey(d.AttendanceID)
	})
	return &page, nil
}

// GetAttendanceByMonth returns an employee's records for the calendar month
// containing the given date.
func (c *AttendanceController) GetAttendanceByMonth(employeeID int64, date time.Time) ([]entity.AttendanceRecord, error) {
	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	cond := query.Conj{}.
		Eq("employee_id", employeeID).
		Gte("attendance_date", monthStart).
		Lt("attendance_date", nextMonth)
	where, args := cond.Where(1)

	sql := `SELECT attendance_id, attendance_date, check_in_time, check_out_time, status
	          FROM attendance` + where + ` ORDER BY attendance_date`

	rows, err := c.deps.DB.Query(context.Background(), sql, args...)
	if err != nil {
		c.deps.Logger.Error("Error querying attendance", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.AttendanceRecord])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return records, nil
}

// GetMyAttendance returns the caller's own history, newest rows last,
// keyset-paginated on the row id.
func (c *AttendanceController) GetMyAttendance(employeeID int64, cursor *int64, limit int) (*query.Page[entity.AttendanceRecord], error) {
	cond := query.Conj{}.Eq("employee_id", employeeID)
	if cursor != nil {
		cond = cond.Gt("attendance_id", *cursor)
	}

	where, args := cond.Where(1)

	sql := fmt.Sprintf(`SELECT attendance_id, attendance_date, check_in_time, check_out_time, status
	          FROM attendance%s ORDER BY attendance_id LIMIT $%d`, where, len(args)+1)

	rows, err := c.deps.DB.Query(context.Background(), sql, append(args, limit+1)...)
	if err != nil {
		c.deps.Logger.Error("Error querying attendance", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.AttendanceRecord])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	page := query.CutPage(records, limit, func(r entity.AttendanceRecord) string {
		return query.IDKey(r.AttendanceID)
	})
	return &page, nil
}

// GetAbsentEmployees lists active employees with no attendance row for the
// day.
func (c *AttendanceController) GetAbsentEmployees(date time.Time) ([]entity.AbsentEmployee, error) {
	sql := `SELECT employees.employee_id, users.first_name, users.last_name, departments.department_name
	          FROM employees
	          INNER JOIN users ON employees.user_id = users.user_id
	          INNER JOIN departments ON employees.department_id = departments.department_id
	          LEFT JOIN attendance ON attendance.employee_id = employees.employee_id AND attendance.attendance_date = $1
	          WHERE attendance.attendance_id IS NULL AND employees.status = 'active'
	          ORDER BY departments.department_name, employees.employee_id`

	rows, err := c.deps.DB.Query(context.Background(), sql, date)
	if err != nil {
		c.deps.Logger.Error("Error querying absent employees", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	absent, err := pgx.CollectRows(rows, pgx.RowToStructByName[entity.AbsentEmployee])
	if err != nil {
		c.deps.Logger.Error("Error collecting rows", slog.String("error", err.Error()))
		return nil, err
	}

	return absent, nil
}

// InitializeDailyAttendance seeds an absent row for every active employee
// that has none for the day. Employees who already checked in keep their
// rows; reruns are no-ops.
func (c *AttendanceController) InitializeDailyAttendance(date time.Time) (int64, error) {
	sql := `INSERT INTO attendance (employee_id, attendance_date, status)
	          SELECT employee_id, $1, 'absent' FROM employees WHERE status = 'active'
	          ON CONFLICT (employee_id, attendance_date) DO NOTHING`

	tag, err := c.deps.DB.Exec(context.Background(), sql, date)
	if err != nil {
		c.deps.Logger.Error("Error initializing attendance", slog.String("error", err.Error()))
		return 0, err
	}

	return tag.RowsAffected(), nil
}

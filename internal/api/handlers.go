package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hrmstack/hrm-service/internal/authz"
	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/hrmstack/hrm-service/internal/query"
)

// AuthLogin authenticates a user and returns the JWT pair.
func (s *Server) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req entity.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: invalid request body", entity.ErrValidation))
		return
	}

	resp, err := s.Controllers.AuthController.AuthLogin(&req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, resp, "success")
}

// AuthLogout revokes the caller's access token.
func (s *Server) AuthLogout(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.Everyone); err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.Controllers.AuthController.AuthLogout(r.Header.Get("Authorization")); err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Logged out"}, "success")
}

func (s *Server) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req entity.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: invalid request body", entity.ErrValidation))
		return
	}

	if err := s.Controllers.PasswordController.VerifyEmail(req.Email); err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Reset code sent"}, "success")
}

func (s *Server) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req entity.VerifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: invalid request body", entity.ErrValidation))
		return
	}

	if err := s.Controllers.PasswordController.VerifyToken(chi.URLParam(r, "id"), req.Token); err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Code accepted"}, "success")
}

func (s *Server) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req entity.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: invalid request body", entity.ErrValidation))
		return
	}

	if err := s.Controllers.PasswordController.ResetPassword(chi.URLParam(r, "userId"), req.Password); err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Password updated"}, "success")
}

func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.AdminOnly); err != nil {
		s.respondError(w, err)
		return
	}

	var req entity.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: invalid request body", entity.ErrValidation))
		return
	}

	created, err := s.Controllers.UserController.CreateUser(req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusCreated, created, "success")
}

func (s *Server) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Everyone)
	if err != nil {
		s.respondError(w, err)
		return
	}

	profile, err := s.Controllers.UserController.GetCurrentUser(claims.UserID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, profile, "success")
}

func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.Staff); err != nil {
		s.respondError(w, err)
		return
	}

	eid, err := queryInt64(r, "eid")
	if err != nil {
		s.respondError(w, err)
		return
	}

	filter := entity.OneUserFilter{
		UserID:     queryStr(r, "uid"),
		EmployeeID: eid,
		Username:   queryStr(r, "username"),
		Phone:      queryStr(r, "phone"),
		Email:      queryStr(r, "email"),
	}

	detail, err := s.Controllers.UserController.GetUser(filter)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, detail, "success")
}

func (s *Server) GetUsers(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.Staff); err != nil {
		s.respondError(w, err)
		return
	}

	page, err := query.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	pageSize, err := query.ParseLimit(r.URL.Query().Get("pageSize"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	departmentID, err := queryInt64(r, "departmentId")
	if err != nil {
		s.respondError(w, err)
		return
	}

	filter := entity.UserFilter{
		DepartmentID: departmentID,
		Username:     queryStr(r, "username"),
		Phone:        queryStr(r, "phone"),
		Email:        queryStr(r, "email"),
		Designation:  queryStr(r, "designation"),
		Status:       queryStr(r, "status"),
		Role:         queryStr(r, "role"),
	}

	if raw := r.URL.Query().Get("hireDate"); raw != "" {
		hireDate, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			s.respondError(w, fmt.Errorf("%w: hireDate must be YYYY-MM-DD", entity.ErrValidation))
			return
		}
		filter.HireDate = &hireDate
	}

	users, err := s.Controllers.UserController.GetUsers(filter, page, pageSize)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, users, "success")
}

func (s *Server) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.AdminOnly); err != nil {
		s.respondError(w, err)
		return
	}

	var req entity.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: invalid request body", entity.ErrValidation))
		return
	}

	dept, err := s.Controllers.DepartmentController.CreateDepartment(req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusCreated, dept, "success")
}

func (s *Server) GetDepartments(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.Everyone); err != nil {
		s.respondError(w, err)
		return
	}

	departments, err := s.Controllers.DepartmentController.GetDepartments()
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, departments, "success")
}

func (s *Server) GetDepartmentByID(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.Everyone); err != nil {
		s.respondError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	dept, err := s.Controllers.DepartmentController.GetDepartmentByID(id)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, dept, "success")
}

func (s *Server) AssignManager(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.AdminOnly); err != nil {
		s.respondError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	var req entity.AssignManagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: invalid request body", entity.ErrValidation))
		return
	}

	if err := s.Controllers.DepartmentController.AssignManager(id, req.UserID); err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Manager assigned"}, "success")
}

// AssignEmployee moves an employee into a department. A manager may only
// move employees into the department they manage.
func (s *Server) AssignEmployee(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Staff)
	if err != nil {
		s.respondError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	var req entity.AssignEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: invalid request body", entity.ErrValidation))
		return
	}

	if claims.Role == string(authz.RoleManager) {
		dept, deptErr := s.Controllers.DepartmentController.ManagedDepartment(claims.UserID)
		if deptErr != nil {
			s.respondError(w, deptErr)
			return
		}
		if dept.DepartmentID != req.DepartmentID {
			s.respondError(w, fmt.Errorf("%w: department is outside the caller's scope", entity.ErrPermissionDenied))
			return
		}
	}

	if err := s.Controllers.DepartmentController.AssignEmployee(id, req.DepartmentID); err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Employee assigned"}, "success")
}

func (s *Server) CheckIn(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Everyone)
	if err != nil {
		s.respondError(w, err)
		return
	}

	record, err := s.Controllers.AttendanceController.CheckIn(claims.EmployeeID, time.Now().UTC())
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusCreated, record, "success")
}

func (s *Server) CheckOut(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Everyone)
	if err != nil {
		s.respondError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.Controllers.AttendanceController.CheckOut(id, claims.EmployeeID, time.Now().UTC()); err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Checked out"}, "success")
}

func (s *Server) GetAttendanceByDate(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.Staff); err != nil {
		s.respondError(w, err)
		return
	}

	date, err := dateParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	cursor, err := query.DecodeCompoundCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	limit, err := query.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.Controllers.AttendanceController.GetAttendanceByDate(date, cursor, limit)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, page, "success")
}

func (s *Server) GetAttendanceByDepartment(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Staff)
	if err != nil {
		s.respondError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	date, err := dateParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	cursor, err := query.ParseIDCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	limit, err := query.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.Controllers.AttendanceController.GetAttendanceByDepartment(claims, id, date, cursor, limit)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, page, "success")
}

func (s *Server) GetAttendanceByMonth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.Staff); err != nil {
		s.respondError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	date, err := dateParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	records, err := s.Controllers.AttendanceController.GetAttendanceByMonth(id, date)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, records, "success")
}

func (s *Server) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Everyone)
	if err != nil {
		s.respondError(w, err)
		return
	}

	cursor, err := query.ParseIDCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	limit, err := query.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.Controllers.AttendanceController.GetMyAttendance(claims.EmployeeID, cursor, limit)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, page, "success")
}

func (s *Server) GetAbsentEmployees(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.Staff); err != nil {
		s.respondError(w, err)
		return
	}

	date, err := dateParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	absent, err := s.Controllers.AttendanceController.GetAbsentEmployees(date)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, absent, "success")
}

func (s *Server) InitializeAttendance(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authorize(r, authz.AdminOnly); err != nil {
		s.respondError(w, err)
		return
	}

	date, err := dateParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	initialized, err := s.Controllers.AttendanceController.InitializeDailyAttendance(date)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]int64{"initialized": initialized}, "success")
}

func (s *Server) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Everyone)
	if err != nil {
		s.respondError(w, err)
		return
	}

	var req entity.LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: invalid request body", entity.ErrValidation))
		return
	}

	leave, err := s.Controllers.LeaveController.ApplyLeave(claims.EmployeeID, req)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusCreated, leave, "success")
}

func (s *Server) GetLeaves(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Staff)
	if err != nil {
		s.respondError(w, err)
		return
	}

	departmentID, err := queryInt64(r, "departmentId")
	if err != nil {
		s.respondError(w, err)
		return
	}

	filter := entity.LeaveFilter{
		LeaveType:    queryStr(r, "leaveType"),
		Status:       queryStr(r, "status"),
		DepartmentID: departmentID,
	}

	cursor, err := query.ParseIDCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	limit, err := query.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.Controllers.LeaveController.GetLeaves(claims, filter, cursor, limit)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, page, "success")
}

func (s *Server) GetMyLeaves(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Everyone)
	if err != nil {
		s.respondError(w, err)
		return
	}

	cursor, err := query.ParseIDCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	limit, err := query.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.Controllers.LeaveController.GetMyLeaves(claims.EmployeeID, cursor, limit)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, page, "success")
}

func (s *Server) UpdateLeave(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Everyone)
	if err != nil {
		s.respondError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	var req entity.LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, fmt.Errorf("%w: invalid request body", entity.ErrValidation))
		return
	}

	if err := s.Controllers.LeaveController.UpdateLeave(id, claims.EmployeeID, req); err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Leave application updated"}, "success")
}

func (s *Server) ProcessLeave(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Staff)
	if err != nil {
		s.respondError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.Controllers.LeaveController.ProcessLeave(claims, id, r.URL.Query().Get("status")); err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Leave application processed"}, "success")
}

func (s *Server) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Everyone)
	if err != nil {
		s.respondError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, err)
		return
	}

	if err := s.Controllers.LeaveController.DeleteLeave(id, claims.EmployeeID); err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Leave application deleted"}, "success")
}

// GetOnLeaveToday answers per role: admins get the per-department grouping,
// managers get their own department's flat list.
func (s *Server) GetOnLeaveToday(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Staff)
	if err != nil {
		s.respondError(w, err)
		return
	}

	date, err := dateParam(r)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if claims.Role == string(authz.RoleManager) {
		dept, deptErr := s.Controllers.DepartmentController.ManagedDepartment(claims.UserID)
		if deptErr != nil {
			s.respondError(w, deptErr)
			return
		}

		users, usersErr := s.Controllers.LeaveController.GetOnLeaveTodayByDepartment(dept.DepartmentID, date)
		if usersErr != nil {
			s.respondError(w, usersErr)
			return
		}

		s.httpResponse(w, http.StatusOK, users, "success")
		return
	}

	groups, err := s.Controllers.LeaveController.GetOnLeaveToday(date)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, groups, "success")
}

// GetDashboard answers per role: admins get the organisation-wide counters,
// managers their department's.
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authorize(r, authz.Staff)
	if err != nil {
		s.respondError(w, err)
		return
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if claims.Role == string(authz.RoleManager) {
		dash, dashErr := s.Controllers.DashboardController.ManagerDashboard(claims.UserID, today)
		if dashErr != nil {
			s.respondError(w, dashErr)
			return
		}

		s.httpResponse(w, http.StatusOK, dash, "success")
		return
	}

	dash, err := s.Controllers.DashboardController.AdminDashboard(today)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.httpResponse(w, http.StatusOK, dash, "success")
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hrmstack/hrm-service/internal/authz"
	"github.com/hrmstack/hrm-service/internal/config"
	"github.com/hrmstack/hrm-service/internal/controllers"
	"github.com/hrmstack/hrm-service/internal/entity"
)

type Server struct {
	Cfg         *config.Config
	Controllers *controllers.Controllers
	Logger      *slog.Logger
}

func NewServer(cfg *config.Config, ctrl *controllers.Controllers, logger *slog.Logger) *Server {
	return &Server{
		Cfg:         cfg,
		Controllers: ctrl,
		Logger:      logger,
	}
}

// Routes mounts every API endpoint on the router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.AuthLogin)
		r.Post("/auth/logout", s.AuthLogout)

		r.Post("/password/verify-email", s.VerifyEmail)
		r.Post("/password/verify-token/{id}", s.VerifyToken)
		r.Post("/password/reset/{userId}", s.ResetPassword)

		r.Post("/users", s.CreateUser)
		r.Get("/users", s.GetUsers)
		r.Get("/users/me", s.GetCurrentUser)
		r.Get("/users/one", s.GetUser)

		r.Post("/departments", s.CreateDepartment)
		r.Get("/departments", s.GetDepartments)
		r.Get("/departments/{id}", s.GetDepartmentByID)
		r.Put("/departments/{id}/manager", s.AssignManager)
		r.Put("/employees/{id}/department", s.AssignEmployee)

		r.Post("/attendance/check-in", s.CheckIn)
		r.Put("/attendance/{id}/check-out", s.CheckOut)
		r.Get("/attendance/by-date", s.GetAttendanceByDate)
		r.Get("/attendance/departments/{id}", s.GetAttendanceByDepartment)
		r.Get("/attendance/employees/{id}/month", s.GetAttendanceByMonth)
		r.Get("/attendance/me", s.GetMyAttendance)
		r.Get("/attendance/absent", s.GetAbsentEmployees)
		r.Post("/attendance/initialize", s.InitializeAttendance)

		r.Post("/leaves", s.ApplyLeave)
		r.Get("/leaves", s.GetLeaves)
		r.Get("/leaves/me", s.GetMyLeaves)
		r.Get("/leaves/on-leave-today", s.GetOnLeaveToday)
		r.Put("/leaves/{id}", s.UpdateLeave)
		r.Put("/leaves/{id}/process", s.ProcessLeave)
		r.Delete("/leaves/{id}", s.DeleteLeave)

		r.Get("/dashboard", s.GetDashboard)
	})
}

func (s *Server) httpResponse(w http.ResponseWriter, status int, data any, respType string) {
	resp := map[string]any{
		"status": status,
		"type":   respType,
		"data":   data,
	}

	respData, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		s.Logger.Error("Error marshaling response", slog.String("error", marshalErr.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(respData); err != nil {
		s.Logger.Error("Error writing response", slog.String("error", err.Error()))
	}
}

// respondError maps the sentinel error classes onto HTTP statuses. Anything
// unclassified is a 500 and the detail stays in the log.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, entity.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, entity.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, entity.ErrPermissionDenied):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, entity.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, entity.ErrAlreadyExists):
		status = http.StatusConflict
		message = err.Error()
	default:
		s.Logger.Error("Unhandled error", slog.String("error", err.Error()))
	}

	s.httpResponse(w, status, map[string]string{"error": message}, "error")
}

// authorize verifies the bearer token and checks the caller's role against
// the allowed set for the operation.
func (s *Server) authorize(r *http.Request, allowed authz.Allowed) (*entity.Claims, error) {
	claims, err := s.Controllers.AuthController.CheckUserToken(r.Header.Get("Authorization"))
	if err != nil {
		return nil, err
	}

	if err := authz.Require(claims.Role, allowed); err != nil {
		return nil, err
	}

	return claims, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", entity.ErrValidation, name)
	}
	return id, nil
}

// dateParam reads an optional date query parameter, defaulting to today
// (UTC).
func dateParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", entity.ErrValidation)
	}
	return date, nil
}

func queryStr(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", entity.ErrValidation, name)
	}
	return &v, nil
}

package controllers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hrmstack/hrm-service/internal/config"
	"github.com/hrmstack/hrm-service/internal/mail"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

type Controllers struct {
	AuthController       *AuthController
	UserController       *UserController
	DepartmentController *DepartmentController
	AttendanceController *AttendanceController
	LeaveController      *LeaveController
	DashboardController  *DashboardController
	PasswordController   *PasswordController
}

func NewControllers(deps *Dependens) *Controllers {
	return &Controllers{
		AuthController:       NewAuthController(deps),
		UserController:       NewUserController(deps),
		DepartmentController: NewDepartmentController(deps),
		AttendanceController: NewAttendanceController(deps),
		LeaveController:      NewLeaveController(deps),
		DashboardController:  NewDashboardController(deps),
		PasswordController:   NewPasswordController(deps),
	}
}

type Dependens struct {
	DB interface {
		Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
		QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
		Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
		BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	}
	Redis interface {
		Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
		Get(ctx context.Context, key string) *redis.StringCmd
		Del(ctx context.Context, keys ...string) *redis.IntCmd
	}
	Mail   mail.Sender
	Logger *slog.Logger
	Config *config.Config
}

package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hrmstack/hrm-service/internal/config"
	"github.com/jackc/pgx/v5"
)

func NewConnect(cfg *config.Config, logger *slog.Logger) (*pgx.Conn, error) {
	url := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)

	conn, err := pgx.Connect(context.Background(), url)
	if err != nil {
		logger.Error("Error connecting to DB", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Connected to DB successfully")
	return conn, nil
}

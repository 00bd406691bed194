package controllers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 5 * time.Minute

type PasswordController struct {
	deps *Dependens
}

func NewPasswordController(deps *Dependens) *PasswordController {
	return &PasswordController{
		deps: deps,
	}
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// VerifyEmail starts a reset: it stores a fresh six-digit code for the
// account and mails it to the address on file.
func (c *PasswordController) VerifyEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", entity.ErrValidation)
	}

	var userID, firstName string

	findQuery := `SELECT user_id, first_name FROM users WHERE email = $1`
	if err := c.deps.DB.QueryRow(context.Background(), findQuery, email).Scan(&userID, &firstName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: no account for that email", entity.ErrNotFound)
		}

		c.deps.Logger.Error("Error querying user", slog.String("error", err.Error()))
		return err
	}

	code, err := generateResetCode()
	if err != nil {
		c.deps.Logger.Error("Error generating reset code", slog.String("error", err.Error()))
		return err
	}

	insertQuery := `INSERT INTO password_reset_tokens (user_id, token) VALUES ($1, $2)`
	if _, err := c.deps.DB.Exec(context.Background(), insertQuery, userID, code); err != nil {
		c.deps.Logger.Error("Error inserting reset token", slog.String("error", err.Error()))
		return err
	}

	body := fmt.Sprintf("Hello %s,\r\n\r\nYour password reset code is %s. It expires in %d minutes.\r\n",
		firstName, code, int(resetTokenTTL.Minutes()))

	if err := c.deps.Mail.Send(email, "Password reset code", body); err != nil {
		c.deps.Logger.Error("Error sending reset mail", slog.String("error", err.Error()))
		return err
	}

	c.deps.Logger.Info("Password reset code sent", slog.String("user_id", userID))
	return nil
}

// VerifyToken consumes a reset code for the account. Consumption is a
// conditional update, so a code is spent exactly once even under concurrent
// attempts, and expired codes never match.
func (c *PasswordController) VerifyToken(userID, token string) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", entity.ErrValidation)
	}

	sql := `UPDATE password_reset_tokens SET is_used = true
	          WHERE user_id = $1 AND token = $2 AND is_used = false AND created_at > $3
	          RETURNING token_id`

	var tokenID int64
	if err := c.deps.DB.QueryRow(context.Background(), sql, userID, token, time.Now().Add(-resetTokenTTL)).Scan(&tokenID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Invalid or expired reset code", slog.String("user_id", userID))
			return fmt.Errorf("%w: invalid or expired reset code", entity.ErrUnauthorized)
		}

		c.deps.Logger.Error("Error consuming reset token", slog.String("error", err.Error()))
		return err
	}

	return nil
}

// ResetPassword stores a new password hash for the account.
func (c *PasswordController) ResetPassword(userID, password string) error {
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", entity.ErrValidation)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.deps.Logger.Error("Error hashing password", slog.String("error", err.Error()))
		return err
	}

	tag, err := c.deps.DB.Exec(context.Background(),
		`UPDATE users SET password = $1 WHERE user_id = $2`, string(passwordHash), userID)
	if err != nil {
		c.deps.Logger.Error("Error updating password", slog.String("error", err.Error()))
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user not found", entity.ErrNotFound)
	}

	return nil
}

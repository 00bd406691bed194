package controllers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const TokenSize = 16

type AuthController struct {
	deps *Dependens
}

func NewAuthController(deps *Dependens) *AuthController {
	return &AuthController{
		deps: deps,
	}
}

func (c *AuthController) AuthLogin(req *entity.LoginRequest) (*entity.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", entity.ErrValidation)
	}

	var (
		userID, password, role string
		employeeID             int64
	)

	query := `SELECT users.user_id, users.password, users.role, employees.employee_id
	          FROM users
	          INNER JOIN employees ON users.user_id = employees.user_id
	          WHERE users.email = $1`

	if err := c.deps.DB.QueryRow(context.Background(), query, req.Email).Scan(&userID, &password, &role, &employeeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("Invalid login attempt", slog.String("email", req.Email))
			return nil, fmt.Errorf("%w: invalid email or password", entity.ErrUnauthorized)
		}

		c.deps.Logger.Error("Error querying user", slog.String("error", err.Error()))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		c.deps.Logger.Warn("Invalid password", slog.String("email", req.Email))
		return nil, fmt.Errorf("%w: invalid email or password", entity.ErrUnauthorized)
	}

	claims := entity.Claims{
		UserID:     userID,
		EmployeeID: employeeID,
		Role:       role,
	}

	accessToken, err := c.createToken(claims, "access")
	if err != nil {
		return nil, err
	}

	refreshToken, err := c.createToken(claims, "refresh")
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err = c.deps.Redis.Set(ctx, "access_token:"+accessToken, userID, c.deps.Config.Redis.AccessTokenTTL).Err(); err != nil {
		c.deps.Logger.Error("Error setting access token", slog.String("error", err.Error()))
		return nil, err
	}

	if err = c.deps.Redis.Set(ctx, "refresh_token:"+refreshToken, userID, c.deps.Config.Redis.RefreshTokenTTL).Err(); err != nil {
		c.deps.Logger.Error("Error setting refresh token", slog.String("error", err.Error()))
		return nil, err
	}

	return &entity.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Role:         role,
	}, nil
}

func (c *AuthController) AuthLogout(authHeader string) error {
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	ctx := context.Background()
	if err := c.deps.Redis.Del(ctx, "access_token:"+tokenStr).Err(); err != nil {
		c.deps.Logger.Error("Error deleting access token from Redis", slog.String("error", err.Error()))
		return err
	}

	return nil
}

func (c *AuthController) createToken(base entity.Claims, tokenType string) (string, error) {
	tokenID, err := generateTokenID(c.deps.Logger)
	if err != nil {
		c.deps.Logger.Error("Error generating token ID", slog.String("error", err.Error()))
		return "", err
	}

	expiresAt := c.deps.Config.Redis.AccessTokenTTL
	if tokenType == "refresh" {
		expiresAt = c.deps.Config.Redis.RefreshTokenTTL
	}

	claims := entity.Claims{
		UserID:     base.UserID,
		EmployeeID: base.EmployeeID,
		Role:       base.Role,
		TokenID:    tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresAt)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(c.deps.Config.Server.JWTSecret))
	if err != nil {
		c.deps.Logger.Error("Error signing token", slog.String("error", err.Error()))
		return "", err
	}

	return tokenStr, nil
}

func generateTokenID(logger *slog.Logger) (string, error) {
	b := make([]byte, TokenSize)
	if _, err := rand.Read(b); err != nil {
		logger.Error("Error generating token ID", slog.String("error", err.Error()))
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// CheckUserToken validates a bearer token against Redis and the JWT
// signature and returns the caller's claims.
func (c *AuthController) CheckUserToken(authHeader string) (*entity.Claims, error) {
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenStr == authHeader {
		c.deps.Logger.Error("Invalid bearer token")
		return nil, fmt.Errorf("%w: invalid bearer token", entity.ErrUnauthorized)
	}

	ctx := context.Background()
	if err := c.deps.Redis.Get(ctx, "access_token:"+tokenStr).Err(); errors.Is(err, redis.Nil) {
		c.deps.Logger.Warn("Token revoked")
		return nil, fmt.Errorf("%w: token revoked", entity.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &entity.Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(c.deps.Config.Server.JWTSecret), nil
	})
	if err != nil {
		c.deps.Logger.Error("Error parsing token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: invalid token", entity.ErrUnauthorized)
	}

	if claims, ok := token.Claims.(*entity.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("%w: invalid token", entity.ErrUnauthorized)
}

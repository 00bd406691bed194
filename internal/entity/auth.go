package entity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims

	UserID     string `json:"user_id"`
	EmployeeID int64  `json:"employee_id"`
	Role       string `json:"role"`
	TokenID    string `json:"token_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
}

type PasswordResetToken struct {
	TokenID   int64     `json:"tokenId"`
	Token     string    `json:"-"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	IsUsed    bool      `json:"isUsed"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

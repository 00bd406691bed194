package controllers

import (
	"testing"

	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPasswordController_VerifyEmail(t *testing.T) {
	t.Run("missing email", func(t *testing.T) {
		deps := CreateTestDependencies(&MockDB{}, &MockRedis{})
		controller := NewPasswordController(deps)

		assert.ErrorIs(t, controller.VerifyEmail(""), entity.ErrValidation)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockDB := &MockDB{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})

		row := NewMockRow(nil, pgx.ErrNoRows)
		mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), "ghost@corp.test").Return(row)

		controller := NewPasswordController(deps)
		assert.ErrorIs(t, controller.VerifyEmail("ghost@corp.test"), entity.ErrNotFound)
		mockDB.AssertExpectations(t)
	})

	t.Run("stores a code and mails it", func(t *testing.T) {
		mockDB := &MockDB{}
		mailer := &MockMailer{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})
		deps.Mail = mailer

		row := NewMockRow([]interface{}{"u-1", "Ann"}, nil)
		mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), "ann@corp.test").Return(row)
		mockDB.On("Exec", mock.Anything, mock.AnythingOfType("string"), "u-1", mock.MatchedBy(func(code string) bool {
			return len(code) == 6
		})).Return(NewMockCommandTag(1), nil)
		mailer.On("Send", "ann@corp.test", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

		controller := NewPasswordController(deps)
		assert.NoError(t, controller.VerifyEmail("ann@corp.test"))
		mockDB.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})
}

func TestPasswordController_VerifyToken(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		deps := CreateTestDependencies(&MockDB{}, &MockRedis{})
		controller := NewPasswordController(deps)

		assert.ErrorIs(t, controller.VerifyToken("u-1", ""), entity.ErrValidation)
	})

	t.Run("expired, foreign or spent code", func(t *testing.T) {
		mockDB := &MockDB{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})

		row := NewMockRow(nil, pgx.ErrNoRows)
		mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), "u-1", "123456", mock.Anything).Return(row)

		controller := NewPasswordController(deps)
		assert.ErrorIs(t, controller.VerifyToken("u-1", "123456"), entity.ErrUnauthorized)
		mockDB.AssertExpectations(t)
	})

	t.Run("valid code is consumed", func(t *testing.T) {
		mockDB := &MockDB{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})

		row := NewMockRow([]interface{}{int64(1)}, nil)
		mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), "u-1", "123456", mock.Anything).Return(row)

		controller := NewPasswordController(deps)
		assert.NoError(t, controller.VerifyToken("u-1", "123456"))
		mockDB.AssertExpectations(t)
	})
}

func TestPasswordController_ResetPassword(t *testing.T) {
	t.Run("short password", func(t *testing.T) {
		deps := CreateTestDependencies(&MockDB{}, &MockRedis{})
		controller := NewPasswordController(deps)

		assert.ErrorIs(t, controller.ResetPassword("u-1", "abc"), entity.ErrValidation)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockDB := &MockDB{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})

		mockDB.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "ghost").
			Return(NewMockCommandTag(0), nil)

		controller := NewPasswordController(deps)
		assert.ErrorIs(t, controller.ResetPassword("ghost", "secret1"), entity.ErrNotFound)
		mockDB.AssertExpectations(t)
	})

	t.Run("stores the new hash", func(t *testing.T) {
		mockDB := &MockDB{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})

		mockDB.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "u-1").
			Return(NewMockCommandTag(1), nil)

		controller := NewPasswordController(deps)
		assert.NoError(t, controller.ResetPassword("u-1", "secret1"))
		mockDB.AssertExpectations(t)
	})
}

package controllers

import (
	"testing"
	"time"

	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDashboardController_AdminDashboard(t *testing.T) {
	today := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	mockDB := &MockDB{}
	mockTx := &MockTx{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})

	counter := NewMockRow([]interface{}{int64(4)}, nil)
	mockDB.On("BeginTx", mock.Anything, mock.Anything).Return(mockTx, nil)
	mockTx.On("QueryRow", mock.Anything, mock.AnythingOfType("string")).Return(counter)
	mockTx.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), today).Return(counter)
	mockTx.On("Commit", mock.Anything).Return(nil)
	mockTx.On("Rollback", mock.Anything).Return(nil)

	controller := NewDashboardController(deps)
	dash, err := controller.AdminDashboard(today)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), dash.TotalUsers)
	assert.Equal(t, int64(4), dash.TotalDepartments)
	assert.Equal(t, int64(4), dash.TotalEmployees)
	assert.Equal(t, int64(4), dash.ActiveEmployees)
	assert.Equal(t, int64(4), dash.AttendedToday)
	assert.Equal(t, int64(4), dash.PendingLeaveRequests)
	assert.Equal(t, int64(4), dash.OnLeaveToday)
	mockDB.AssertExpectations(t)
	mockTx.AssertExpectations(t)
}

func TestDashboardController_ManagerDashboard(t *testing.T) {
	today := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	t.Run("manager without a department fails closed", func(t *testing.T) {
		mockDB := &MockDB{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})

		rows := NewMockRows([][]interface{}{}, nil, departmentFieldDescriptions)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), "u-9").Return(rows, nil)

		controller := NewDashboardController(deps)
		_, err := controller.ManagerDashboard("u-9", today)

		assert.ErrorIs(t, err, entity.ErrPermissionDenied)
		mockDB.AssertExpectations(t)
	})

	t.Run("counters are scoped to the managed department", func(t *testing.T) {
		mockDB := &MockDB{}
		mockTx := &MockTx{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})

		deptRows := NewMockRows([][]interface{}{
			{int64(4), "Support", StringPtr("u-9"), (*string)(nil)},
		}, nil, departmentFieldDescriptions)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), "u-9").Return(deptRows, nil)

		counter := NewMockRow([]interface{}{int64(2)}, nil)
		mockDB.On("BeginTx", mock.Anything, mock.Anything).Return(mockTx, nil)
		mockTx.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), int64(4)).Return(counter)
		mockTx.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), int64(4), today).Return(counter)
		mockTx.On("Commit", mock.Anything).Return(nil)
		mockTx.On("Rollback", mock.Anything).Return(nil)

		controller := NewDashboardController(deps)
		dash, err := controller.ManagerDashboard("u-9", today)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), dash.DepartmentID)
		assert.Equal(t, "Support", dash.DepartmentName)
		assert.Equal(t, int64(2), dash.TotalEmployees)
		assert.Equal(t, int64(2), dash.ActiveEmployees)
		assert.Equal(t, int64(2), dash.AttendedToday)
		assert.Equal(t, int64(2), dash.PendingLeaveRequests)
		assert.Equal(t, int64(2), dash.OnLeaveToday)
		mockDB.AssertExpectations(t)
		mockTx.AssertExpectations(t)
	})
}

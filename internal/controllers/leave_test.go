package controllers

import (
	"testing"
	"time"

	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var leaveApplicationFieldDescriptions = []pgconn.FieldDescription{
	{Name: "leave_id", DataTypeOID: 20},
	{Name: "employee_id", DataTypeOID: 20},
	{Name: "leave_type", DataTypeOID: 25},
	{Name: "start_date", DataTypeOID: 1082},
	{Name: "end_date", DataTypeOID: 1082},
	{Name: "total_days", DataTypeOID: 23},
	{Name: "status", DataTypeOID: 25},
	{Name: "reason", DataTypeOID: 25},
	{Name: "applied_at", DataTypeOID: 1184},
	{Name: "approved_by", DataTypeOID: 2950},
}

func TestTotalLeaveDays(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name        string
		start, end  time.Time
		expected    int
		expectError bool
	}{
		{name: "single day counts as one", start: day(4), end: day(4), expected: 1},
		{name: "both endpoints included", start: day(4), end: day(8), expected: 5},
		{name: "end before start", start: day(8), end: day(4), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := TotalLeaveDays(tt.start, tt.end)
			if tt.expectError {
				assert.ErrorIs(t, err, entity.ErrValidation)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, days)
			}
		})
	}
}

func TestLeaveController_ApplyLeave_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  entity.LeaveRequest
	}{
		{
			name: "unknown leave type",
			req:  entity.LeaveRequest{LeaveType: "sabbatical", StartDate: "2024-03-04", EndDate: "2024-03-05"},
		},
		{
			name: "malformed start date",
			req:  entity.LeaveRequest{LeaveType: "casual", StartDate: "04-03-2024", EndDate: "2024-03-05"},
		},
		{
			name: "malformed end date",
			req:  entity.LeaveRequest{LeaveType: "casual", StartDate: "2024-03-04", EndDate: "tomorrow"},
		},
		{
			name: "end before start",
			req:  entity.LeaveRequest{LeaveType: "casual", StartDate: "2024-03-05", EndDate: "2024-03-04"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := CreateTestDependencies(&MockDB{}, &MockRedis{})
			controller := NewLeaveController(deps)

			_, err := controller.ApplyLeave(7, tt.req)
			assert.ErrorIs(t, err, entity.ErrValidation)
		})
	}
}

func TestLeaveController_ApplyLeave(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})

	appliedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	row := NewMockRow([]interface{}{int64(5), appliedAt}, nil)
	mockDB.On("QueryRow", mock.Anything, mock.AnythingOfType("string"),
		int64(7), "casual", mock.Anything, mock.Anything, 3, (*string)(nil)).Return(row)

	controller := NewLeaveController(deps)
	leave, err := controller.ApplyLeave(7, entity.LeaveRequest{
		LeaveType: "casual",
		StartDate: "2024-03-04",
		EndDate:   "2024-03-06",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(5), leave.LeaveID)
	assert.Equal(t, 3, leave.TotalDays)
	assert.Equal(t, entity.LeavePending, leave.Status)
	assert.Equal(t, appliedAt, leave.AppliedAt)
	mockDB.AssertExpectations(t)
}

func TestLeaveController_GetMyLeaves_Paging(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := NewMockRows([][]interface{}{
		{int64(1), int64(7), "casual", day, day, 1, "approved", (*string)(nil), day, StringPtr("u-1")},
		{int64(2), int64(7), "medical", day, day, 1, "pending", (*string)(nil), day, (*string)(nil)},
		{int64(3), int64(7), "annual", day, day, 1, "pending", (*string)(nil), day, (*string)(nil)},
	}, nil, leaveApplicationFieldDescriptions)
	mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), int64(7), 3).Return(rows, nil)

	controller := NewLeaveController(deps)
	page, err := controller.GetMyLeaves(7, nil, 2)

	assert.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.True(t, page.PageInfo.HasMore)
	assert.Equal(t, "2", *page.PageInfo.NextCursor)
	mockDB.AssertExpectations(t)
}

func TestLeaveController_UpdateLeave_AlreadyProcessed(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})

	mockDB.On("Exec", mock.Anything, mock.AnythingOfType("string"),
		"casual", mock.Anything, mock.Anything, 2, (*string)(nil), int64(5), int64(7)).
		Return(NewMockCommandTag(0), nil)

	controller := NewLeaveController(deps)
	err := controller.UpdateLeave(5, 7, entity.LeaveRequest{
		LeaveType: "casual",
		StartDate: "2024-03-04",
		EndDate:   "2024-03-05",
	})

	assert.ErrorIs(t, err, entity.ErrNotFound)
	mockDB.AssertExpectations(t)
}

func TestLeaveController_ProcessLeave(t *testing.T) {
	admin := &entity.Claims{UserID: "u-1", Role: "admin"}

	t.Run("invalid status", func(t *testing.T) {
		deps := CreateTestDependencies(&MockDB{}, &MockRedis{})
		controller := NewLeaveController(deps)

		err := controller.ProcessLeave(admin, 5, "maybe")
		assert.ErrorIs(t, err, entity.ErrValidation)
	})

	t.Run("of two concurrent decisions only the first hits a pending row", func(t *testing.T) {
		mockDB := &MockDB{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})

		mockDB.On("Exec", mock.Anything, mock.AnythingOfType("string"), "approved", "u-1", int64(5)).
			Return(NewMockCommandTag(1), nil).Once()
		mockDB.On("Exec", mock.Anything, mock.AnythingOfType("string"), "rejected", "u-1", int64(5)).
			Return(NewMockCommandTag(0), nil).Once()

		controller := NewLeaveController(deps)

		assert.NoError(t, controller.ProcessLeave(admin, 5, "approved"))
		assert.ErrorIs(t, controller.ProcessLeave(admin, 5, "rejected"), entity.ErrNotFound)
		mockDB.AssertExpectations(t)
	})

	t.Run("manager decision is scoped to their department", func(t *testing.T) {
		mockDB := &MockDB{}
		deps := CreateTestDependencies(mockDB, &MockRedis{})
		manager := &entity.Claims{UserID: "u-9", Role: "manager"}

		deptRows := NewMockRows([][]interface{}{
			{int64(4), "Support", StringPtr("u-9"), (*string)(nil)},
		}, nil, departmentFieldDescriptions)
		mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), "u-9").Return(deptRows, nil)

		mockDB.On("Exec", mock.Anything, mock.AnythingOfType("string"), "approved", "u-9", int64(5), int64(4)).
			Return(NewMockCommandTag(0), nil)

		controller := NewLeaveController(deps)
		err := controller.ProcessLeave(manager, 5, "approved")

		// A leave outside the department behaves like a missing row.
		assert.ErrorIs(t, err, entity.ErrNotFound)
		mockDB.AssertExpectations(t)
	})
}

func TestLeaveController_DeleteLeave(t *testing.T) {
	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})

	mockDB.On("Exec", mock.Anything, mock.AnythingOfType("string"), int64(5), int64(7)).
		Return(NewMockCommandTag(0), nil)

	controller := NewLeaveController(deps)
	err := controller.DeleteLeave(5, 7)

	assert.ErrorIs(t, err, entity.ErrNotFound)
	mockDB.AssertExpectations(t)
}

var onLeaveFieldDescriptions = []pgconn.FieldDescription{
	{Name: "department_id", DataTypeOID: 20},
	{Name: "department_name", DataTypeOID: 25},
	{Name: "employee_id", DataTypeOID: 20},
	{Name: "first_name", DataTypeOID: 25},
	{Name: "last_name", DataTypeOID: 25},
	{Name: "designation", DataTypeOID: 25},
	{Name: "phone", DataTypeOID: 25},
	{Name: "email", DataTypeOID: 25},
}

func TestLeaveController_GetOnLeaveToday_GroupsByDepartment(t *testing.T) {
	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	mockDB := &MockDB{}
	deps := CreateTestDependencies(mockDB, &MockRedis{})

	rows := NewMockRows([][]interface{}{
		{Int64Ptr(1), StringPtr("Engineering"), int64(7), "Ann", "Lee", StringPtr("Developer"), (*string)(nil), "ann@corp.test"},
		{Int64Ptr(1), StringPtr("Engineering"), int64(8), "Bob", "Ray", (*string)(nil), (*string)(nil), "bob@corp.test"},
		{Int64Ptr(4), StringPtr("Support"), int64(9), "Cid", "Fox", (*string)(nil), (*string)(nil), "cid@corp.test"},
	}, nil, onLeaveFieldDescriptions)
	mockDB.On("Query", mock.Anything, mock.AnythingOfType("string"), date).Return(rows, nil)

	controller := NewLeaveController(deps)
	groups, err := controller.GetOnLeaveToday(date)

	assert.NoError(t, err)
	assert.Len(t, groups, 2)
	assert.Equal(t, "Engineering", *groups[0].DepartmentName)
	assert.Len(t, groups[0].UsersOnLeave, 2)
	assert.Equal(t, "Support", *groups[1].DepartmentName)
	assert.Len(t, groups[1].UsersOnLeave, 1)
	assert.Equal(t, int64(9), groups[1].UsersOnLeave[0].EmployeeID)
	mockDB.AssertExpectations(t)
}

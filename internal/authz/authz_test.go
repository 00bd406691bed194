package authz

import (
	"testing"

	"github.com/hrmstack/hrm-service/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "manager", "employee"} {
		role, err := ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "superuser", "Admin", "hr"} {
		_, err := ParseRole(invalid)
		assert.ErrorIs(t, err, entity.ErrValidation)
	}
}

func TestRequire(t *testing.T) {
	tests := []struct {
		name        string
		role        string
		allowed     Allowed
		expectError bool
	}{
		{name: "admin on admin-only", role: "admin", allowed: AdminOnly},
		{name: "manager on admin-only", role: "manager", allowed: AdminOnly, expectError: true},
		{name: "employee on admin-only", role: "employee", allowed: AdminOnly, expectError: true},
		{name: "manager on staff", role: "manager", allowed: Staff},
		{name: "employee on staff", role: "employee", allowed: Staff, expectError: true},
		{name: "employee on everyone", role: "employee", allowed: Everyone},
		{name: "unknown role fails closed", role: "superuser", allowed: Everyone, expectError: true},
		{name: "empty role fails closed", role: "", allowed: Everyone, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Require(tt.role, tt.allowed)
			if tt.expectError {
				assert.ErrorIs(t, err, entity.ErrPermissionDenied)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

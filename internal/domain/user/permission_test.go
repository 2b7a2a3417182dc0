package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleManager, PermissionAttendanceGenerate))
	assert.True(t, HasPermission(RoleOwner, PermissionAttendanceImport))
	assert.True(t, HasPermission(RoleEmployee, PermissionAttendanceCreate))
	assert.False(t, HasPermission(RoleEmployee, PermissionAttendanceViewAll))
	assert.False(t, HasPermission(Role("guest"), PermissionAttendanceViewOwn))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("manager")
	assert.NoError(t, err)
	assert.Equal(t, RoleManager, r)

	_, err = ParseRole("pending")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestPrincipal_IsManager(t *testing.T) {
	assert.True(t, Principal{Role: RoleOwner}.IsManager())
	assert.True(t, Principal{Role: RoleManager}.IsManager())
	assert.False(t, Principal{Role: RoleEmployee}.IsManager())
	assert.True(t, Principal{Role: RoleOwner}.IsOwner())
}

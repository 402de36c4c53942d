package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"viewer", "editor", "admin", "owner", "super_admin"} {
		role, err := ParseRole(raw)
		require.NoError(t, err)
		assert.Equal(t, Role(raw), role)
	}

	for _, raw := range []string{"", "superadmin", "Viewer", "root"} {
		_, err := ParseRole(raw)
		assert.Error(t, err, "role %q must be rejected", raw)
	}
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleSuperAdmin.AtLeast(RoleViewer))
	assert.True(t, RoleEditor.AtLeast(RoleEditor))
	assert.True(t, RoleOwner.AtLeast(RoleAdmin))
	assert.False(t, RoleViewer.AtLeast(RoleEditor))
	assert.False(t, RoleAdmin.AtLeast(RoleOwner))
}

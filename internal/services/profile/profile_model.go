package profile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles a profile can carry. Raw strings from the
// wire must go through ParseRole so unknown values are rejected at the edge.
type Role string

const (
	RoleViewer     Role = "viewer"
	RoleEditor     Role = "editor"
	RoleAdmin      Role = "admin"
	RoleOwner      Role = "owner"
	RoleSuperAdmin Role = "super_admin"
)

// roleRank orders roles by capability. Membership in this table is also the
// validity check.
var roleRank = map[Role]int{
	RoleViewer:     0,
	RoleEditor:     1,
	RoleAdmin:      2,
	RoleOwner:      3,
	RoleSuperAdmin: 4,
}

func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r has at least the capability of other.
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

// Profile is the internal user record, distinct from the external identity.
// ID is the auth provider's user id. TenantID is null for super admins that
// operate across tenants.
type Profile struct {
	ID           string        `db:"id" json:"id"`
	Email        string        `db:"email" json:"email"`
	FullName     string        `db:"full_name" json:"full_name"`
	PasswordHash *string       `db:"password_hash" json:"-"`
	Role         Role          `db:"role" json:"role"`
	TenantID     uuid.NullUUID `db:"tenant_id" json:"tenant_id"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

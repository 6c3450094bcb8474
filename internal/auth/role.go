// Package auth implements the role model and claim-augmentation
// described in spec §4.6 and §6: a bearer token is verified against an
// external identity service, then augmented by a database lookup that
// supplies role, company scope, and an access-revocation gate. Nothing
// in this package touches HTTP directly; pkg/api/middleware wires it
// to the request pipeline.
package auth

// Role names one of the six caller roles spec §4.6 defines. AFU roles
// are internal staff; AFC roles are external, company-scoped users.
type Role string

const (
	RoleAFUAdmin  Role = "AFU-ADMIN"
	RoleAFUSM     Role = "AFU-SM"
	RoleAFUSE     Role = "AFU-SE"
	RoleAFCAdmin  Role = "AFC-ADMIN"
	RoleAFCM      Role = "AFC-M"
	RoleAFCRegular Role = "AFC-REGULAR"
)

// IsAFU reports whether r is one of the internal staff roles.
func (r Role) IsAFU() bool {
	switch r {
	case RoleAFUAdmin, RoleAFUSM, RoleAFUSE:
		return true
	default:
		return false
	}
}

// IsAFC reports whether r is one of the external company roles.
func (r Role) IsAFC() bool {
	return !r.IsAFU()
}

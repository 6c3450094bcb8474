package auth

import (
	"context"
	"strings"

	"github.com/affreight/shipengine/internal/apperrors"
)

// Identity is the output of the external identity service round trip:
// just enough to key the database lookup that follows.
type Identity struct {
	UID   string
	Email string
}

// Record is the output of the database lookup that augments a
// verified Identity with role, company scope, and the access-
// revocation gate (spec §6 "verified claims are augmented by a
// database lookup").
type Record struct {
	Role          Role
	CompanyID     string
	AccessGranted bool
}

// Claims is the fully-resolved caller identity a handler consults:
// who they are, what role they hold, which company scopes them (empty
// for AFU staff), and whether the static super-admin list overrides
// their role for permission purposes.
type Claims struct {
	UID        string
	Email      string
	Role       Role
	CompanyID  string
	SuperAdmin bool
}

// IsAFU reports whether the caller is internal staff, including every
// super-admin regardless of their looked-up role.
func (c Claims) IsAFU() bool {
	return c.SuperAdmin || c.Role.IsAFU()
}

// IsAFC reports whether the caller is an external company user.
func (c Claims) IsAFC() bool {
	return !c.IsAFU()
}

// Scope returns the company_id a caller's reads/writes are restricted
// to, or "" for AFU staff and super-admins (unscoped).
func (c Claims) Scope() string {
	if c.IsAFU() {
		return ""
	}
	return c.CompanyID
}

// Verifier checks a bearer token against the external identity
// service and returns the identity it asserts.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Augmenter looks up the role, company scope, and access-revocation
// gate for a verified identity.
type Augmenter interface {
	Augment(ctx context.Context, identity Identity) (Record, error)
}

// SuperAdmins is the small static list of emails spec §4.6 describes,
// matched case-insensitively.
type SuperAdmins []string

// Contains reports whether email is on the list.
func (s SuperAdmins) Contains(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range s {
		if strings.ToLower(a) == email {
			return true
		}
	}
	return false
}

// Authenticator composes token verification, claim augmentation, and
// the super-admin override into the single Authenticate call the HTTP
// middleware needs.
type Authenticator struct {
	verifier    Verifier
	augmenter   Augmenter
	superAdmins SuperAdmins
}

// New builds an Authenticator from its three collaborators.
func New(verifier Verifier, augmenter Augmenter, superAdmins SuperAdmins) *Authenticator {
	return &Authenticator{verifier: verifier, augmenter: augmenter, superAdmins: superAdmins}
}

// Authenticate runs the full spec §6 pipeline: verify the token,
// augment with role/scope/gate, reject a revoked account with
// FORBIDDEN, and fold in the super-admin override.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (Claims, error) {
	if token == "" {
		return Claims{}, apperrors.NewForbiddenError("missing bearer token")
	}

	identity, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return Claims{}, apperrors.Wrap(err, apperrors.ErrorTypeForbidden, "token verification failed")
	}

	record, err := a.augmenter.Augment(ctx, identity)
	if err != nil {
		return Claims{}, err
	}
	if !record.AccessGranted {
		return Claims{}, apperrors.NewForbiddenError("access revoked")
	}

	return Claims{
		UID:        identity.UID,
		Email:      identity.Email,
		Role:       record.Role,
		CompanyID:  record.CompanyID,
		SuperAdmin: a.superAdmins.Contains(identity.Email),
	}, nil
}

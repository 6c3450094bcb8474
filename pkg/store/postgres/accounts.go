package postgres

import (
	"context"
	"database/sql"

	"github.com/affreight/shipengine/internal/auth"
)

type accountRow struct {
	Role          string `db:"role"`
	CompanyID     string `db:"company_id"`
	AccessGranted bool   `db:"access_granted"`
}

// Augment implements auth.Augmenter: it looks up the role, company
// scope, and access-revocation gate for a verified identity (spec §6
// "verified claims are augmented by a database lookup"). A missing
// row means the account has never been provisioned, which is treated
// as access-revoked rather than a server error.
func (s *Store) Augment(ctx context.Context, identity auth.Identity) (auth.Record, error) {
	var row accountRow
	err := s.db.GetContext(ctx, &row,
		`SELECT role, company_id, access_granted FROM account_access WHERE uid = $1`, identity.UID)
	if err == sql.ErrNoRows {
		return auth.Record{AccessGranted: false}, nil
	}
	if err != nil {
		return auth.Record{}, mapNoRows(err, "account")
	}
	return auth.Record{
		Role:          auth.Role(row.Role),
		CompanyID:     row.CompanyID,
		AccessGranted: row.AccessGranted,
	}, nil
}

var _ auth.Augmenter = (*Store)(nil)

// Package migrations embeds the goose-format SQL migration files so
// cmd/schema can apply them without depending on a filesystem path at
// deploy time.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

package migrations

import "embed"

// FS contains embedded Postgres migrations for the transfer store.
//
//go:embed *.sql
var FS embed.FS

// Package migrations embeds the SQL schema migrations applied by cmd/migrate
// and by the integration test harness.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file in this directory.
//
//go:embed *.sql
var FS embed.FS

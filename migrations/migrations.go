// Package migrations embeds the SQL schema migrations applied by goose.
package migrations

import "embed"

// Migrations holds every *.sql migration file.
//
//go:embed *.sql
var Migrations embed.FS

// Package migrations embeds the goose SQL migrations for the board database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

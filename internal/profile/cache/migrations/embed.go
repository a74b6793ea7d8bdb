// Package migrations embeds the goose migrations for the offline field
// cache.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS

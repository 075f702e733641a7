// Package migrations holds the versioned database schema
package migrations

import "embed"

// FS contains every *.sql migration, compiled into the binary
//
//go:embed *.sql
var FS embed.FS

// Package migrations bundles the goose SQL files into the binary.
// Files are named <timestamp>_<description>.sql and applied in version order.
package migrations

import "embed"

// FS holds every migration file at its root.
//
//go:embed *.sql
var FS embed.FS

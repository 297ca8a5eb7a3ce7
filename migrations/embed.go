// Package migrations embeds the goose SQL migrations so the binary and the
// e2e harness apply the same files regardless of working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Package migrations embeds the versioned schema of the flightsync database.
//
// Files are named NNN_description.up.sql / NNN_description.down.sql and are
// applied in version order by the sqlite store.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS

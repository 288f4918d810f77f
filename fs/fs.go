// Package appfs embeds the files shipped with the binaries.
package appfs

import "embed"

// FS holds one goose migration directory per database engine: migrations/postgres and migrations/sqlite.
//
//go:embed migrations
var FS embed.FS

package migrations

import "embed"

// Migrations holds the golang-migrate SQL files for the credential database.
//
//go:embed *.sql
var Migrations embed.FS

// Package migrations embeds the SQL schema so the binary is self-contained.
package migrations

import _ "embed"

//go:embed 001_initial_schema.sql
var InitialSchema string

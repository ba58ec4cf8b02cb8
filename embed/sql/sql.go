// Package sql embeds the database bootstrap schema.
package sql

import _ "embed"

//go:embed schema.sql
var Schema string

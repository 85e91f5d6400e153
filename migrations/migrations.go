// Package migrations содержит SQL миграции схемы БД,
// встроенные в бинарь через embed
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

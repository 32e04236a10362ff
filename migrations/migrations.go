// Package migrations embebe los .sql para correrlos con golang-migrate
// desde el binario, sin depender de archivos sueltos en el deploy.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

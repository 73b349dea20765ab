package templates

import "embed"

//go:embed index.html
var IndexHTML string

//go:embed static
var StaticContent embed.FS

package assets

import "embed"

// FS holds the page templates and the static files served under /static.
//
//go:embed all:templates static
var FS embed.FS

const (
	TemplatesDir = "templates"
	StaticDir    = "static"
)

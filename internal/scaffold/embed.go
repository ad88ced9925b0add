package scaffold

import (
	"embed"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// templates holds every file skeleton, keyed by base name (layout.Template*).
var templates = template.Must(
	template.New("scaffold").Option("missingkey=error").ParseFS(templateFS, "templates/*.tmpl"),
)

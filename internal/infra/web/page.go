package web

import (
	"embed"
	"html/template"
)

//go:embed templates/index.html
var templatesFS embed.FS

// pageTemplate is the name the page is registered under on the engine.
const pageTemplate = "index.html"

type pageData struct {
	Title     string
	AboutURL  string
	Upload    bool
	Turns     []turnView
	SessionID string
}

func parsePage() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/index.html")
}

// Package web carries the embedded browser assets: HTML templates for the
// login, register and home pages plus the static JS that drives them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the static asset tree rooted at its contents, suitable for
// http.FileServerFS behind a /static/ prefix.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embed layout is fixed at build time
	}
	return sub
}

// Templates holds the parsed page templates.
type Templates struct {
	pages *template.Template
}

// NewTemplates parses every embedded page template.
func NewTemplates() (*Templates, error) {
	pages, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{pages: pages}, nil
}

// Render executes the named page template.
func (t *Templates) Render(w io.Writer, name string, data any) error {
	return t.pages.ExecuteTemplate(w, name, data)
}

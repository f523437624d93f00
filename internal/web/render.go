package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/desertthunder/watchlist/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"index.html", "edit.html", "settings.html", "login.html", "errors.html"}

// templates holds one template set per page, each parsed together with base.html.
type templates struct {
	pages map[string]*template.Template
}

func parseTemplates() (*templates, error) {
	t := &templates{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

func (t *templates) execute(buf *bytes.Buffer, name string, data any) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(buf, "base", data)
}

// page is the data every template receives.
type page struct {
	Request *Request
	Flashes []string

	Movies []*models.Movie
	Movie  *models.Movie

	Status  int
	Message string
}

// render executes the named page into a buffer and writes it with status.
//
// Flashes are popped first so their session update lands in the response headers.
func (a *App) render(w http.ResponseWriter, r *http.Request, status int, name string, data page) error {
	flashes, err := a.auth.Flashes(w, r)
	if err != nil {
		return err
	}

	data.Request = RequestFrom(r.Context())
	data.Flashes = flashes

	var buf bytes.Buffer
	if err := a.templates.execute(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Debug("failed to write response", "page", name, "error", err)
	}
	return nil
}

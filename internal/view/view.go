// Package view renders the HTML pages of the application.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/saulo-duarte/strive/internal/session"
)

const (
	Login       = "login"
	Register    = "register"
	Categories  = "categories"
	Dashboard   = "dashboard"
	GoalForm    = "goal_form"
	GoalDetails = "goal_details"
	Error       = "error"
)

//go:embed templates/*.html
var templateFS embed.FS

// Data is what every page receives. Page holds the view specific payload.
type Data struct {
	Title    string
	Username string
	Flash    *session.Flash
	Error    string
	Page     interface{}
}

type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data Data) error
}

type templateRenderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"idstr": func(id uint) string {
		if id == 0 {
			return ""
		}
		return strconv.FormatUint(uint64(id), 10)
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// NewRenderer parses every page against the shared layout once.
func NewRenderer() (Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (Renderer, error) {
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template)
	for _, path := range names {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		if name == "layout" {
			continue
		}
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "templates/layout.html", path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &templateRenderer{pages: pages}, nil
}

// Render executes into a buffer first so a template failure never leaves a
// half written page behind.
func (r *templateRenderer) Render(w http.ResponseWriter, status int, name string, data Data) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown view %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

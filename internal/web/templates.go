package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/lostfound/internal/auth"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/report"
	webembed "github.com/erazemk/lostfound/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"roleAtLeast": model.RoleAtLeast,
		"score": func(v float64) string {
			return fmt.Sprintf("%.2f", v)
		},
		"percent": func(v *float64) string {
			if v == nil {
				return "n/a"
			}
			return fmt.Sprintf("%.0f%%", *v*100)
		},
		"coord": func(v *float64) string {
			if v == nil {
				return "unknown"
			}
			return fmt.Sprintf("%.5f", *v)
		},
		"date": func(t time.Time) string {
			return t.Local().Format("2 Jan 2006 15:04")
		},
		"statusName": func(status string) string {
			switch status {
			case model.ItemStatusOpen:
				return "Open"
			case model.ItemStatusClaimed:
				return "Claimed"
			case model.ItemStatusClosed:
				return "Closed"
			default:
				return status
			}
		},
	}
}

// pages are rendered inside layout.html. bare pages are complete
// documents of their own.
var (
	pages = []string{
		"home.html",
		"login.html",
		"signup.html",
		"found.html",
		"lost.html",
		"map.html",
		"match.html",
		"profile.html",
	}
	barePages = []string{
		"picker.html",
	}
)

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs, err := webembed.TemplatesFS()
	if err != nil {
		return nil, err
	}

	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, name := range pages {
		pageBytes, err := fs.ReadFile(tfs, name)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}

		tmpl := template.New(name).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", name, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}

		ts.templates[name] = tmpl
	}

	for _, name := range barePages {
		tmpl, err := template.New(name).Funcs(FuncMap()).ParseFS(tfs, name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		ts.templates[name] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with a non-default status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	root := "layout"
	if tmpl.Lookup(root) == nil {
		root = name
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, root, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	User    *auth.Claims
	Error   string
	Success string
}

// Server holds all dependencies for page handlers.
type Server struct {
	DB        *sql.DB
	Templates *Templates
	JWTSecret string
	TokenTTL  time.Duration
	Reports   *report.Service
	Drafts    *report.Drafts
	MapCenter model.PickedLocation
	MapZoom   int
}

func (s *Server) pageData(r *http.Request, title string) PageData {
	var user *auth.Claims
	if sess := auth.SessionFrom(r.Context()); sess.Authenticated() {
		user = sess.Claims
	}
	return PageData{Title: title, User: user}
}

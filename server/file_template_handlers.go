package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/jrsteele09/go-flight-admin/flights"
	"github.com/jrsteele09/go-flight-admin/guard"
	"github.com/jrsteele09/go-flight-admin/roles"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const layoutTemplate = "layout.html"

// Template functions available in all templates.
var templateFuncs = template.FuncMap{
	"duration": func(d flights.Duration) string {
		if d == 0 {
			return "-"
		}
		return d.String()
	},
	"minutes": func(d flights.Duration) int {
		return d.Minutes()
	},
	"hoursPart": func(d flights.Duration) int {
		return d.Minutes() / 60
	},
	"minutesPart": func(d flights.Duration) int {
		return d.Minutes() % 60
	},
	"airport": func(a *flights.Airport) string {
		if a == nil {
			return "-"
		}
		return fmt.Sprintf("%s (%s)", a.Nombre, a.Ciudad)
	},
	"airline": func(a *flights.Airline) string {
		if a == nil {
			return "-"
		}
		return fmt.Sprintf("%s [%s]", a.Nombre, a.Codigo)
	},
	"fieldError": func(fields map[string]string, name string) string {
		return fields[name]
	},
}

func TemplateFilesFS() fs.FS {
	// Create the sub filesystem once
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a template from the embedded filesystem
func ParseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(TemplateFilesFS(), name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Funcs(templateFuncs).Parse(string(content))
}

// parsePages parses every embedded template up front so a broken template
// fails start-up rather than a request.
func parsePages() (map[string]*template.Template, error) {
	names, err := fs.Glob(TemplateFilesFS(), "*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pages[path.Base(name)] = tmpl
	}
	if _, ok := pages[layoutTemplate]; !ok {
		return nil, fmt.Errorf("%s is missing", layoutTemplate)
	}
	return pages, nil
}

// page describes one rendered view: a content template placed in the layout.
type page struct {
	Title    string
	Tab      string // active navigation entry
	Template string // content template
	Data     any
	Error    string // page-level error, defaults to the ?error= query
	Notice   string // informational message, defaults to the ?notice= query
}

type navItem struct {
	Tab   string
	Label string
	Path  string
}

var (
	adminNav = []navItem{
		{Tab: "flights", Label: "Flights", Path: RouteAdminFlights},
		{Tab: "layovers", Label: "Layovers", Path: RouteAdminLayovers},
		{Tab: "airports", Label: "Airports", Path: RouteAdminAirports},
		{Tab: "airlines", Label: "Airlines", Path: RouteAdminAirlines},
	}
	userNav = []navItem{
		{Tab: "reservations", Label: "My reservations", Path: RouteUserReservations},
		{Tab: "airports", Label: "Airports", Path: RouteUserAirports},
		{Tab: "airlines", Label: "Airlines", Path: RouteUserAirlines},
	}
)

// renderPage renders p's content template inside the site layout
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, p page) {
	contentTmpl, ok := s.pages[p.Template]
	if !ok {
		log.Error().Str("template", p.Template).Msg("unknown content template")
		http.Error(w, "Failed to load content template", http.StatusInternalServerError)
		return
	}

	// Render content to string
	var contentBuf strings.Builder
	if err := contentTmpl.Execute(&contentBuf, p.Data); err != nil {
		log.Err(err).Str("template", p.Template).Msg("Failed to render content")
		http.Error(w, "Failed to render content", http.StatusInternalServerError)
		return
	}

	if p.Error == "" {
		p.Error = r.URL.Query().Get("error")
	}
	if p.Notice == "" {
		p.Notice = r.URL.Query().Get("notice")
	}

	data := map[string]interface{}{
		"AppName":  s.config.GetAppName(),
		"Title":    p.Title,
		"Tab":      p.Tab,
		"Error":    p.Error,
		"Notice":   p.Notice,
		"LoggedIn": false,
		"Content":  template.HTML(contentBuf.String()),
	}
	if mgr := sessionFrom(r.Context()); mgr != nil {
		if role, ok := mgr.CurrentRole(); ok {
			data["LoggedIn"] = true
			data["Email"] = mgr.Email()
			data["Role"] = role.String()
			data["Home"] = guard.HomeFor(role)
			if role == roles.Admin {
				data["Nav"] = adminNav
			} else {
				data["Nav"] = userNav
			}
		}
	}

	var out bytes.Buffer
	if err := s.pages[layoutTemplate].Execute(&out, data); err != nil {
		log.Err(err).Msg("Failed to render layout")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = out.WriteTo(w)
}

// Package handler contains the HTTP layer: form parsing, template
// rendering, redirects, and the mapping of domain errors to status pages.
// Business rules live in the service layer; nothing here touches SQL.
package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

// funcMap exposes the helpers the templates use.
var funcMap = template.FuncMap{
	"timeAgo": TimeAgo,
	"nl2br":   Nl2br,
}

// Renderer holds the parsed page templates. Every page is parsed together
// with base.html, so each entry in the map is a complete template set; a
// page cannot accidentally render without the layout.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewRenderer parses every page template under dir. Pages are addressed by
// file name, e.g. "event.html". Fails fast at startup on a parse error
// rather than at first render.
func NewRenderer(dir string, logger *slog.Logger) (*Renderer, error) {
	base := filepath.Join(dir, "base.html")

	pageFiles, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("handler: globbing templates in %s: %w", dir, err)
	}

	pages := make(map[string]*template.Template)
	for _, file := range pageFiles {
		name := filepath.Base(file)
		if name == "base.html" {
			continue
		}
		tmpl, err := template.New(name).Funcs(funcMap).ParseFiles(base, file)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("handler: no page templates found in %s", dir)
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render executes a page template. Data is a map so handlers can build up
// view state incrementally (viewer, flash message, form values).
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		// Headers are already sent; all we can do is log.
		rd.logger.Error("template execution failed",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// TimeAgo renders a comment timestamp the way the message wall shows it:
// "3 days ago", "2 hours ago", "5 minutes ago", or "just now".
func TimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d >= 24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	case d >= time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case d >= time.Minute:
		minutes := int(d.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	default:
		return "just now"
	}
}

// Nl2br turns newlines into <br> for the event description. The input is
// escaped first, so marking the result as safe HTML cannot smuggle markup.
func Nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// Templates holds one parsed template set per page. Each page file defines a
// "content" block that plugs into base.html — Go's template composition
// model — so every page must be parsed together with the base, but pages
// must be parsed apart from each other (they all define the same block).
type Templates struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewTemplates parses base.html plus each named page file from dir.
// Parsing happens once at startup; a broken template fails the boot rather
// than the first request.
func NewTemplates(dir string, logger *slog.Logger, pages ...string) (*Templates, error) {
	t := &Templates{
		pages:  make(map[string]*template.Template, len(pages)),
		logger: logger,
	}
	base := filepath.Join(dir, "base.html")

	for _, page := range pages {
		tmpl, err := template.ParseFiles(base, filepath.Join(dir, page+".html"))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		t.pages[page] = tmpl
	}

	return t, nil
}

// render executes a page's "base" template with the given data.
// Template failures after headers are out can't be recovered, so we log and
// send a plain 500 — by then the body may be half-written, but that is the
// nature of streaming template execution.
func (t *Templates) render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := t.pages[page]
	if !ok {
		t.logger.Error("unknown template requested", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		t.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

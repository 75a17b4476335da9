// Package render turns report views into static HTML. Templates are
// embedded; a file with the same name in the override directory replaces
// the embedded one.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
)

//go:embed templates/*.html templates/*.css
var embedded embed.FS

const (
	TemplateCombined    = "combined.html"
	TemplatePremarket   = "premarket.html"
	TemplateOptions     = "options.html"
	TemplateReports     = "reports.html"
	TemplatePlaceholder = "placeholder.html"
	Stylesheet          = "styles.css"
)

// Page is the data every report template executes against.
type Page struct {
	*models.ReportView
	Kind models.ReportType
}

// ReportsPage is the data for the history listing.
type ReportsPage struct {
	Groups []DateGroup
}

// DateGroup is every report rendered for one date.
type DateGroup struct {
	Date    string
	Reports []models.ReportEntry
}

type Renderer struct {
	tmpl        *template.Template
	overrideDir string
}

// New parses the embedded templates, then any *.html in overrideDir.
func New(overrideDir string) (*Renderer, error) {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(sub, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}

	if overrideDir != "" {
		matches, err := filepath.Glob(filepath.Join(overrideDir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("glob overrides: %w", err)
		}
		if len(matches) > 0 {
			if tmpl, err = tmpl.ParseFiles(matches...); err != nil {
				return nil, fmt.Errorf("parse override templates: %w", err)
			}
		}
	}
	return &Renderer{tmpl: tmpl, overrideDir: overrideDir}, nil
}

// Render executes the named template.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Stylesheet returns styles.css, preferring the override directory.
func (r *Renderer) Stylesheet() ([]byte, error) {
	if r.overrideDir != "" {
		if b, err := os.ReadFile(filepath.Join(r.overrideDir, Stylesheet)); err == nil {
			return b, nil
		}
	}
	return embedded.ReadFile("templates/" + Stylesheet)
}

// GroupByDate keeps the order of entries, which are expected newest first.
func GroupByDate(entries []models.ReportEntry) []DateGroup {
	var groups []DateGroup
	for _, e := range entries {
		if n := len(groups); n > 0 && groups[n-1].Date == e.Date {
			groups[n-1].Reports = append(groups[n-1].Reports, e)
			continue
		}
		groups = append(groups, DateGroup{Date: e.Date, Reports: []models.ReportEntry{e}})
	}
	return groups
}

// Package web holds the HTML templates and their echo renderer.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/suteetoe/marketplace/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

const layout = "templates/layout.html"

var funcs = template.FuncMap{
	"money":    func(v float64) string { return decimal.NewFromFloat(v).StringFixed(2) },
	"amount":   func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":     func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04") },
	"statuses": func() []model.OrderStatus { return model.OrderStatuses },
}

// Renderer renders a page inside the shared layout
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every page template with the layout
func NewRenderer() (*Renderer, error) {
	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{templates: map[string]*template.Template{}}
	for _, page := range pages {
		if page == layout {
			continue
		}
		tmpl, err := template.New(path.Base(layout)).Funcs(funcs).ParseFS(templateFS, layout, page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}
		r.templates[path.Base(page)] = tmpl
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, path.Base(layout), data)
}

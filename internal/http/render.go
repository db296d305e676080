package http

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jmehdipour/churnctl/internal/export"
	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageRenderer holds one template set per page so each can define its own body.
type pageRenderer struct {
	pages map[string]*template.Template
}

func newPageRenderer() *pageRenderer {
	funcs := template.FuncMap{
		"fmtRate": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
		"fmtTime": func(t time.Time) string { return t.UTC().Format(export.CanceledTimeLayout) },
	}
	r := &pageRenderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{"index.html", "report.html"} {
		r.pages[page] = template.Must(template.New(page).Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page))
	}
	return r
}

func (r *pageRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "unknown template "+name)
	}
	return t.ExecuteTemplate(w, name, data)
}

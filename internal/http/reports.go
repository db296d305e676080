package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jmehdipour/churnctl/internal/cohort"
	"github.com/jmehdipour/churnctl/internal/export"
	"github.com/jmehdipour/churnctl/internal/ingest"
	"github.com/jmehdipour/churnctl/internal/model"
	"github.com/jmehdipour/churnctl/internal/service/analysis"
	"github.com/jmehdipour/churnctl/internal/store"
	"github.com/jmehdipour/churnctl/internal/util"
	"github.com/labstack/echo/v4"
)

const uploadSource = "upload"

type reportHandlers struct {
	svc    *analysis.Service
	store  store.Store
	schema ingest.Schema
	files  export.FileNames
	chart  export.ChartOptions
}

type indexData struct {
	Columns string
	Error   string
}

type reportData struct {
	Report *model.Report
}

func (h *reportHandlers) indexPage(msg string) indexData {
	return indexData{Columns: strings.Join(h.schema.Columns(), ", "), Error: msg}
}

func (h *reportHandlers) index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", h.indexPage(""))
}

// analyzeUpload runs the analysis on the multipart "file" field and stores the report.
func (h *reportHandlers) analyzeUpload(c echo.Context) (*model.Report, int, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("no file uploaded")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	report, err := h.svc.AnalyzeCSV(c.Request().Context(), uploadSource, f, h.schema)
	if err != nil {
		return nil, statusOf(err), err
	}
	if err := h.store.Put(c.Request().Context(), report); err != nil {
		c.Logger().Errorf("store report %s: %v", report.ID, err)
		return nil, http.StatusInternalServerError, errors.New("could not store report")
	}
	return report, http.StatusCreated, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, cohort.ErrNoValidRecords), errors.Is(err, cohort.ErrRangeInFuture):
		return http.StatusUnprocessableEntity
	case analysis.IsInputError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *reportHandlers) upload(c echo.Context) error {
	report, status, err := h.analyzeUpload(c)
	if err != nil {
		if status == http.StatusInternalServerError {
			c.Logger().Errorf("analyze upload: %v", err)
			return c.Render(status, "index.html", h.indexPage("analysis failed"))
		}
		return c.Render(status, "index.html", h.indexPage(err.Error()))
	}
	return c.Redirect(http.StatusSeeOther, "/reports/"+report.ID)
}

func (h *reportHandlers) apiUpload(c echo.Context) error {
	report, status, err := h.analyzeUpload(c)
	if err != nil {
		if status == http.StatusInternalServerError {
			c.Logger().Errorf("analyze upload: %v", err)
			return c.JSON(status, map[string]string{"error": "analysis failed"})
		}
		return c.JSON(status, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, report)
}

// load resolves :id into a stored report or an HTTP error.
func (h *reportHandlers) load(c echo.Context) (*model.Report, error) {
	id := c.Param("id")
	if !util.ValidID(id) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	r, err := h.store.Get(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	if err != nil {
		c.Logger().Errorf("load report %s: %v", id, err)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "query failed")
	}
	return r, nil
}

func (h *reportHandlers) page(c echo.Context) error {
	r, err := h.load(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "report.html", reportData{Report: r})
}

func (h *reportHandlers) apiReport(c echo.Context) error {
	r, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *reportHandlers) monthlyCSV(c echo.Context) error {
	return h.download(c, h.files.Monthly, "text/csv; charset=utf-8", func(w io.Writer, r *model.Report) error {
		return export.WriteMonthlyCSV(w, r.Months)
	})
}

func (h *reportHandlers) canceledCSV(c echo.Context) error {
	return h.download(c, h.files.Canceled, "text/csv; charset=utf-8", func(w io.Writer, r *model.Report) error {
		return export.WriteCanceledCSV(w, r.Canceled)
	})
}

func (h *reportHandlers) chartPNG(c echo.Context) error {
	return h.download(c, "", "image/png", func(w io.Writer, r *model.Report) error {
		return export.RenderChart(w, r.Months, h.chart)
	})
}

// download renders one artifact; a non-empty filename makes it an attachment.
func (h *reportHandlers) download(c echo.Context, filename, contentType string, write func(io.Writer, *model.Report) error) error {
	r, err := h.load(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := write(&buf, r); err != nil {
		c.Logger().Errorf("render %s for %s: %v", contentType, r.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "render failed")
	}
	if filename != "" {
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

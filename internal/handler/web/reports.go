package web

import (
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/internal/render"
	"github.com/Kiwitwitter/daily-finance/internal/usecase"
	xhttp "github.com/Kiwitwitter/daily-finance/pkg/http"
	xlogger "github.com/Kiwitwitter/daily-finance/pkg/logger"
)

const Version = "1.0.0"

// ReportsHandler serves the rendered reports from the output directory.
type ReportsHandler struct {
	logger   *xlogger.Logger
	index    *usecase.ReportIndex
	renderer *render.Renderer
	now      func() time.Time
}

func NewReportsHandler(logger *xlogger.Logger, index *usecase.ReportIndex, renderer *render.Renderer) *ReportsHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ReportsHandler{logger: logger.Component("web"), index: index, renderer: renderer, now: time.Now}
}

func (h *ReportsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/report/:date", h.Report)
	e.GET("/reports", h.Reports)
	e.GET("/api/reports", h.APIReports)
	e.GET("/health", h.Health)
	e.Static("/assets", filepath.Join(h.index.OutputDir(), "assets"))
}

// Index serves the latest report, or a placeholder before the first build.
func (h *ReportsHandler) Index(c echo.Context) error {
	if p, ok := h.index.Latest(); ok {
		return c.File(p)
	}
	page, err := h.renderer.Render(render.TemplatePlaceholder, nil)
	if err != nil {
		h.logger.Error("placeholder render error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func (h *ReportsHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.BindAndValidate(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p, err := h.index.Find(req.Date, models.ReportType(req.ReportType))
	switch {
	case errors.Is(err, models.ErrInvalidDate):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid date format, use YYYY-MM-DD").WithError(err))
	case errors.Is(err, models.ErrReportNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("report for %s not found", req.Date))
	case err != nil:
		h.logger.Error("report lookup error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return c.File(p)
}

// Reports renders the history page grouped by date.
func (h *ReportsHandler) Reports(c echo.Context) error {
	entries, err := h.index.List()
	if err != nil {
		h.logger.Error("report list error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	page, err := h.renderer.Render(render.TemplateReports, render.ReportsPage{Groups: render.GroupByDate(entries)})
	if err != nil {
		h.logger.Error("reports render error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func (h *ReportsHandler) APIReports(c echo.Context) error {
	entries, err := h.index.List()
	if err != nil {
		h.logger.Error("report list error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	if entries == nil {
		entries = []models.ReportEntry{}
	}
	return c.JSON(http.StatusOK, models.ReportsListResponse{Reports: entries})
}

func (h *ReportsHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().Format(time.RFC3339),
		Version:   Version,
	})
}

package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	mw "github.com/suteetoe/marketplace/internal/middleware"
	"github.com/suteetoe/marketplace/internal/service"
	"github.com/suteetoe/marketplace/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) Reports(c echo.Context) error {
	return h.render(c, "reports.html", nil)
}

// ReportData serves the dashboard JSON
func (h *Handler) ReportData(c echo.Context) error {
	log := logger.FromEcho(c)

	report, err := h.svc.ComputeReport(c.Request().Context(), mw.CurrentIdentity(c))
	if errors.Is(err, service.ErrForbidden) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}
	if err != nil {
		log.Error("Failed to compute report", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute report"})
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) ExportCSV(c echo.Context) error {
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(c.Request().Context(), mw.CurrentIdentity(c), &buf); err != nil {
		return h.fail(c, err, "/")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=sales.csv")
	return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
}

package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	mw "github.com/suteetoe/marketplace/internal/middleware"
)

func (h *Handler) AdminDashboard(c echo.Context) error {
	stats, err := h.svc.AdminStats(c.Request().Context(), mw.CurrentIdentity(c))
	if err != nil {
		return h.fail(c, err, "/")
	}
	return h.render(c, "admin_dashboard.html", echo.Map{"Stats": stats})
}

// AuditLog lists recent audit entries; ?limit= caps the count
func (h *Handler) AuditLog(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.svc.AuditLog(c.Request().Context(), mw.CurrentIdentity(c), limit)
	if err != nil {
		return h.fail(c, err, "/")
	}
	return h.render(c, "audit.html", echo.Map{"Entries": entries})
}

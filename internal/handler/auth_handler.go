package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	mw "github.com/suteetoe/marketplace/internal/middleware"
	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/internal/service"
	"github.com/suteetoe/marketplace/pkg/logger"
	"go.uber.org/zap"
)

type accountForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	FullName string `form:"fullname"`
	Role     string `form:"role"`
}

func (h *Handler) Index(c echo.Context) error {
	return h.render(c, "index.html", nil)
}

func (h *Handler) RegisterForm(c echo.Context) error {
	return h.render(c, "register.html", nil)
}

func (h *Handler) Register(c echo.Context) error {
	log := logger.FromEcho(c)

	var req accountForm
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse registration form", zap.Error(err))
		return h.redirect(c, "danger", "Invalid request", "/register")
	}

	_, err := h.svc.Register(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		return h.fail(c, err, "/register")
	}
	return h.redirect(c, "success", "Registered. Please login.", "/login")
}

func (h *Handler) LoginForm(c echo.Context) error {
	return h.render(c, "login.html", nil)
}

func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req accountForm
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse login form", zap.Error(err))
		return h.redirect(c, "danger", "Invalid request", "/login")
	}

	user, err := h.svc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.fail(c, err, "/login")
	}
	if err := h.sessions.Issue(c, user); err != nil {
		log.Error("Failed to issue session", zap.Uint("user_id", user.ID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	mw.SetFlash(c, "success", "Welcome "+user.DisplayName()+"!")
	switch user.Role {
	case model.RoleVendor:
		return c.Redirect(http.StatusFound, "/vendor/dashboard")
	case model.RoleConsumer:
		return c.Redirect(http.StatusFound, "/marketplace")
	default:
		return c.Redirect(http.StatusFound, "/admin")
	}
}

func (h *Handler) Logout(c echo.Context) error {
	id := mw.CurrentIdentity(c)
	h.svc.Logout(c.Request().Context(), id)
	if err := h.sessions.Clear(c, id); err != nil {
		logger.FromEcho(c).Warn("Failed to revoke session", zap.Error(err))
	}
	return h.redirect(c, "info", "Logged out", "/")
}

func (h *Handler) CreateAdminForm(c echo.Context) error {
	exists, err := h.svc.AdminExists(c.Request().Context())
	if err != nil {
		return h.fail(c, err, "/login")
	}
	if exists {
		return h.redirect(c, "warning", "Admin exists", "/login")
	}
	return h.render(c, "create_admin.html", nil)
}

func (h *Handler) CreateAdmin(c echo.Context) error {
	var req accountForm
	if err := c.Bind(&req); err != nil {
		return h.redirect(c, "danger", "Invalid request", "/create_admin")
	}

	_, err := h.svc.CreateAdmin(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		return h.fail(c, err, "/login")
	}
	return h.redirect(c, "success", "Admin created", "/login")
}

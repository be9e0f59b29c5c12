// Package handler holds the echo handlers for the marketplace pages.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	mw "github.com/suteetoe/marketplace/internal/middleware"
	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/internal/service"
	"github.com/suteetoe/marketplace/internal/upload"
	"github.com/suteetoe/marketplace/pkg/logger"
	"go.uber.org/zap"
)

type Handler struct {
	svc      *service.Service
	sessions *mw.Sessions
	uploads  *upload.Store
}

func New(svc *service.Service, sessions *mw.Sessions, uploads *upload.Store) *Handler {
	return &Handler{svc: svc, sessions: sessions, uploads: uploads}
}

// RegisterRoutes mounts every page on e. Sessions.Middleware must already be installed.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", HealthCheck)

	e.GET("/", h.Index)
	e.GET("/register", h.RegisterForm)
	e.POST("/register", h.Register)
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login)
	e.GET("/create_admin", h.CreateAdminForm)
	e.POST("/create_admin", h.CreateAdmin)
	e.GET("/marketplace", h.Marketplace)
	e.GET("/product/:id", h.ProductDetail)
	e.Static("/uploads", h.uploads.Dir())

	// role guards are attached per route; a guarded group with an empty
	// prefix would also catch unknown paths
	loggedIn := mw.RequireLogin()
	e.POST("/logout", h.Logout, loggedIn)
	e.GET("/orders", h.Orders, loggedIn)
	e.POST("/update_order/:id", h.UpdateOrder, loggedIn)
	e.GET("/pay/:id", h.PaymentForm, loggedIn)
	e.POST("/pay/:id", h.Pay, loggedIn)
	e.GET("/addresses", h.Addresses, loggedIn)
	e.POST("/addresses", h.CreateAddress, loggedIn)
	e.GET("/addresses/:id", h.EditAddressForm, loggedIn)
	e.POST("/addresses/:id", h.UpdateAddress, loggedIn)
	e.POST("/addresses/:id/delete", h.DeleteAddress, loggedIn)

	consumer := mw.RequireRole(model.RoleConsumer)
	e.GET("/order/:id", h.OrderForm, consumer)
	e.POST("/order/:id", h.PlaceOrder, consumer)
	e.POST("/product/:id/review", h.AddReview, consumer)

	vendor := mw.RequireRole(model.RoleVendor)
	e.GET("/vendor/dashboard", h.VendorDashboard, vendor)
	e.GET("/add_product", h.AddProductForm, vendor)
	e.POST("/add_product", h.AddProduct, vendor)
	e.GET("/edit_product/:id", h.EditProductForm, vendor)
	e.POST("/edit_product/:id", h.EditProduct, vendor)
	e.POST("/delete_product/:id", h.DeleteProduct, vendor)

	admin := mw.RequireRole(model.RoleAdmin)
	e.GET("/admin", h.AdminDashboard, admin)
	e.GET("/admin/audit", h.AuditLog, admin)

	reports := e.Group("/reports", mw.RequireRole(model.RoleVendor))
	reports.GET("", h.Reports)
	reports.GET("/data", h.ReportData)
	reports.GET("/export_csv", h.ExportCSV)
}

// render executes a page template with the caller and pending flashes
func (h *Handler) render(c echo.Context, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	data["Identity"] = mw.CurrentIdentity(c)
	data["Flashes"] = mw.PopFlashes(c)
	return c.Render(http.StatusOK, name, data)
}

func (h *Handler) redirect(c echo.Context, category, message, to string) error {
	mw.SetFlash(c, category, message)
	return c.Redirect(http.StatusFound, to)
}

// back redirects to the referring page, or fallback
func back(c echo.Context, fallback string) string {
	if ref := c.Request().Referer(); ref != "" {
		return ref
	}
	return fallback
}

func paramID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return uint(id), nil
}

// fail maps a service error onto a flash and redirect. Unknown errors become 500s.
func (h *Handler) fail(c echo.Context, err error, to string) error {
	log := logger.FromEcho(c)

	var message string
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrForbidden):
		message = "Access denied"
	case errors.Is(err, service.ErrInvalidQuantity):
		message = "Invalid qty"
	case errors.Is(err, service.ErrInvalidStatus):
		message = "Invalid status"
	case errors.Is(err, service.ErrInvalidPaymentMethod):
		message = "Invalid payment method"
	case errors.Is(err, service.ErrUsernameTaken):
		message = "Username exists"
	case errors.Is(err, service.ErrInvalidCredentials):
		message = "Invalid credentials"
	case errors.Is(err, service.ErrAdminExists):
		message = "Admin exists"
	case errors.Is(err, upload.ErrUnsupportedType):
		message = "Invalid image"
	case errors.Is(err, upload.ErrTooLarge):
		message = "Image too large"
	case errors.Is(err, service.ErrValidation):
		message = err.Error()
	default:
		log.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong")
	}

	log.Info("Request rejected", zap.String("path", c.Path()), zap.String("reason", err.Error()))
	return h.redirect(c, "danger", message, to)
}

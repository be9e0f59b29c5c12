package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"
	mw "github.com/suteetoe/marketplace/internal/middleware"
	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/pkg/logger"
	"go.uber.org/zap"
)

func (h *Handler) OrderForm(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	product, err := h.svc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "/marketplace")
	}
	return h.render(c, "order.html", echo.Map{"Product": product})
}

func (h *Handler) PlaceOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req struct {
		Quantity int `form:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse order form", zap.Error(err))
		return h.redirect(c, "danger", "Invalid qty", fmt.Sprintf("/order/%d", id))
	}

	if _, err := h.svc.PlaceOrder(c.Request().Context(), mw.CurrentIdentity(c), id, req.Quantity); err != nil {
		return h.fail(c, err, fmt.Sprintf("/order/%d", id))
	}
	return h.redirect(c, "success", "Order placed", "/orders")
}

func (h *Handler) Orders(c echo.Context) error {
	orders, err := h.svc.ListOrders(c.Request().Context(), mw.CurrentIdentity(c))
	if err != nil {
		return h.fail(c, err, "/")
	}
	return h.render(c, "orders.html", echo.Map{"Orders": orders})
}

func (h *Handler) UpdateOrder(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	status := model.OrderStatus(c.FormValue("status"))

	if err := h.svc.UpdateOrderStatus(c.Request().Context(), mw.CurrentIdentity(c), id, status); err != nil {
		return h.fail(c, err, "/orders")
	}
	return h.redirect(c, "success", "Order updated", back(c, "/orders"))
}

func (h *Handler) PaymentForm(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	view, err := h.svc.PaymentPage(c.Request().Context(), mw.CurrentIdentity(c), id)
	if err != nil {
		return h.fail(c, err, "/orders")
	}
	return h.render(c, "pay.html", echo.Map{"View": view})
}

func (h *Handler) Pay(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	payment, err := h.svc.RecordPayment(c.Request().Context(), mw.CurrentIdentity(c), id, c.FormValue("method"))
	if err != nil {
		return h.fail(c, err, fmt.Sprintf("/pay/%d", id))
	}
	if payment.Status == model.PaymentPending {
		return h.redirect(c, "info", "Payment will be collected on delivery", "/orders")
	}
	return h.redirect(c, "success", "Payment completed", "/orders")
}

package handler

import (
	"github.com/labstack/echo/v4"
	mw "github.com/suteetoe/marketplace/internal/middleware"
	"github.com/suteetoe/marketplace/internal/service"
)

type addressForm struct {
	AddressLine string `form:"address_line"`
	Barangay    string `form:"barangay"`
	City        string `form:"city"`
	Province    string `form:"province"`
	Phone       string `form:"phone"`
}

func (f addressForm) input() service.AddressInput {
	return service.AddressInput{
		AddressLine: f.AddressLine,
		Barangay:    f.Barangay,
		City:        f.City,
		Province:    f.Province,
		Phone:       f.Phone,
	}
}

func (h *Handler) Addresses(c echo.Context) error {
	addresses, err := h.svc.ListAddresses(c.Request().Context(), mw.CurrentIdentity(c))
	if err != nil {
		return h.fail(c, err, "/")
	}
	return h.render(c, "addresses.html", echo.Map{"Addresses": addresses})
}

func (h *Handler) CreateAddress(c echo.Context) error {
	var req addressForm
	if err := c.Bind(&req); err != nil {
		return h.redirect(c, "danger", "Invalid request", "/addresses")
	}
	if _, err := h.svc.CreateAddress(c.Request().Context(), mw.CurrentIdentity(c), req.input()); err != nil {
		return h.fail(c, err, "/addresses")
	}
	return h.redirect(c, "success", "Address saved", "/addresses")
}

func (h *Handler) EditAddressForm(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	address, err := h.svc.GetAddress(c.Request().Context(), mw.CurrentIdentity(c), id)
	if err != nil {
		return h.fail(c, err, "/addresses")
	}
	return h.render(c, "address_edit.html", echo.Map{"Address": address})
}

func (h *Handler) UpdateAddress(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req addressForm
	if err := c.Bind(&req); err != nil {
		return h.redirect(c, "danger", "Invalid request", "/addresses")
	}
	if _, err := h.svc.UpdateAddress(c.Request().Context(), mw.CurrentIdentity(c), id, req.input()); err != nil {
		return h.fail(c, err, "/addresses")
	}
	return h.redirect(c, "success", "Address updated", "/addresses")
}

func (h *Handler) DeleteAddress(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteAddress(c.Request().Context(), mw.CurrentIdentity(c), id); err != nil {
		return h.fail(c, err, "/addresses")
	}
	return h.redirect(c, "info", "Address removed", "/addresses")
}

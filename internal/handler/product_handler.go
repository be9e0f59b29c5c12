package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	mw "github.com/suteetoe/marketplace/internal/middleware"
	"github.com/suteetoe/marketplace/internal/service"
	"github.com/suteetoe/marketplace/pkg/logger"
	"go.uber.org/zap"
)

type productForm struct {
	Name        string  `form:"name"`
	Price       float64 `form:"price"`
	Quantity    int     `form:"quantity"`
	Description string  `form:"description"`
}

var ratings = []int{5, 4, 3, 2, 1}

func (h *Handler) Marketplace(c echo.Context) error {
	log := logger.FromEcho(c)

	q, min, max := c.QueryParam("q"), c.QueryParam("min"), c.QueryParam("max")
	products, err := h.svc.SearchProducts(c.Request().Context(), service.ParseProductFilter(q, min, max))
	if err != nil {
		return h.fail(c, err, "/")
	}

	log.Debug("Marketplace listed", zap.String("q", q), zap.Int("count", len(products)))
	return h.render(c, "marketplace.html", echo.Map{
		"Products": products,
		"Query":    q,
		"Min":      min,
		"Max":      max,
	})
}

func (h *Handler) ProductDetail(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	detail, err := h.svc.ProductDetail(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "/marketplace")
	}
	return h.render(c, "product_detail.html", echo.Map{"Detail": detail, "Ratings": ratings})
}

func (h *Handler) AddReview(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req struct {
		Rating int    `form:"rating"`
		Text   string `form:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return h.redirect(c, "danger", "Invalid review", fmt.Sprintf("/product/%d", id))
	}

	identity := mw.CurrentIdentity(c)
	if _, err := h.svc.AddReview(c.Request().Context(), identity, id, req.Rating, req.Text); err != nil {
		return h.fail(c, err, fmt.Sprintf("/product/%d", id))
	}
	return h.redirect(c, "success", "Review posted", fmt.Sprintf("/product/%d", id))
}

func (h *Handler) VendorDashboard(c echo.Context) error {
	dashboard, err := h.svc.VendorDashboard(c.Request().Context(), mw.CurrentIdentity(c))
	if err != nil {
		return h.fail(c, err, "/")
	}
	return h.render(c, "vendor_dashboard.html", echo.Map{"Dashboard": dashboard})
}

func (h *Handler) AddProductForm(c echo.Context) error {
	products, err := h.svc.VendorProducts(c.Request().Context(), mw.CurrentIdentity(c))
	if err != nil {
		return h.fail(c, err, "/")
	}
	return h.render(c, "add_product.html", echo.Map{"Products": products})
}

// saveImage stores the optional "image" upload and returns its path, or "" when none was sent
func (h *Handler) saveImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if file.Filename == "" {
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return h.uploads.Save(mw.CurrentIdentity(c).Username, file.Filename, file.Size, src)
}

// bindProduct parses and validates the product form, then stores the image.
// Invalid forms never reach the upload directory.
func (h *Handler) bindProduct(c echo.Context) (service.ProductInput, error) {
	var req productForm
	if err := c.Bind(&req); err != nil {
		return service.ProductInput{}, &service.ValidationError{Msg: "Invalid product form"}
	}
	in := service.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: req.Description,
	}
	if err := in.Validate(); err != nil {
		return service.ProductInput{}, err
	}

	image, err := h.saveImage(c)
	if err != nil {
		return service.ProductInput{}, err
	}
	in.ImagePath = image
	return in, nil
}

// discardImage removes an image stored for a submission that was then rejected
func (h *Handler) discardImage(c echo.Context, path string) {
	if path == "" {
		return
	}
	if err := h.uploads.Remove(path); err != nil {
		logger.FromEcho(c).Warn("Failed to remove rejected image", zap.String("path", path), zap.Error(err))
	}
}

func (h *Handler) AddProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	in, err := h.bindProduct(c)
	if err != nil {
		return h.fail(c, err, "/add_product")
	}
	product, err := h.svc.CreateProduct(c.Request().Context(), mw.CurrentIdentity(c), in)
	if err != nil {
		h.discardImage(c, in.ImagePath)
		return h.fail(c, err, "/add_product")
	}

	log.Info("Product added", zap.Uint("product_id", product.ID))
	return h.redirect(c, "success", "Product added", "/add_product")
}

func (h *Handler) EditProductForm(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	product, err := h.svc.EditableProduct(c.Request().Context(), mw.CurrentIdentity(c), id)
	if err != nil {
		return h.fail(c, err, "/marketplace")
	}
	return h.render(c, "edit_product.html", echo.Map{"Product": product})
}

func (h *Handler) EditProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	identity := mw.CurrentIdentity(c)

	// check ownership before accepting an upload
	if _, err := h.svc.EditableProduct(c.Request().Context(), identity, id); err != nil {
		return h.fail(c, err, "/marketplace")
	}
	in, err := h.bindProduct(c)
	if err != nil {
		return h.fail(c, err, fmt.Sprintf("/edit_product/%d", id))
	}
	if _, err := h.svc.UpdateProduct(c.Request().Context(), identity, id, in); err != nil {
		h.discardImage(c, in.ImagePath)
		return h.fail(c, err, fmt.Sprintf("/edit_product/%d", id))
	}
	return h.redirect(c, "success", "Updated", "/add_product")
}

func (h *Handler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteProduct(c.Request().Context(), mw.CurrentIdentity(c), id); err != nil {
		return h.fail(c, err, "/marketplace")
	}
	return h.redirect(c, "info", "Product removed", back(c, "/vendor/dashboard"))
}

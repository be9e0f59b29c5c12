package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/model"
	"go.uber.org/zap"
)

const maxDescriptionLength = 400

// ParseProductFilter builds a marketplace filter from query parameters.
// Price bounds that do not parse are ignored.
func ParseProductFilter(q, min, max string) model.ProductFilter {
	return model.ProductFilter{
		Query:    strings.TrimSpace(q),
		MinPrice: parseBound(min),
		MaxPrice: parseBound(max),
	}
}

func parseBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// SearchProducts lists the marketplace, newest first
func (s *Service) SearchProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	return s.repo.Products().List(ctx, filter)
}

func (s *Service) GetProduct(ctx context.Context, productID uint) (*model.Product, error) {
	return s.repo.Products().GetByID(ctx, productID)
}

// ProductDetail is a product page
type ProductDetail struct {
	Product       *model.Product
	Reviews       []model.ProductReview
	AverageRating float64
}

func (s *Service) ProductDetail(ctx context.Context, productID uint) (*ProductDetail, error) {
	product, err := s.repo.Products().GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repo.Reviews().ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	detail := &ProductDetail{Product: product, Reviews: reviews}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		detail.AverageRating = decimal.NewFromInt(int64(sum)).
			DivRound(decimal.NewFromInt(int64(len(reviews))), 1).
			InexactFloat64()
	}
	return detail, nil
}

// ProductInput is the add/edit product form. An empty ImagePath keeps the
// current image on edit.
type ProductInput struct {
	Name        string
	Price       float64
	Quantity    int
	Description string
	ImagePath   string
}

// Validate trims the text fields and checks them, so a caller can reject a
// form before storing its image.
func (in *ProductInput) Validate() error {
	return in.normalize()
}

func (in *ProductInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	switch {
	case in.Name == "":
		return invalid("Product name is required")
	case in.Price < 0:
		return invalid("Price cannot be negative")
	case in.Quantity < 0:
		return invalid("Quantity cannot be negative")
	case len(in.Description) > maxDescriptionLength:
		return invalid(fmt.Sprintf("Description must be at most %d characters", maxDescriptionLength))
	}
	return nil
}

// VendorProducts lists the caller's own products
func (s *Service) VendorProducts(ctx context.Context, id auth.Identity) ([]model.Product, error) {
	if !id.HasRole(model.RoleVendor) {
		return nil, ErrForbidden
	}
	return s.repo.Products().List(ctx, model.ProductFilter{VendorID: id.UserID})
}

func (s *Service) CreateProduct(ctx context.Context, id auth.Identity, in ProductInput) (*model.Product, error) {
	if !id.HasRole(model.RoleVendor) {
		return nil, ErrForbidden
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        in.Name,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		ImagePath:   in.ImagePath,
		VendorID:    id.UserID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Products().Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger(ctx).Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Uint("vendor_id", product.VendorID))
	s.audit(ctx, id, ActionProductCreate, fmt.Sprintf("product %d %q created", product.ID, product.Name))
	return product, nil
}

// EditableProduct loads a product the caller may edit: its vendor or an admin
func (s *Service) EditableProduct(ctx context.Context, id auth.Identity, productID uint) (*model.Product, error) {
	if !id.HasRole(model.RoleVendor) {
		return nil, ErrForbidden
	}
	product, err := s.repo.Products().GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.VendorID != id.UserID && !id.IsAdmin() {
		return nil, ErrForbidden
	}
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id auth.Identity, productID uint, in ProductInput) (*model.Product, error) {
	product, err := s.EditableProduct(ctx, id, productID)
	if err != nil {
		return nil, err
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Price = in.Price
	product.Quantity = in.Quantity
	product.Description = in.Description
	if in.ImagePath != "" {
		product.ImagePath = in.ImagePath
	}
	product.Vendor = nil
	if err := s.repo.Products().Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger(ctx).Info("Product updated", zap.Uint("product_id", product.ID))
	s.audit(ctx, id, ActionProductUpdate, fmt.Sprintf("product %d %q updated", product.ID, product.Name))
	return product, nil
}

// DeleteProduct removes the product. Orders keep their snapshots.
func (s *Service) DeleteProduct(ctx context.Context, id auth.Identity, productID uint) error {
	product, err := s.EditableProduct(ctx, id, productID)
	if err != nil {
		return err
	}
	if err := s.repo.Products().Delete(ctx, product.ID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger(ctx).Info("Product deleted", zap.Uint("product_id", product.ID))
	s.audit(ctx, id, ActionProductDelete, fmt.Sprintf("product %d %q deleted", product.ID, product.Name))
	return nil
}

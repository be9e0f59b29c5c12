package service

import (
	"context"

	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/model"
)

type VendorDashboard struct {
	User     *model.User
	Products []model.Product
	Orders   []model.Order
}

// VendorDashboard shows the caller's products and the orders placed under
// their display name
func (s *Service) VendorDashboard(ctx context.Context, id auth.Identity) (*VendorDashboard, error) {
	if !id.HasRole(model.RoleVendor) {
		return nil, ErrForbidden
	}
	user, err := s.repo.Users().GetByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.Products().List(ctx, model.ProductFilter{VendorID: user.ID})
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.Orders().List(ctx, model.OrderScope{VendorName: user.DisplayName()})
	if err != nil {
		return nil, err
	}
	return &VendorDashboard{User: user, Products: products, Orders: orders}, nil
}

type AdminStats struct {
	TotalUsers    int64
	TotalProducts int64
	TotalOrders   int64
}

func (s *Service) AdminStats(ctx context.Context, id auth.Identity) (*AdminStats, error) {
	if !id.IsAdmin() {
		return nil, ErrForbidden
	}
	var stats AdminStats
	var err error
	if stats.TotalUsers, err = s.repo.Users().Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = s.repo.Products().Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.repo.Orders().Count(ctx, model.OrderScope{}); err != nil {
		return nil, err
	}
	return &stats, nil
}

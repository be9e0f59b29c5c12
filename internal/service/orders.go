package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/events"
	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/internal/repository"
	"go.uber.org/zap"
)

// PlaceOrder buys quantity units of a product for the caller. Stock is
// checked and decremented in the same transaction that writes the order, and
// a concurrent order that drains the stock first makes this one fail with
// ErrInvalidQuantity.
func (s *Service) PlaceOrder(ctx context.Context, id auth.Identity, productID uint, quantity int) (*model.Order, error) {
	log := s.logger(ctx)

	if !id.HasRole(model.RoleConsumer) {
		return nil, ErrForbidden
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var order *model.Order
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		product, err := tx.Products().GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if quantity > product.Quantity {
			return ErrInvalidQuantity
		}

		if err := tx.Products().DecrementStock(ctx, product.ID, quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return ErrInvalidQuantity
			}
			return fmt.Errorf("failed to reserve stock: %w", err)
		}

		vendorName := ""
		if product.Vendor != nil {
			vendorName = product.Vendor.DisplayName()
		}
		pid := product.ID
		order = &model.Order{
			ProductID:   &pid,
			ProductName: product.Name,
			VendorName:  vendorName,
			BuyerID:     id.UserID,
			Quantity:    quantity,
			PriceEach:   product.Price,
			Status:      model.OrderPending,
			CreatedAt:   s.now().UTC(),
		}
		order.Items = []model.OrderItem{{
			ProductID: &pid,
			Quantity:  quantity,
			PriceEach: product.Price,
			Subtotal:  order.Total().InexactFloat64(),
		}}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidQuantity) {
			log.Warn("Order rejected for quantity",
				zap.Uint("product_id", productID),
				zap.Int("quantity", quantity))
		}
		return nil, err
	}

	log.Info("Order placed",
		zap.Uint("order_id", order.ID),
		zap.Uint("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Uint("buyer_id", id.UserID))
	s.metrics.RecordOrderPlaced(quantity)
	s.audit(ctx, id, ActionOrderPlaced, fmt.Sprintf("order %d: %d x %q", order.ID, quantity, order.ProductName))
	s.publish(ctx, events.Event{
		Type:    events.OrderPlaced,
		OrderID: order.ID,
		ActorID: id.UserID,
		Attributes: map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
			"total":      order.Total().StringFixed(2),
		},
	})
	return order, nil
}

// OrderView is an order with its most recent payment attempt, if any
type OrderView struct {
	model.Order
	LatestPayment *model.Payment
}

// ListOrders returns the orders the caller may see, newest first: a
// consumer's purchases, a vendor's sales, or every order for an admin.
func (s *Service) ListOrders(ctx context.Context, id auth.Identity) ([]OrderView, error) {
	var scope model.OrderScope
	switch id.Role {
	case model.RoleAdmin:
	case model.RoleConsumer:
		scope.BuyerID = id.UserID
	case model.RoleVendor:
		name, err := s.vendorName(ctx, id)
		if err != nil {
			return nil, err
		}
		scope.VendorName = name
	default:
		return nil, nil
	}

	orders, err := s.repo.Orders().List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return s.withLatestPayments(ctx, orders)
}

func (s *Service) withLatestPayments(ctx context.Context, orders []model.Order) ([]OrderView, error) {
	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	latest, err := s.repo.Payments().LatestForOrders(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		view := OrderView{Order: o}
		if p, ok := latest[o.ID]; ok {
			view.LatestPayment = &p
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateOrderStatus moves an order to status. Admins may update any order; a
// vendor only orders whose vendor name resolves to their own account.
func (s *Service) UpdateOrderStatus(ctx context.Context, id auth.Identity, orderID uint, status model.OrderStatus) error {
	log := s.logger(ctx)

	if !id.IsAuthenticated() {
		return ErrForbidden
	}
	order, err := s.repo.Orders().GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !id.IsAdmin() {
		vendor, err := s.repo.Users().FindByDisplayName(ctx, order.VendorName)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if vendor == nil || vendor.ID != id.UserID {
			log.Warn("Order status change denied",
				zap.Uint("order_id", orderID),
				zap.Uint("user_id", id.UserID))
			return ErrForbidden
		}
	}

	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.repo.Orders().UpdateStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	log.Info("Order status changed",
		zap.Uint("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)))
	s.metrics.RecordOrderStatusChange(string(status))
	s.audit(ctx, id, ActionOrderStatus, fmt.Sprintf("order %d: %s -> %s", orderID, order.Status, status))
	s.publish(ctx, events.Event{
		Type:    events.OrderStatusChanged,
		OrderID: orderID,
		ActorID: id.UserID,
		Attributes: map[string]interface{}{
			"from": string(order.Status),
			"to":   string(status),
		},
	})
	return nil
}

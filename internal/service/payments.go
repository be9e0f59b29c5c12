package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/events"
	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/internal/repository"
	"go.uber.org/zap"
)

// OrderAmount is the amount due: the sum of item subtotals, or
// price_each × quantity for orders without items.
func OrderAmount(order *model.Order) decimal.Decimal {
	if len(order.Items) == 0 {
		return order.Total()
	}
	sum := decimal.Zero
	for _, item := range order.Items {
		sum = sum.Add(decimal.NewFromFloat(item.Subtotal))
	}
	return sum
}

// PaymentView backs the payment page
type PaymentView struct {
	Order         *model.Order
	Amount        decimal.Decimal
	LatestPayment *model.Payment
	// History holds every attempt, newest first
	History       []model.Payment
	Methods       []string
}

func (s *Service) buyerOrder(ctx context.Context, repo repository.Repository, id auth.Identity, orderID uint) (*model.Order, error) {
	order, err := repo.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !id.IsAuthenticated() || order.BuyerID != id.UserID {
		return nil, ErrForbidden
	}
	return order, nil
}

// PaymentPage loads an order for payment by its buyer
func (s *Service) PaymentPage(ctx context.Context, id auth.Identity, orderID uint) (*PaymentView, error) {
	order, err := s.buyerOrder(ctx, s.repo, id, orderID)
	if err != nil {
		return nil, err
	}
	view := &PaymentView{
		Order:   order,
		Amount:  OrderAmount(order),
		Methods: model.PaymentMethods,
	}
	history, err := s.repo.Payments().ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view.History = history
	if len(history) > 0 {
		view.LatestPayment = &history[0]
	}
	return view, nil
}

// RecordPayment records a payment attempt by the order's buyer. Cash on
// delivery stays Pending; any other method completes immediately and marks
// the order Paid.
func (s *Service) RecordPayment(ctx context.Context, id auth.Identity, orderID uint, method string) (*model.Payment, error) {
	log := s.logger(ctx)

	var payment *model.Payment
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		order, err := s.buyerOrder(ctx, tx, id, orderID)
		if err != nil {
			return err
		}

		normalized, ok := model.NormalizePaymentMethod(method)
		if !ok {
			return fmt.Errorf("%w: method is required", ErrInvalidPaymentMethod)
		}

		status := model.PaymentCompleted
		if model.IsCashOnDelivery(normalized) {
			status = model.PaymentPending
		}

		payment = &model.Payment{
			OrderID:    order.ID,
			AmountPaid: OrderAmount(order).InexactFloat64(),
			Method:     normalized,
			Status:     status,
			PaidAt:     s.now().UTC(),
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}

		if status == model.PaymentCompleted {
			if err := tx.Orders().UpdateStatus(ctx, order.ID, model.OrderPaid); err != nil {
				return fmt.Errorf("failed to mark order paid: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Payment recorded",
		zap.Uint("order_id", orderID),
		zap.String("method", payment.Method),
		zap.String("status", string(payment.Status)),
		zap.Float64("amount", payment.AmountPaid))
	s.metrics.RecordPayment(string(payment.Status))
	if payment.Status == model.PaymentCompleted {
		s.metrics.RecordOrderStatusChange(string(model.OrderPaid))
	}
	s.audit(ctx, id, ActionPayment, fmt.Sprintf("order %d: %s %.2f via %s", orderID, payment.Status, payment.AmountPaid, payment.Method))
	s.publish(ctx, events.Event{
		Type:    events.PaymentRecorded,
		OrderID: orderID,
		ActorID: id.UserID,
		Attributes: map[string]interface{}{
			"method": payment.Method,
			"status": string(payment.Status),
			"amount": decimal.NewFromFloat(payment.AmountPaid).StringFixed(2),
		},
	})
	return payment, nil
}

// LatestPayment returns the most recent attempt for the order, or ErrNotFound
func (s *Service) LatestPayment(ctx context.Context, orderID uint) (*model.Payment, error) {
	return s.repo.Payments().Latest(ctx, orderID)
}

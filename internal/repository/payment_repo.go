package repository

import (
	"context"

	"github.com/suteetoe/marketplace/internal/model"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) Latest(ctx context.Context, orderID uint) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("paid_at DESC").
		Order("id DESC").
		First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *paymentRepository) LatestForOrders(ctx context.Context, orderIDs []uint) (map[uint]model.Payment, error) {
	latest := make(map[uint]model.Payment, len(orderIDs))
	if len(orderIDs) == 0 {
		return latest, nil
	}

	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("paid_at DESC").
		Order("id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	for _, p := range payments {
		if _, seen := latest[p.OrderID]; !seen {
			latest[p.OrderID] = p
		}
	}
	return latest, nil
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID uint) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("paid_at DESC").
		Order("id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

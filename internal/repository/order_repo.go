package repository

import (
	"context"

	"github.com/suteetoe/marketplace/internal/model"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit("Buyer").Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Buyer").
		First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scoped(db *gorm.DB, scope model.OrderScope) *gorm.DB {
	if scope.BuyerID != 0 {
		db = db.Where("buyer_id = ?", scope.BuyerID)
	}
	if scope.VendorName != "" {
		db = db.Where("vendor_name = ?", scope.VendorName)
	}
	return db
}

func (r *orderRepository) List(ctx context.Context, scope model.OrderScope) ([]model.Order, error) {
	var orders []model.Order
	err := scoped(r.db.WithContext(ctx).Model(&model.Order{}), scope).
		Preload("Buyer").
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Count(ctx context.Context, scope model.OrderScope) (int64, error) {
	var count int64
	err := scoped(r.db.WithContext(ctx).Model(&model.Order{}), scope).Count(&count).Error
	return count, err
}

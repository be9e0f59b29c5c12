package repository

import (
	"context"

	"github.com/suteetoe/marketplace/internal/model"
	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

func (r *reviewRepository) Create(ctx context.Context, review *model.ProductReview) error {
	return r.db.WithContext(ctx).Omit("User").Create(review).Error
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uint) ([]model.ProductReview, error) {
	var reviews []model.ProductReview
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

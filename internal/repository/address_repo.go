package repository

import (
	"context"

	"github.com/suteetoe/marketplace/internal/model"
	"gorm.io/gorm"
)

type addressRepository struct {
	db *gorm.DB
}

func (r *addressRepository) Create(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *addressRepository) GetByID(ctx context.Context, id uint) (*model.Address, error) {
	var address model.Address
	if err := r.db.WithContext(ctx).First(&address, id).Error; err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *addressRepository) ListByUser(ctx context.Context, userID uint) ([]model.Address, error) {
	var addresses []model.Address
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepository) Update(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *addressRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Address{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

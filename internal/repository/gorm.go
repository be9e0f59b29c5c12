package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// New returns a Repository backed by db
func New(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Users() UserRepository         { return &userRepository{db: r.db} }
func (r *gormRepository) Products() ProductRepository   { return &productRepository{db: r.db} }
func (r *gormRepository) Orders() OrderRepository       { return &orderRepository{db: r.db} }
func (r *gormRepository) Payments() PaymentRepository   { return &paymentRepository{db: r.db} }
func (r *gormRepository) Addresses() AddressRepository  { return &addressRepository{db: r.db} }
func (r *gormRepository) Reviews() ReviewRepository     { return &reviewRepository{db: r.db} }
func (r *gormRepository) AuditLogs() AuditLogRepository { return &auditLogRepository{db: r.db} }

func (r *gormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

// translate maps gorm's sentinel errors onto the package's
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Package repository defines the marketplace persistence layer and its gorm
// implementation.
package repository

import (
	"context"
	"errors"

	"github.com/suteetoe/marketplace/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock is returned by DecrementStock when the product no
	// longer holds the requested quantity
	ErrInsufficientStock = errors.New("insufficient stock")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// FindByDisplayName returns the first user whose full name or username
	// equals name.
	FindByDisplayName(ctx context.Context, name string) (*model.User, error)
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	// GetByID loads the product with its vendor
	GetByID(ctx context.Context, id uint) (*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	// List returns matching products, newest first
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	// DecrementStock removes qty units only if at least qty are in stock
	DecrementStock(ctx context.Context, id uint, qty int) error
	Count(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	// Create inserts the order together with its items
	Create(ctx context.Context, order *model.Order) error
	// GetByID loads the order with its items and buyer
	GetByID(ctx context.Context, id uint) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error
	// List returns the orders in scope with their buyers, newest first
	List(ctx context.Context, scope model.OrderScope) ([]model.Order, error)
	Count(ctx context.Context, scope model.OrderScope) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	// Latest returns the most recent payment attempt for the order
	Latest(ctx context.Context, orderID uint) (*model.Payment, error)
	// LatestForOrders returns the most recent payment per order id; orders
	// without payments are absent from the map
	LatestForOrders(ctx context.Context, orderIDs []uint) (map[uint]model.Payment, error)
	// ListByOrder returns every attempt for the order, newest first
	ListByOrder(ctx context.Context, orderID uint) ([]model.Payment, error)
}

type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) error
	GetByID(ctx context.Context, id uint) (*model.Address, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Address, error)
	Update(ctx context.Context, address *model.Address) error
	Delete(ctx context.Context, id uint) error
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.ProductReview) error
	// ListByProduct returns the product's reviews with their authors, newest first
	ListByProduct(ctx context.Context, productID uint) ([]model.ProductReview, error)
}

type AuditLogRepository interface {
	Append(ctx context.Context, entry *model.AuditLog) error
	// Latest returns up to limit entries, newest first
	Latest(ctx context.Context, limit int) ([]model.AuditLog, error)
}

// Repository groups the per-entity repositories. Transaction runs fn against a
// Repository bound to a single transaction; fn's error rolls it back.
type Repository interface {
	Users() UserRepository
	Products() ProductRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Addresses() AddressRepository
	Reviews() ReviewRepository
	AuditLogs() AuditLogRepository
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

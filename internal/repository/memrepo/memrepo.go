// Package memrepo is an in-process implementation of repository.Repository.
// It backs the "memory" database driver and the service and handler tests.
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/internal/repository"
)

type state struct {
	users     map[uint]model.User
	products  map[uint]model.Product
	orders    map[uint]model.Order
	items     map[uint]model.OrderItem
	payments  map[uint]model.Payment
	addresses map[uint]model.Address
	reviews   map[uint]model.ProductReview
	audit     map[uint]model.AuditLog
	nextID    uint
}

func newState() *state {
	return &state{
		users:     map[uint]model.User{},
		products:  map[uint]model.Product{},
		orders:    map[uint]model.Order{},
		items:     map[uint]model.OrderItem{},
		payments:  map[uint]model.Payment{},
		addresses: map[uint]model.Address{},
		reviews:   map[uint]model.ProductReview{},
		audit:     map[uint]model.AuditLog{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		users:     cloneMap(s.users),
		products:  cloneMap(s.products),
		orders:    cloneMap(s.orders),
		items:     cloneMap(s.items),
		payments:  cloneMap(s.payments),
		addresses: cloneMap(s.addresses),
		reviews:   cloneMap(s.reviews),
		audit:     cloneMap(s.audit),
		nextID:    s.nextID,
	}
}

var _ repository.Repository = (*Repository)(nil)

// Repository keeps every entity in maps guarded by one mutex. IDs come from a
// single counter shared by all tables.
type Repository struct {
	mu   sync.Mutex
	txMu sync.Mutex
	s    *state
	now  func() time.Time

	// FailAudit makes AuditLogs().Append fail, for exercising best-effort paths
	FailAudit bool
}

// New returns an empty repository
func New() *Repository {
	return &Repository{s: newState(), now: time.Now}
}

// SetClock replaces the clock used for timestamps the caller left zero
func (r *Repository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *Repository) nextID() uint {
	r.s.nextID++
	return r.s.nextID
}

func (r *Repository) stamp(t *time.Time) {
	if t.IsZero() {
		*t = r.now().UTC()
	}
}

func (r *Repository) Users() repository.UserRepository         { return userRepo{r} }
func (r *Repository) Products() repository.ProductRepository   { return productRepo{r} }
func (r *Repository) Orders() repository.OrderRepository       { return orderRepo{r} }
func (r *Repository) Payments() repository.PaymentRepository   { return paymentRepo{r} }
func (r *Repository) Addresses() repository.AddressRepository  { return addressRepo{r} }
func (r *Repository) Reviews() repository.ReviewRepository     { return reviewRepo{r} }
func (r *Repository) AuditLogs() repository.AuditLogRepository { return auditRepo{r} }

// Transaction serializes transactions and restores the previous state when fn
// fails. Writes made outside a transaction while one is running are lost on
// rollback.
func (r *Repository) Transaction(ctx context.Context, fn func(tx repository.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := r.s.clone()
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.s = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

type userRepo struct{ r *Repository }

func (u userRepo) Create(_ context.Context, user *model.User) error {
	u.r.mu.Lock()
	defer u.r.mu.Unlock()
	for _, existing := range u.r.s.users {
		if existing.Username == user.Username {
			return errDuplicate
		}
	}
	user.ID = u.r.nextID()
	u.r.stamp(&user.CreatedAt)
	user.UpdatedAt = user.CreatedAt
	u.r.s.users[user.ID] = *user
	return nil
}

func (u userRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	u.r.mu.Lock()
	defer u.r.mu.Unlock()
	user, ok := u.r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (u userRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u.r.mu.Lock()
	defer u.r.mu.Unlock()
	for _, user := range u.r.s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u userRepo) FindByDisplayName(_ context.Context, name string) (*model.User, error) {
	u.r.mu.Lock()
	defer u.r.mu.Unlock()
	for _, id := range sortedKeys(u.r.s.users) {
		user := u.r.s.users[id]
		if user.FullName == name || user.Username == name {
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u userRepo) CountByRole(_ context.Context, role model.Role) (int64, error) {
	u.r.mu.Lock()
	defer u.r.mu.Unlock()
	var n int64
	for _, user := range u.r.s.users {
		if user.Role == role {
			n++
		}
	}
	return n, nil
}

func (u userRepo) Count(_ context.Context) (int64, error) {
	u.r.mu.Lock()
	defer u.r.mu.Unlock()
	return int64(len(u.r.s.users)), nil
}

type productRepo struct{ r *Repository }

func (p productRepo) withVendor(product model.Product) model.Product {
	if vendor, ok := p.r.s.users[product.VendorID]; ok {
		product.Vendor = &vendor
	} else {
		product.Vendor = nil
	}
	return product
}

func (p productRepo) Create(_ context.Context, product *model.Product) error {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	product.ID = p.r.nextID()
	p.r.stamp(&product.CreatedAt)
	product.UpdatedAt = product.CreatedAt
	stored := *product
	stored.Vendor = nil
	p.r.s.products[product.ID] = stored
	return nil
}

func (p productRepo) GetByID(_ context.Context, id uint) (*model.Product, error) {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	product, ok := p.r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	product = p.withVendor(product)
	return &product, nil
}

func (p productRepo) Update(_ context.Context, product *model.Product) error {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	if _, ok := p.r.s.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	product.UpdatedAt = p.r.now().UTC()
	stored := *product
	stored.Vendor = nil
	p.r.s.products[product.ID] = stored
	return nil
}

func (p productRepo) Delete(_ context.Context, id uint) error {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	if _, ok := p.r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(p.r.s.products, id)
	return nil
}

func (p productRepo) List(_ context.Context, filter model.ProductFilter) ([]model.Product, error) {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	query := strings.ToLower(filter.Query)
	var out []model.Product
	for _, product := range p.r.s.products {
		if query != "" && !strings.Contains(strings.ToLower(product.Name), query) {
			continue
		}
		if filter.MinPrice != nil && product.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && product.Price > *filter.MaxPrice {
			continue
		}
		if filter.VendorID != 0 && product.VendorID != filter.VendorID {
			continue
		}
		out = append(out, p.withVendor(product))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (p productRepo) DecrementStock(_ context.Context, id uint, qty int) error {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	product, ok := p.r.s.products[id]
	if !ok || product.Quantity < qty {
		return repository.ErrInsufficientStock
	}
	product.Quantity -= qty
	p.r.s.products[id] = product
	return nil
}

func (p productRepo) Count(_ context.Context) (int64, error) {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	return int64(len(p.r.s.products)), nil
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

package memrepo

import (
	"context"
	"errors"
	"sort"

	"github.com/suteetoe/marketplace/internal/model"
	"github.com/suteetoe/marketplace/internal/repository"
)

var (
	errDuplicate   = errors.New("duplicate key value violates unique constraint")
	errAuditFailed = errors.New("audit log unavailable")
)

type orderRepo struct{ r *Repository }

func (o orderRepo) hydrate(order model.Order) model.Order {
	if buyer, ok := o.r.s.users[order.BuyerID]; ok {
		order.Buyer = &buyer
	} else {
		order.Buyer = nil
	}
	order.Items = nil
	for _, id := range sortedKeys(o.r.s.items) {
		if item := o.r.s.items[id]; item.OrderID == order.ID {
			order.Items = append(order.Items, item)
		}
	}
	return order
}

func (o orderRepo) Create(_ context.Context, order *model.Order) error {
	o.r.mu.Lock()
	defer o.r.mu.Unlock()
	order.ID = o.r.nextID()
	o.r.stamp(&order.CreatedAt)
	order.UpdatedAt = order.CreatedAt
	if order.Status == "" {
		order.Status = model.OrderPending
	}
	for i := range order.Items {
		order.Items[i].ID = o.r.nextID()
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = order.CreatedAt
		o.r.s.items[order.Items[i].ID] = order.Items[i]
	}
	stored := *order
	stored.Items = nil
	stored.Buyer = nil
	o.r.s.orders[order.ID] = stored
	return nil
}

func (o orderRepo) GetByID(_ context.Context, id uint) (*model.Order, error) {
	o.r.mu.Lock()
	defer o.r.mu.Unlock()
	order, ok := o.r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	order = o.hydrate(order)
	return &order, nil
}

func (o orderRepo) UpdateStatus(_ context.Context, id uint, status model.OrderStatus) error {
	o.r.mu.Lock()
	defer o.r.mu.Unlock()
	order, ok := o.r.s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = o.r.now().UTC()
	o.r.s.orders[id] = order
	return nil
}

func inScope(order model.Order, scope model.OrderScope) bool {
	if scope.BuyerID != 0 && order.BuyerID != scope.BuyerID {
		return false
	}
	if scope.VendorName != "" && order.VendorName != scope.VendorName {
		return false
	}
	return true
}

func (o orderRepo) List(_ context.Context, scope model.OrderScope) ([]model.Order, error) {
	o.r.mu.Lock()
	defer o.r.mu.Unlock()
	var out []model.Order
	for _, order := range o.r.s.orders {
		if inScope(order, scope) {
			order = o.hydrate(order)
			order.Items = nil
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (o orderRepo) Count(_ context.Context, scope model.OrderScope) (int64, error) {
	o.r.mu.Lock()
	defer o.r.mu.Unlock()
	var n int64
	for _, order := range o.r.s.orders {
		if inScope(order, scope) {
			n++
		}
	}
	return n, nil
}

type paymentRepo struct{ r *Repository }

func newestFirst(payments []model.Payment) {
	sort.Slice(payments, func(i, j int) bool {
		if !payments[i].PaidAt.Equal(payments[j].PaidAt) {
			return payments[i].PaidAt.After(payments[j].PaidAt)
		}
		return payments[i].ID > payments[j].ID
	})
}

func (p paymentRepo) Create(_ context.Context, payment *model.Payment) error {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	payment.ID = p.r.nextID()
	p.r.stamp(&payment.PaidAt)
	p.r.s.payments[payment.ID] = *payment
	return nil
}

func (p paymentRepo) byOrder(orderID uint) []model.Payment {
	var out []model.Payment
	for _, payment := range p.r.s.payments {
		if payment.OrderID == orderID {
			out = append(out, payment)
		}
	}
	newestFirst(out)
	return out
}

func (p paymentRepo) Latest(_ context.Context, orderID uint) (*model.Payment, error) {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	payments := p.byOrder(orderID)
	if len(payments) == 0 {
		return nil, repository.ErrNotFound
	}
	return &payments[0], nil
}

func (p paymentRepo) LatestForOrders(_ context.Context, orderIDs []uint) (map[uint]model.Payment, error) {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	latest := make(map[uint]model.Payment, len(orderIDs))
	for _, id := range orderIDs {
		if payments := p.byOrder(id); len(payments) > 0 {
			latest[id] = payments[0]
		}
	}
	return latest, nil
}

func (p paymentRepo) ListByOrder(_ context.Context, orderID uint) ([]model.Payment, error) {
	p.r.mu.Lock()
	defer p.r.mu.Unlock()
	return p.byOrder(orderID), nil
}

type addressRepo struct{ r *Repository }

func (a addressRepo) Create(_ context.Context, address *model.Address) error {
	a.r.mu.Lock()
	defer a.r.mu.Unlock()
	address.ID = a.r.nextID()
	a.r.stamp(&address.CreatedAt)
	address.UpdatedAt = address.CreatedAt
	a.r.s.addresses[address.ID] = *address
	return nil
}

func (a addressRepo) GetByID(_ context.Context, id uint) (*model.Address, error) {
	a.r.mu.Lock()
	defer a.r.mu.Unlock()
	address, ok := a.r.s.addresses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &address, nil
}

func (a addressRepo) ListByUser(_ context.Context, userID uint) ([]model.Address, error) {
	a.r.mu.Lock()
	defer a.r.mu.Unlock()
	var out []model.Address
	for _, id := range sortedKeys(a.r.s.addresses) {
		if address := a.r.s.addresses[id]; address.UserID == userID {
			out = append(out, address)
		}
	}
	return out, nil
}

func (a addressRepo) Update(_ context.Context, address *model.Address) error {
	a.r.mu.Lock()
	defer a.r.mu.Unlock()
	if _, ok := a.r.s.addresses[address.ID]; !ok {
		return repository.ErrNotFound
	}
	address.UpdatedAt = a.r.now().UTC()
	a.r.s.addresses[address.ID] = *address
	return nil
}

func (a addressRepo) Delete(_ context.Context, id uint) error {
	a.r.mu.Lock()
	defer a.r.mu.Unlock()
	if _, ok := a.r.s.addresses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(a.r.s.addresses, id)
	return nil
}

type reviewRepo struct{ r *Repository }

func (rv reviewRepo) Create(_ context.Context, review *model.ProductReview) error {
	rv.r.mu.Lock()
	defer rv.r.mu.Unlock()
	review.ID = rv.r.nextID()
	rv.r.stamp(&review.CreatedAt)
	stored := *review
	stored.User = nil
	rv.r.s.reviews[review.ID] = stored
	return nil
}

func (rv reviewRepo) ListByProduct(_ context.Context, productID uint) ([]model.ProductReview, error) {
	rv.r.mu.Lock()
	defer rv.r.mu.Unlock()
	var out []model.ProductReview
	for _, review := range rv.r.s.reviews {
		if review.ProductID != productID {
			continue
		}
		if user, ok := rv.r.s.users[review.UserID]; ok {
			review.User = &user
		}
		out = append(out, review)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type auditRepo struct{ r *Repository }

func (a auditRepo) Append(_ context.Context, entry *model.AuditLog) error {
	a.r.mu.Lock()
	defer a.r.mu.Unlock()
	if a.r.FailAudit {
		return errAuditFailed
	}
	entry.ID = a.r.nextID()
	a.r.stamp(&entry.CreatedAt)
	a.r.s.audit[entry.ID] = *entry
	return nil
}

func (a auditRepo) Latest(_ context.Context, limit int) ([]model.AuditLog, error) {
	a.r.mu.Lock()
	defer a.r.mu.Unlock()
	keys := sortedKeys(a.r.s.audit)
	var out []model.AuditLog
	for i := len(keys) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, a.r.s.audit[keys[i]])
	}
	return out, nil
}

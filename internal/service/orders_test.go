package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/marketplace/internal/events"
	"github.com/suteetoe/marketplace/internal/model"
)

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	vendor := f.user(t, "seller", "Marina Goods", model.RoleVendor)
	buyer := f.user(t, "ana", "", model.RoleConsumer)
	product := f.product(t, vendor, "Dried Squid", 19.99, 5)

	order, err := f.svc.PlaceOrder(f.ctx, buyer, product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, "Dried Squid", order.ProductName)
	assert.Equal(t, "Marina Goods", order.VendorName)
	assert.Equal(t, 19.99, order.PriceEach)
	assert.Equal(t, buyer.UserID, order.BuyerID)
	assert.Equal(t, testNow, order.CreatedAt)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 59.97, order.Items[0].Subtotal)
	assert.Equal(t, 2, f.stock(t, product.ID))

	_, err = f.svc.PlaceOrder(f.ctx, buyer, product.ID, 3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 2, f.stock(t, product.ID))

	assert.Equal(t, []string{events.OrderPlaced}, f.events.types())
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	vendor := f.user(t, "seller", "", model.RoleVendor)
	buyer := f.user(t, "ana", "", model.RoleConsumer)
	product := f.product(t, vendor, "Tuna", 100, 2)

	for _, qty := range []int{0, -1} {
		_, err := f.svc.PlaceOrder(f.ctx, buyer, product.ID, qty)
		assert.ErrorIs(t, err, ErrInvalidQuantity, qty)
	}

	_, err := f.svc.PlaceOrder(f.ctx, vendor, product.ID, 1)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.PlaceOrder(f.ctx, buyer, 9999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 2, f.stock(t, product.ID))
}

func TestPlaceOrderConcurrentDoesNotOversell(t *testing.T) {
	f := newFixture(t)
	vendor := f.user(t, "seller", "", model.RoleVendor)
	buyer := f.user(t, "ana", "", model.RoleConsumer)
	product := f.product(t, vendor, "Tuna", 100, 5)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		placed   int
		rejected int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.PlaceOrder(f.ctx, buyer, product.ID, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				placed++
			} else if assert.ErrorIs(t, err, ErrInvalidQuantity) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, placed)
	assert.Equal(t, 7, rejected)
	assert.Equal(t, 0, f.stock(t, product.ID))
}

func TestOrderSnapshotSurvivesProductDeletion(t *testing.T) {
	f := newFixture(t)
	vendor := f.user(t, "seller", "", model.RoleVendor)
	buyer := f.user(t, "ana", "", model.RoleConsumer)
	product := f.product(t, vendor, "Tuna", 100, 5)

	order, err := f.svc.PlaceOrder(f.ctx, buyer, product.ID, 1)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteProduct(f.ctx, vendor, product.ID))

	views, err := f.svc.ListOrders(f.ctx, buyer)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, order.ID, views[0].ID)
	assert.Equal(t, "Tuna", views[0].ProductName)
	assert.Equal(t, "seller", views[0].VendorName)
}

func TestListOrdersByRole(t *testing.T) {
	f := newFixture(t)
	v1 := f.user(t, "v1", "Vendor One", model.RoleVendor)
	v2 := f.user(t, "v2", "", model.RoleVendor)
	c1 := f.user(t, "c1", "", model.RoleConsumer)
	c2 := f.user(t, "c2", "", model.RoleConsumer)
	admin := f.user(t, "root", "", model.RoleAdmin)
	p1 := f.product(t, v1, "Tuna", 10, 10)
	p2 := f.product(t, v2, "Squid", 10, 10)

	_, err := f.svc.PlaceOrder(f.ctx, c1, p1.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(f.ctx, c2, p2.ID, 1)
	require.NoError(t, err)
	paid, err := f.svc.PlaceOrder(f.ctx, c2, p1.ID, 2)
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(f.ctx, c2, paid.ID, "GCash")
	require.NoError(t, err)

	views, err := f.svc.ListOrders(f.ctx, c1)
	require.NoError(t, err)
	assert.Len(t, views, 1)

	views, err = f.svc.ListOrders(f.ctx, v1)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, paid.ID, views[0].ID, "newest first")
	require.NotNil(t, views[0].LatestPayment)
	assert.Equal(t, model.PaymentCompleted, views[0].LatestPayment.Status)
	assert.Nil(t, views[1].LatestPayment)

	views, err = f.svc.ListOrders(f.ctx, admin)
	require.NoError(t, err)
	assert.Len(t, views, 3)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "seller", "Marina Goods", model.RoleVendor)
	other := f.user(t, "other", "", model.RoleVendor)
	admin := f.user(t, "root", "", model.RoleAdmin)
	buyer := f.user(t, "ana", "", model.RoleConsumer)
	product := f.product(t, owner, "Tuna", 10, 10)

	order, err := f.svc.PlaceOrder(f.ctx, buyer, product.ID, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.UpdateOrderStatus(f.ctx, other, order.ID, model.OrderShipped), ErrForbidden)
	assert.ErrorIs(t, f.svc.UpdateOrderStatus(f.ctx, buyer, order.ID, model.OrderShipped), ErrForbidden)
	assert.ErrorIs(t, f.svc.UpdateOrderStatus(f.ctx, owner, order.ID, model.OrderStatus("Lost")), ErrInvalidStatus)
	assert.ErrorIs(t, f.svc.UpdateOrderStatus(f.ctx, owner, 9999, model.OrderShipped), ErrNotFound)

	require.NoError(t, f.svc.UpdateOrderStatus(f.ctx, owner, order.ID, model.OrderShipped))
	stored, err := f.repo.Orders().GetByID(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderShipped, stored.Status)

	require.NoError(t, f.svc.UpdateOrderStatus(f.ctx, admin, order.ID, model.OrderDelivered))
	stored, err = f.repo.Orders().GetByID(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderDelivered, stored.Status)
}

package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/marketplace/internal/auth"
	"github.com/suteetoe/marketplace/internal/events"
	"github.com/suteetoe/marketplace/internal/model"
)

func placeTestOrder(t *testing.T, f *fixture, price float64, qty int) (*model.Order, *model.Product) {
	t.Helper()
	vendor := f.user(t, "seller", "", model.RoleVendor)
	buyer := f.user(t, "ana", "", model.RoleConsumer)
	product := f.product(t, vendor, "Tuna", price, qty)
	order, err := f.svc.PlaceOrder(f.ctx, buyer, product.ID, qty)
	require.NoError(t, err)
	return order, product
}

func identityFor(t *testing.T, f *fixture, userID uint) auth.Identity {
	t.Helper()
	u, err := f.repo.Users().GetByID(f.ctx, userID)
	require.NoError(t, err)
	return auth.FromUser(u)
}

func TestRecordPaymentCashOnDelivery(t *testing.T) {
	for _, method := range []string{"Cash on Delivery", "cash on delivery", "COD"} {
		t.Run(method, func(t *testing.T) {
			f := newFixture(t)
			order, _ := placeTestOrder(t, f, 50, 2)
			buyer := identityFor(t, f, order.BuyerID)

			payment, err := f.svc.RecordPayment(f.ctx, buyer, order.ID, method)
			require.NoError(t, err)
			assert.Equal(t, model.PaymentPending, payment.Status)
			assert.Equal(t, model.MethodCashOnDelivery, payment.Method)
			assert.Equal(t, 100.0, payment.AmountPaid)

			stored, err := f.repo.Orders().GetByID(f.ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, model.OrderPending, stored.Status)
		})
	}
}

func TestRecordPaymentCompletesOrder(t *testing.T) {
	f := newFixture(t)
	order, _ := placeTestOrder(t, f, 100, 1)
	buyer := identityFor(t, f, order.BuyerID)

	payment, err := f.svc.RecordPayment(f.ctx, buyer, order.ID, "GCash")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, payment.Status)
	assert.Equal(t, 100.0, payment.AmountPaid)
	assert.Equal(t, testNow, payment.PaidAt)

	stored, err := f.repo.Orders().GetByID(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, stored.Status)

	latest, err := f.svc.LatestPayment(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, latest.ID)

	assert.Contains(t, f.events.types(), events.PaymentRecorded)
}

func TestRecordPaymentUnlistedMethodCompletes(t *testing.T) {
	for _, method := range []string{"PayPal", " Maya ", "Card"} {
		t.Run(method, func(t *testing.T) {
			f := newFixture(t)
			order, _ := placeTestOrder(t, f, 25, 2)
			buyer := identityFor(t, f, order.BuyerID)

			payment, err := f.svc.RecordPayment(f.ctx, buyer, order.ID, method)
			require.NoError(t, err)
			assert.Equal(t, model.PaymentCompleted, payment.Status)
			assert.Equal(t, strings.TrimSpace(method), payment.Method)
			assert.Equal(t, 50.0, payment.AmountPaid)

			stored, err := f.repo.Orders().GetByID(f.ctx, order.ID)
			require.NoError(t, err)
			assert.Equal(t, model.OrderPaid, stored.Status)
		})
	}
}

func TestRecordPaymentRejections(t *testing.T) {
	f := newFixture(t)
	order, _ := placeTestOrder(t, f, 100, 1)
	buyer := identityFor(t, f, order.BuyerID)
	stranger := f.user(t, "mallory", "", model.RoleConsumer)

	_, err := f.svc.RecordPayment(f.ctx, buyer, order.ID, "")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = f.svc.RecordPayment(f.ctx, buyer, order.ID, "  ")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)

	_, err = f.svc.RecordPayment(f.ctx, stranger, order.ID, "GCash")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.RecordPayment(f.ctx, buyer, 9999, "GCash")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.LatestPayment(f.ctx, order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestPaymentIsMostRecentAttempt(t *testing.T) {
	f := newFixture(t)
	order, _ := placeTestOrder(t, f, 100, 1)
	buyer := identityFor(t, f, order.BuyerID)

	_, err := f.svc.RecordPayment(f.ctx, buyer, order.ID, "COD")
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)
	second, err := f.svc.RecordPayment(f.ctx, buyer, order.ID, "PayMaya")
	require.NoError(t, err)

	view, err := f.svc.PaymentPage(f.ctx, buyer, order.ID)
	require.NoError(t, err)
	require.NotNil(t, view.LatestPayment)
	assert.Equal(t, second.ID, view.LatestPayment.ID)
	assert.Equal(t, "100.00", view.Amount.StringFixed(2))

	require.Len(t, view.History, 2)
	assert.Equal(t, model.MethodPayMaya, view.History[0].Method)
	assert.Equal(t, model.MethodCashOnDelivery, view.History[1].Method)
	assert.Equal(t, model.PaymentPending, view.History[1].Status)
}

func TestOrderAmount(t *testing.T) {
	withItems := &model.Order{PriceEach: 10, Quantity: 1, Items: []model.OrderItem{{Subtotal: 12.5}, {Subtotal: 7.25}}}
	assert.Equal(t, "19.75", OrderAmount(withItems).StringFixed(2))

	withoutItems := &model.Order{PriceEach: 19.99, Quantity: 3}
	assert.Equal(t, "59.97", OrderAmount(withoutItems).StringFixed(2))
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Juan Dela Cruz", (&User{Username: "juan", FullName: "Juan Dela Cruz"}).DisplayName())
	assert.Equal(t, "juan", (&User{Username: "juan"}).DisplayName())
}

func TestOrderStatusIsValid(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, OrderStatus("Refunded").IsValid())
	assert.False(t, OrderStatus("pending").IsValid())
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleVendor.IsValid())
	assert.False(t, Role("superuser").IsValid())
}

func TestNormalizePaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Cash on Delivery", MethodCashOnDelivery, true},
		{"cash on delivery", MethodCashOnDelivery, true},
		{" COD ", MethodCashOnDelivery, true},
		{"gcash", MethodGCash, true},
		{" PayPal ", "PayPal", true},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizePaymentMethod(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}

	assert.True(t, IsCashOnDelivery("cod"))
	assert.False(t, IsCashOnDelivery("GCash"))
	assert.False(t, IsCashOnDelivery("PayPal"))
}

func TestOrderTotal(t *testing.T) {
	o := Order{PriceEach: 19.99, Quantity: 3}
	assert.Equal(t, "59.97", o.Total().StringFixed(2))
}

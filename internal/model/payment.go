package model

import (
	"strings"
	"time"
)

// PaymentStatus is the state of a payment attempt
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
)

const (
	MethodCashOnDelivery = "Cash on Delivery"
	MethodGCash          = "GCash"
	MethodPayMaya        = "PayMaya"
	MethodCreditCard     = "Credit Card"
	MethodBankTransfer   = "Bank Transfer"
)

// PaymentMethods lists the methods offered on the payment page, in display order
var PaymentMethods = []string{
	MethodCashOnDelivery,
	MethodGCash,
	MethodPayMaya,
	MethodCreditCard,
	MethodBankTransfer,
}

// NormalizePaymentMethod trims user input and maps known names onto their
// canonical spelling. "cod" is an abbreviation of cash on delivery. Other
// methods are kept as entered; only a blank method is rejected.
func NormalizePaymentMethod(method string) (string, bool) {
	method = strings.TrimSpace(method)
	if method == "" {
		return "", false
	}
	if strings.EqualFold(method, "cod") {
		return MethodCashOnDelivery, true
	}
	for _, known := range PaymentMethods {
		if strings.EqualFold(method, known) {
			return known, true
		}
	}
	return method, true
}

// IsCashOnDelivery reports whether method settles on delivery rather than upfront
func IsCashOnDelivery(method string) bool {
	normalized, ok := NormalizePaymentMethod(method)
	return ok && normalized == MethodCashOnDelivery
}

// Payment is one payment attempt against an order
type Payment struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	OrderID    uint          `json:"order_id" gorm:"index;not null"`
	AmountPaid float64       `json:"amount_paid" gorm:"not null"`
	Method     string        `json:"method" gorm:"type:text;not null"`
	Status     PaymentStatus `json:"status" gorm:"type:varchar(20);not null;default:'Pending'"`
	PaidAt     time.Time     `json:"paid_at" gorm:"index"`
}

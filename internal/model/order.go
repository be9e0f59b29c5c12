package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
	OrderPaid       OrderStatus = "Paid"
)

// OrderStatuses lists every status an order may be moved to, in display order
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderProcessing,
	OrderShipped,
	OrderDelivered,
	OrderCancelled,
	OrderPaid,
}

// IsValid reports whether s is one of the known order statuses
func (s OrderStatus) IsValid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is a purchase of a single product. Product name, vendor name and unit
// price are snapshots taken when the order was placed, so orders keep their
// display values after the product is edited or deleted.
type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	ProductID   *uint       `json:"product_id" gorm:"index"`
	ProductName string      `json:"product_name" gorm:"type:varchar(200)"`
	VendorName  string      `json:"vendor_name" gorm:"type:varchar(200);index"`
	BuyerID     uint        `json:"buyer_id" gorm:"index;not null"`
	Buyer       *User       `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Quantity    int         `json:"quantity" gorm:"not null;default:1"`
	PriceEach   float64     `json:"price_each" gorm:"not null;default:0"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(30);default:'Pending';index"`
	Items       []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt   time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Total is price_each × quantity
func (o *Order) Total() decimal.Decimal {
	return decimal.NewFromFloat(o.PriceEach).Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// OrderItem is a line of an order
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"index;not null"`
	ProductID *uint     `json:"product_id" gorm:"index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	PriceEach float64   `json:"price_each" gorm:"not null"`
	Subtotal  float64   `json:"subtotal" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderScope selects which orders a listing or report covers. A zero scope
// covers every order.
type OrderScope struct {
	BuyerID    uint
	VendorName string
}

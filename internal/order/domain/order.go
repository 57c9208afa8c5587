package domain

import (
	"time"
)

// Order statuses. Orders are created PENDING and only move forward;
// CANCELLED is reachable from PENDING only, either by the customer or by
// the reconciliation sweep. Delivery statuses are driven by item-level
// updates outside the order core.
const (
	StatusPending            = "PENDING"
	StatusDelivered          = "DELIVERED"
	StatusPartiallyDelivered = "PARTIALLY_DELIVERED"
	StatusCancelled          = "CANCELLED"
)

// Order types
const (
	TypeApp    = "APP"
	TypeManual = "MANUAL"
)

// Payment methods
const (
	PaymentWallet = "WALLET"
	PaymentUPI    = "UPI"
	PaymentCard   = "CARD"
	PaymentCash   = "CASH"
)

// Order item statuses
const (
	ItemNotDelivered = "NOT_DELIVERED"
	ItemDelivered    = "DELIVERED"
)

// Delivery slots are fixed hourly bands.
const (
	Slot11to12 = "11:00-12:00"
	Slot12to13 = "12:00-13:00"
	Slot13to14 = "13:00-14:00"
	Slot14to15 = "14:00-15:00"
	Slot15to16 = "15:00-16:00"
	Slot16to17 = "16:00-17:00"
)

var validSlots = map[string]bool{
	Slot11to12: true,
	Slot12to13: true,
	Slot13to14: true,
	Slot14to15: true,
	Slot15to16: true,
	Slot16to17: true,
}

var validPaymentMethods = map[string]bool{
	PaymentWallet: true,
	PaymentUPI:    true,
	PaymentCard:   true,
	PaymentCash:   true,
}

// IsValidSlot reports whether s is a known delivery slot.
func IsValidSlot(s string) bool {
	return validSlots[s]
}

// IsValidPaymentMethod reports whether m is an accepted payment method.
func IsValidPaymentMethod(m string) bool {
	return validPaymentMethods[m]
}

// Order is the placed-order record. TotalAmount is the final charged
// amount after any coupon discount. CustomerID is nil for manual walk-in
// orders.
type Order struct {
	ID                uint        `json:"id" gorm:"primaryKey"`
	CustomerID        *uint       `json:"customer_id" gorm:"index"`
	OutletID          uint        `json:"outlet_id" gorm:"not null;index"`
	TotalAmount       float64     `json:"total_amount" gorm:"not null"`
	PaymentMethod     string      `json:"payment_method" gorm:"not null"`
	Status            string      `json:"status" gorm:"not null;index"`
	Type              string      `json:"type" gorm:"not null"`
	DeliveryDate      time.Time   `json:"delivery_date" gorm:"not null;index"`
	DeliverySlot      string      `json:"delivery_slot" gorm:"not null"`
	ExternalPaymentID *string     `json:"external_payment_id"`
	Items             []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. UnitPrice is the price snapshotted
// when the item was added to the cart; it is never recomputed from the
// product's current price.
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	UnitPrice float64   `json:"unit_price" gorm:"not null"`
	Status    string    `json:"status" gorm:"not null;default:'NOT_DELIVERED'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// Cart is the ephemeral per-customer basket. It is cleared in full as the
// final step of a successful order placement.
type Cart struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	CustomerID uint       `json:"customer_id" gorm:"not null;uniqueIndex"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (Cart) TableName() string {
	return "carts"
}

// CartItem keys on (cart, product); adding the same product again bumps the
// quantity instead of inserting a second row.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CartID    uint      `json:"cart_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (CartItem) TableName() string {
	return "cart_items"
}

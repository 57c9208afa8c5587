package kafka

import "time"

// OrderPlacedEvent announces a committed order.
type OrderPlacedEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	OrderID       uint      `json:"order_id"`
	CustomerID    *uint     `json:"customer_id,omitempty"`
	OutletID      uint      `json:"outlet_id"`
	TotalAmount   float64   `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	DeliverySlot  string    `json:"delivery_slot"`
	Timestamp     time.Time `json:"timestamp"`
}

// OrderCancelledEvent announces a cancelled order and how it was refunded.
type OrderCancelledEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	OrderID      uint      `json:"order_id"`
	CustomerID   *uint     `json:"customer_id,omitempty"`
	OutletID     uint      `json:"outlet_id"`
	RefundAmount float64   `json:"refund_amount"`
	RefundMethod string    `json:"refund_method"`
	Initiator    string    `json:"initiator"`
	Timestamp    time.Time `json:"timestamp"`
}

// WalletRechargedEvent announces a credited wallet top-up.
type WalletRechargedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	CustomerID uint      `json:"customer_id"`
	Amount     float64   `json:"amount"`
	Method     string    `json:"method"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeOrderPlaced     = "order.placed"
	EventTypeOrderCancelled  = "order.cancelled"
	EventTypeWalletRecharged = "wallet.recharged"
)

// Cancellation initiators
const (
	InitiatorCustomer = "customer"
	InitiatorSystem   = "system"
)

// Kafka topics
const (
	TopicOrderPlaced     = "order-placed"
	TopicOrderCancelled  = "order-cancelled"
	TopicWalletRecharged = "wallet-recharged"
)

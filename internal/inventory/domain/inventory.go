package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Inventory tracks the on-hand quantity for one product at one outlet.
// Quantity never goes below zero; every mutation goes through the ledger
// operations so a StockHistory row always accompanies it.
type Inventory struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	ProductID uint           `json:"product_id" gorm:"not null;uniqueIndex"`
	OutletID  uint           `json:"outlet_id" gorm:"not null;index"`
	Quantity  int            `json:"quantity" gorm:"not null;default:0"`
	Threshold int            `json:"threshold" gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Inventory) TableName() string {
	return "inventories"
}

// Stock movement actions
const (
	ActionAdd    = "ADD"
	ActionRemove = "REMOVE"
	ActionUpdate = "UPDATE"
)

// StockHistory is an append-only audit entry for a stock movement. Rows are
// never updated or deleted, and quantity is never recomputed from them;
// Inventory.Quantity stays the source of truth.
type StockHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	OutletID  uint      `json:"outlet_id" gorm:"not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Action    string    `json:"action" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (StockHistory) TableName() string {
	return "stock_histories"
}

// OrderLine is one requested product/quantity pair in a batch decrement.
type OrderLine struct {
	ProductID uint
	Quantity  int
}

var ErrInventoryNotFound = errors.New("inventory not found")

// LineFailure describes why a single line of a batch decrement was rejected.
type LineFailure struct {
	ProductID uint
	Requested int
	Available int
	Missing   bool
}

func (f LineFailure) String() string {
	if f.Missing {
		return fmt.Sprintf("product %d: no inventory record", f.ProductID)
	}
	return fmt.Sprintf("product %d: requested %d, available %d", f.ProductID, f.Requested, f.Available)
}

// StockCheckError reports every failed line of a batch decrement so the
// caller sees the full picture instead of the first bad line.
type StockCheckError struct {
	Failures []LineFailure
}

func (e *StockCheckError) Error() string {
	msgs := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		msgs = append(msgs, f.String())
	}
	return "insufficient stock: " + strings.Join(msgs, "; ")
}

// InventoryRepository defines the contract for inventory data access.
// The ledger operations take the caller's transaction handle; they never
// open a transaction of their own.
type InventoryRepository interface {
	Create(inventory *Inventory) error
	FindByProductID(productID uint) (*Inventory, error)
	FindByOutlet(outletID uint, limit, offset int) ([]Inventory, error)
	FindBelowThreshold(outletID uint) ([]Inventory, error)
	HistoryByProduct(productID uint, limit, offset int) ([]StockHistory, error)

	CheckAvailability(tx *gorm.DB, outletID uint, lines []OrderLine) error
	DecrementForOrder(tx *gorm.DB, outletID uint, lines []OrderLine) error
	IncrementForRestock(tx *gorm.DB, productID, outletID uint, amount int) error
}

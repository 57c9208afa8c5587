package domain

import (
	"time"

	"gorm.io/gorm"
)

// OrderRepository defines the contract for order and cart data access.
// Methods taking a tx handle participate in the orchestrator's transaction.
type OrderRepository interface {
	CreateOrder(tx *gorm.DB, order *Order) error
	FindByID(id uint) (*Order, error)
	FindByIDTx(tx *gorm.DB, id uint) (*Order, error)
	ListByCustomer(customerID uint, limit, offset int) ([]Order, error)

	// TransitionStatus flips an order's status only when it still holds the
	// expected prior state, reporting whether the write took effect. A
	// concurrent cancel and reconciliation sweep therefore cannot both
	// process the same order.
	TransitionStatus(tx *gorm.DB, orderID uint, from, to string) (bool, error)

	// FindOverduePending selects PENDING orders whose delivery date is
	// before the cutoff.
	FindOverduePending(before time.Time) ([]Order, error)

	ClearCart(tx *gorm.DB, customerID uint) error
}

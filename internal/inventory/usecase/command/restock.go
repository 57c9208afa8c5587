package command

import (
	"context"
	"fmt"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/domain"
	"gorm.io/gorm"
)

// RestockCommand represents a manual stock addition for one product.
type RestockCommand struct {
	ProductID uint
	OutletID  uint
	Amount    int
}

// RestockHandler handles manual restock commands.
type RestockHandler struct {
	db   *gorm.DB
	repo domain.InventoryRepository
}

// NewRestockHandler creates a new restock handler.
func NewRestockHandler(db *gorm.DB, repo domain.InventoryRepository) *RestockHandler {
	return &RestockHandler{db: db, repo: repo}
}

// Handle executes the restock command in its own transaction.
func (h *RestockHandler) Handle(ctx context.Context, cmd RestockCommand) error {
	if cmd.ProductID == 0 {
		return fmt.Errorf("product_id is required")
	}
	if cmd.OutletID == 0 {
		return fmt.Errorf("outlet_id is required")
	}
	if cmd.Amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}

	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return h.repo.IncrementForRestock(tx, cmd.ProductID, cmd.OutletID, cmd.Amount)
	})
}

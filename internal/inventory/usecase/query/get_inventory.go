package query

import (
	"fmt"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/domain"
)

// GetInventoryQuery represents the query to fetch inventory for a product.
type GetInventoryQuery struct {
	ProductID uint
}

// GetInventoryHandler handles get inventory queries.
type GetInventoryHandler struct {
	repo domain.InventoryRepository
}

// NewGetInventoryHandler creates a new get inventory handler.
func NewGetInventoryHandler(repo domain.InventoryRepository) *GetInventoryHandler {
	return &GetInventoryHandler{repo: repo}
}

// Handle executes the query.
func (h *GetInventoryHandler) Handle(q GetInventoryQuery) (*domain.Inventory, error) {
	if q.ProductID == 0 {
		return nil, fmt.Errorf("product_id is required")
	}
	return h.repo.FindByProductID(q.ProductID)
}

// LowStockQuery lists outlet inventory at or below its alert threshold.
type LowStockQuery struct {
	OutletID uint
}

// LowStockHandler handles low stock queries.
type LowStockHandler struct {
	repo domain.InventoryRepository
}

// NewLowStockHandler creates a new low stock handler.
func NewLowStockHandler(repo domain.InventoryRepository) *LowStockHandler {
	return &LowStockHandler{repo: repo}
}

// Handle executes the query.
func (h *LowStockHandler) Handle(q LowStockQuery) ([]domain.Inventory, error) {
	if q.OutletID == 0 {
		return nil, fmt.Errorf("outlet_id is required")
	}
	return h.repo.FindBelowThreshold(q.OutletID)
}

package repository

import (
	"errors"
	"fmt"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/domain"
	"gorm.io/gorm"
)

type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Inventory{}, &domain.StockHistory{})
}

func (r *GormInventoryRepository) Create(inventory *domain.Inventory) error {
	return r.db.Create(inventory).Error
}

func (r *GormInventoryRepository) FindByProductID(productID uint) (*domain.Inventory, error) {
	var inventory domain.Inventory
	err := r.db.Where("product_id = ?", productID).First(&inventory).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInventoryNotFound
		}
		return nil, err
	}
	return &inventory, nil
}

func (r *GormInventoryRepository) FindByOutlet(outletID uint, limit, offset int) ([]domain.Inventory, error) {
	var inventories []domain.Inventory
	err := r.db.Where("outlet_id = ?", outletID).
		Limit(limit).Offset(offset).
		Find(&inventories).Error
	return inventories, err
}

func (r *GormInventoryRepository) FindBelowThreshold(outletID uint) ([]domain.Inventory, error) {
	var inventories []domain.Inventory
	err := r.db.Where("outlet_id = ? AND quantity <= threshold", outletID).
		Find(&inventories).Error
	return inventories, err
}

func (r *GormInventoryRepository) HistoryByProduct(productID uint, limit, offset int) ([]domain.StockHistory, error) {
	var history []domain.StockHistory
	err := r.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&history).Error
	return history, err
}

// CheckAvailability validates a whole batch without mutating anything. The
// returned error carries every failed line so the caller sees the full
// picture, not just the first bad line.
func (r *GormInventoryRepository) CheckAvailability(tx *gorm.DB, outletID uint, lines []domain.OrderLine) error {
	var failures []domain.LineFailure
	for _, line := range lines {
		var inv domain.Inventory
		err := tx.Where("product_id = ? AND outlet_id = ?", line.ProductID, outletID).
			First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			failures = append(failures, domain.LineFailure{ProductID: line.ProductID, Requested: line.Quantity, Missing: true})
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read inventory for product %d: %w", line.ProductID, err)
		}
		if inv.Quantity < line.Quantity {
			failures = append(failures, domain.LineFailure{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: inv.Quantity,
			})
		}
	}
	if len(failures) > 0 {
		return &domain.StockCheckError{Failures: failures}
	}
	return nil
}

// DecrementForOrder re-validates the batch and decrements each line with a
// quantity guard in the WHERE clause, so a concurrent decrement can never
// drive quantity negative. All-or-nothing: one bad line fails the whole
// batch. Runs entirely on the caller's transaction and appends a REMOVE
// history row per line.
func (r *GormInventoryRepository) DecrementForOrder(tx *gorm.DB, outletID uint, lines []domain.OrderLine) error {
	if err := r.CheckAvailability(tx, outletID, lines); err != nil {
		return err
	}

	for _, line := range lines {
		res := tx.Model(&domain.Inventory{}).
			Where("product_id = ? AND outlet_id = ? AND quantity >= ?", line.ProductID, outletID, line.Quantity).
			Update("quantity", gorm.Expr("quantity - ?", line.Quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to decrement stock for product %d: %w", line.ProductID, res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race against a concurrent order; the guard clause
			// kept the row non-negative, so fail the batch.
			return &domain.StockCheckError{Failures: []domain.LineFailure{{
				ProductID: line.ProductID,
				Requested: line.Quantity,
			}}}
		}

		history := domain.StockHistory{
			ProductID: line.ProductID,
			OutletID:  outletID,
			Quantity:  line.Quantity,
			Action:    domain.ActionRemove,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to append stock history for product %d: %w", line.ProductID, err)
		}
	}

	return nil
}

// IncrementForRestock adds stock back for one product and appends an ADD
// history row. Used by cancellation compensation and manual restock.
func (r *GormInventoryRepository) IncrementForRestock(tx *gorm.DB, productID, outletID uint, amount int) error {
	res := tx.Model(&domain.Inventory{}).
		Where("product_id = ? AND outlet_id = ?", productID, outletID).
		Update("quantity", gorm.Expr("quantity + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to increment stock for product %d: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrInventoryNotFound
	}

	history := domain.StockHistory{
		ProductID: productID,
		OutletID:  outletID,
		Quantity:  amount,
		Action:    domain.ActionAdd,
	}
	if err := tx.Create(&history).Error; err != nil {
		return fmt.Errorf("failed to append stock history for product %d: %w", productID, err)
	}
	return nil
}

package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
	"gorm.io/gorm"
)

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Cart{},
		&domain.CartItem{},
	)
}

// CreateOrder inserts the order together with its items.
func (r *GormOrderRepository) CreateOrder(tx *gorm.DB, order *domain.Order) error {
	if err := tx.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *GormOrderRepository) FindByID(id uint) (*domain.Order, error) {
	return r.findByID(r.db, id)
}

func (r *GormOrderRepository) FindByIDTx(tx *gorm.DB, id uint) (*domain.Order, error) {
	return r.findByID(tx, id)
}

func (r *GormOrderRepository) findByID(db *gorm.DB, id uint) (*domain.Order, error) {
	var order domain.Order
	err := db.Preload("Items").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) ListByCustomer(customerID uint, limit, offset int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) TransitionStatus(tx *gorm.DB, orderID uint, from, to string) (bool, error) {
	res := tx.Model(&domain.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to transition order %d: %w", orderID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GormOrderRepository) FindOverduePending(before time.Time) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.Preload("Items").
		Where("status = ? AND delivery_date < ?", domain.StatusPending, before).
		Find(&orders).Error
	return orders, err
}

// ClearCart removes every item from the customer's cart. A missing cart is
// fine; manual orders have none.
func (r *GormOrderRepository) ClearCart(tx *gorm.DB, customerID uint) error {
	var cart domain.Cart
	err := tx.Where("customer_id = ?", customerID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cart: %w", err)
	}

	if err := tx.Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

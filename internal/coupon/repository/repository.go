package repository

import (
	"errors"
	"fmt"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon/domain"
	"gorm.io/gorm"
)

type GormCouponRepository struct {
	db *gorm.DB
}

func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

func (r *GormCouponRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Coupon{}, &domain.CouponUsage{})
}

func (r *GormCouponRepository) Create(coupon *domain.Coupon) error {
	return r.db.Create(coupon).Error
}

func (r *GormCouponRepository) FindByCode(tx *gorm.DB, code string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := tx.Where("code = ?", code).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

func (r *GormCouponRepository) HasUsage(tx *gorm.DB, couponID, userID uint) (bool, error) {
	var count int64
	err := tx.Model(&domain.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check coupon usage: %w", err)
	}
	return count > 0, nil
}

// RecordUsage appends the usage row. The (coupon_id, user_id) unique index
// turns a concurrent double-redeem into a duplicate-key error, surfaced as
// ErrAlreadyUsed.
func (r *GormCouponRepository) RecordUsage(tx *gorm.DB, usage *domain.CouponUsage) error {
	if err := tx.Create(usage).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyUsed
		}
		return fmt.Errorf("failed to record coupon usage: %w", err)
	}
	return nil
}

// IncrementUsedCount bumps used_count with the usage limit as a guard
// clause, so the counter can never pass the limit under concurrency.
func (r *GormCouponRepository) IncrementUsedCount(tx *gorm.DB, couponID uint) error {
	res := tx.Model(&domain.Coupon{}).
		Where("id = ? AND used_count < usage_limit", couponID).
		Update("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return fmt.Errorf("failed to increment coupon usage: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrLimitReached
	}
	return nil
}

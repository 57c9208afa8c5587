// Package coupon validates and redeems single-use discount codes against
// order totals.
package coupon

import (
	"time"

	"gorm.io/gorm"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/clock"
)

// Engine runs coupon validation and redemption inside a caller-owned
// transaction so a coupon is never marked used for an order that fails to
// commit.
type Engine struct {
	repo domain.CouponRepository
}

func NewEngine(repo domain.CouponRepository) *Engine {
	return &Engine{repo: repo}
}

// Validate checks a code against an order and returns the coupon with the
// discount it grants. Checks short-circuit in a fixed order: existence and
// active flag, validity window on the business clock, outlet, prior usage
// by this user, usage limit, minimum order value. The minimum is checked
// against the pre-discount total so the discount cannot retroactively
// disqualify the order.
func (e *Engine) Validate(tx *gorm.DB, code string, outletID, userID uint, orderTotal float64, now time.Time) (*domain.Coupon, float64, error) {
	coupon, err := e.repo.FindByCode(tx, code)
	if err != nil {
		return nil, 0, err
	}
	if !coupon.IsActive {
		return nil, 0, domain.ErrInactive
	}

	bizNow := now.In(clock.IST)
	if bizNow.Before(coupon.ValidFrom) || bizNow.After(coupon.ValidUntil) {
		return nil, 0, domain.ErrOutOfWindow
	}
	if coupon.OutletID != outletID {
		return nil, 0, domain.ErrWrongOutlet
	}

	used, err := e.repo.HasUsage(tx, coupon.ID, userID)
	if err != nil {
		return nil, 0, err
	}
	if used {
		return nil, 0, domain.ErrAlreadyUsed
	}
	if coupon.UsedCount >= coupon.UsageLimit {
		return nil, 0, domain.ErrLimitReached
	}
	if orderTotal < coupon.MinOrderValue {
		return nil, 0, domain.ErrBelowMinimum
	}

	return coupon, Discount(coupon.RewardValue, orderTotal), nil
}

// Discount computes the discount a reward value grants on a total. A value
// of at most 1 is a fraction of the total (exactly 1 means the whole
// total); anything above 1 is an absolute amount, capped at the total so
// the final amount never goes negative.
func Discount(rewardValue, orderTotal float64) float64 {
	if rewardValue <= 1 {
		return orderTotal * rewardValue
	}
	if rewardValue > orderTotal {
		return orderTotal
	}
	return rewardValue
}

// Commit redeems the coupon for the given order: one usage row plus a
// guarded used_count increment, both on the caller's transaction.
func (e *Engine) Commit(tx *gorm.DB, coupon *domain.Coupon, orderID, userID uint, discount float64) error {
	usage := &domain.CouponUsage{
		CouponID: coupon.ID,
		UserID:   userID,
		OrderID:  orderID,
		Discount: discount,
	}
	if err := e.repo.RecordUsage(tx, usage); err != nil {
		return err
	}
	return e.repo.IncrementUsedCount(tx, coupon.ID)
}

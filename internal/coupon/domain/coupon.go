package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Coupon is a per-outlet discount code. RewardValue is interpreted as a
// fraction of the order total when it is at most 1 (1 itself means 100%),
// and as an absolute currency amount otherwise. Validity timestamps are
// stored UTC; the business clock is IST.
type Coupon struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Code          string         `json:"code" gorm:"not null;uniqueIndex"`
	RewardValue   float64        `json:"reward_value" gorm:"not null"`
	MinOrderValue float64        `json:"min_order_value" gorm:"not null;default:0"`
	ValidFrom     time.Time      `json:"valid_from" gorm:"not null"`
	ValidUntil    time.Time      `json:"valid_until" gorm:"not null"`
	UsageLimit    int            `json:"usage_limit" gorm:"not null"`
	UsedCount     int            `json:"used_count" gorm:"not null;default:0"`
	IsActive      bool           `json:"is_active" gorm:"not null;default:true"`
	OutletID      uint           `json:"outlet_id" gorm:"not null;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Coupon) TableName() string {
	return "coupons"
}

// CouponUsage is the append-only record that a user redeemed a coupon on an
// order. The (coupon_id, user_id) unique index is the single-use
// enforcement: no row means unused, and concurrent redemptions collapse to
// exactly one winner at the store level.
type CouponUsage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CouponID  uint      `json:"coupon_id" gorm:"not null;uniqueIndex:idx_coupon_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_coupon_user"`
	OrderID   uint      `json:"order_id" gorm:"not null"`
	Discount  float64   `json:"discount" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (CouponUsage) TableName() string {
	return "coupon_usages"
}

// Validation failures, in the order the engine checks them.
var (
	ErrNotFound     = errors.New("coupon not found")
	ErrInactive     = errors.New("coupon is not active")
	ErrOutOfWindow  = errors.New("coupon is outside its validity window")
	ErrWrongOutlet  = errors.New("coupon belongs to a different outlet")
	ErrAlreadyUsed  = errors.New("coupon already used by this customer")
	ErrLimitReached = errors.New("coupon usage limit reached")
	ErrBelowMinimum = errors.New("order total is below the coupon minimum")
)

// IsCouponError reports whether err is one of the coupon validation
// failures above.
func IsCouponError(err error) bool {
	for _, sentinel := range []error{
		ErrNotFound, ErrInactive, ErrOutOfWindow, ErrWrongOutlet,
		ErrAlreadyUsed, ErrLimitReached, ErrBelowMinimum,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// CouponRepository defines the contract for coupon data access. All methods
// operate on the caller's transaction handle since validation and commit
// must share the order's atomic unit.
type CouponRepository interface {
	Create(coupon *Coupon) error
	FindByCode(tx *gorm.DB, code string) (*Coupon, error)
	HasUsage(tx *gorm.DB, couponID, userID uint) (bool, error)
	RecordUsage(tx *gorm.DB, usage *CouponUsage) error
	IncrementUsedCount(tx *gorm.DB, couponID uint) error
}

package domain

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Wallet holds a customer's prepaid balance. Balance never goes below zero;
// TotalRecharged and TotalUsed only ever grow. Created lazily on the first
// recharge or refund.
type Wallet struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CustomerID     uint           `json:"customer_id" gorm:"not null;uniqueIndex"`
	Balance        float64        `json:"balance" gorm:"not null;default:0"`
	TotalRecharged float64        `json:"total_recharged" gorm:"not null;default:0"`
	TotalUsed      float64        `json:"total_used" gorm:"not null;default:0"`
	LastRecharged  *time.Time     `json:"last_recharged"`
	LastOrder      *time.Time     `json:"last_order"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Wallet) TableName() string {
	return "wallets"
}

// Transaction statuses
const (
	StatusRecharge = "RECHARGE"
	StatusDeduct   = "DEDUCT"
)

// Recharge / payment methods
const (
	MethodCash   = "CASH"
	MethodUPI    = "UPI"
	MethodCard   = "CARD"
	MethodWallet = "WALLET"
)

// WalletTransaction is an append-only ledger entry. Amount is signed:
// positive for credits, negative for debits. GrossAmount and ServiceCharge
// are set only for gateway recharges. ExternalPaymentID is the idempotency
// key for gateway flows; the unique index rejects a second credit for the
// same gateway payment.
type WalletTransaction struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	WalletID          uint      `json:"wallet_id" gorm:"not null;index"`
	Amount            float64   `json:"amount" gorm:"not null"`
	GrossAmount       float64   `json:"gross_amount"`
	ServiceCharge     float64   `json:"service_charge"`
	Method            string    `json:"method" gorm:"not null"`
	Status            string    `json:"status" gorm:"not null"`
	ExternalPaymentID *string   `json:"external_payment_id" gorm:"uniqueIndex"`
	CreatedAt         time.Time `json:"created_at"`
}

// TableName specifies the table name
func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrDuplicatePayment    = errors.New("payment already credited")
)

// Credit describes a wallet credit to apply.
type Credit struct {
	CustomerID        uint
	Amount            float64
	GrossAmount       float64
	ServiceCharge     float64
	Method            string
	ExternalPaymentID *string
}

// WalletRepository defines the contract for wallet data access. The ledger
// operations take the caller's transaction handle so they can participate
// in a broader atomic unit.
type WalletRepository interface {
	FindByCustomerID(customerID uint) (*Wallet, error)
	TransactionsByCustomer(customerID uint, limit, offset int) ([]WalletTransaction, error)

	Debit(tx *gorm.DB, customerID uint, amount float64) error
	ApplyCredit(tx *gorm.DB, credit Credit) error
}

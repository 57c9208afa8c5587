package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
	"gorm.io/gorm"
)

type GormWalletRepository struct {
	db *gorm.DB
}

func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

func (r *GormWalletRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Wallet{}, &domain.WalletTransaction{})
}

func (r *GormWalletRepository) FindByCustomerID(customerID uint) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := r.db.Where("customer_id = ?", customerID).First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *GormWalletRepository) TransactionsByCustomer(customerID uint, limit, offset int) ([]domain.WalletTransaction, error) {
	wallet, err := r.FindByCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	var transactions []domain.WalletTransaction
	err = r.db.Where("wallet_id = ?", wallet.ID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&transactions).Error
	return transactions, err
}

// Debit withdraws amount from the customer's wallet inside the caller's
// transaction. The balance guard lives in the WHERE clause, so a concurrent
// debit can never push the balance negative. A DEDUCT ledger row is
// appended alongside.
func (r *GormWalletRepository) Debit(tx *gorm.DB, customerID uint, amount float64) error {
	var wallet domain.Wallet
	err := tx.Where("customer_id = ?", customerID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrWalletNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read wallet: %w", err)
	}

	now := time.Now()
	res := tx.Model(&domain.Wallet{}).
		Where("id = ? AND balance >= ?", wallet.ID, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"total_used": gorm.Expr("total_used + ?", amount),
			"last_order": now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to debit wallet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrInsufficientBalance
	}

	entry := domain.WalletTransaction{
		WalletID: wallet.ID,
		Amount:   -amount,
		Method:   domain.MethodWallet,
		Status:   domain.StatusDeduct,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append wallet transaction: %w", err)
	}
	return nil
}

// ApplyCredit adds funds to the customer's wallet inside the caller's
// transaction, creating the wallet lazily if it does not exist yet. When an
// external payment id is supplied, a previously recorded transaction with
// the same id rejects the credit so gateway retries cannot double-credit.
func (r *GormWalletRepository) ApplyCredit(tx *gorm.DB, credit domain.Credit) error {
	var wallet domain.Wallet
	err := tx.Where("customer_id = ?", credit.CustomerID).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = domain.Wallet{CustomerID: credit.CustomerID}
		if err := tx.Create(&wallet).Error; err != nil {
			return fmt.Errorf("failed to create wallet: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to read wallet: %w", err)
	}

	// The ledger row goes in first. The external_payment_id unique index
	// turns a replayed gateway payment into a duplicate-key error before
	// any balance moves, even when two replays land concurrently.
	entry := domain.WalletTransaction{
		WalletID:          wallet.ID,
		Amount:            credit.Amount,
		GrossAmount:       credit.GrossAmount,
		ServiceCharge:     credit.ServiceCharge,
		Method:            credit.Method,
		Status:            domain.StatusRecharge,
		ExternalPaymentID: credit.ExternalPaymentID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicatePayment
		}
		return fmt.Errorf("failed to append wallet transaction: %w", err)
	}

	now := time.Now()
	res := tx.Model(&domain.Wallet{}).
		Where("id = ?", wallet.ID).
		Updates(map[string]interface{}{
			"balance":         gorm.Expr("balance + ?", credit.Amount),
			"total_recharged": gorm.Expr("total_recharged + ?", credit.Amount),
			"last_recharged":  now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to credit wallet: %w", res.Error)
	}
	return nil
}

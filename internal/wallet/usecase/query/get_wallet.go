package query

import (
	"fmt"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
)

// GetWalletQuery represents the query to fetch a customer's wallet.
type GetWalletQuery struct {
	CustomerID uint
}

// GetWalletHandler handles get wallet queries.
type GetWalletHandler struct {
	repo domain.WalletRepository
}

// NewGetWalletHandler creates a new get wallet handler.
func NewGetWalletHandler(repo domain.WalletRepository) *GetWalletHandler {
	return &GetWalletHandler{repo: repo}
}

// Handle executes the query.
func (h *GetWalletHandler) Handle(q GetWalletQuery) (*domain.Wallet, error) {
	if q.CustomerID == 0 {
		return nil, fmt.Errorf("customer_id is required")
	}
	return h.repo.FindByCustomerID(q.CustomerID)
}

// ListTransactionsQuery pages through a wallet's ledger entries.
type ListTransactionsQuery struct {
	CustomerID uint
	Limit      int
	Offset     int
}

// ListTransactionsHandler handles wallet transaction listing.
type ListTransactionsHandler struct {
	repo domain.WalletRepository
}

// NewListTransactionsHandler creates a new list transactions handler.
func NewListTransactionsHandler(repo domain.WalletRepository) *ListTransactionsHandler {
	return &ListTransactionsHandler{repo: repo}
}

// Handle executes the query.
func (h *ListTransactionsHandler) Handle(q ListTransactionsQuery) ([]domain.WalletTransaction, error) {
	if q.CustomerID == 0 {
		return nil, fmt.Errorf("customer_id is required")
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	return h.repo.TransactionsByCustomer(q.CustomerID, q.Limit, q.Offset)
}

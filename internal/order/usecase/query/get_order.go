package query

import (
	"fmt"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
)

// GetOrderQuery represents the query to fetch one order with its items.
type GetOrderQuery struct {
	OrderID uint
}

// GetOrderHandler handles get order queries.
type GetOrderHandler struct {
	repo domain.OrderRepository
}

// NewGetOrderHandler creates a new get order handler.
func NewGetOrderHandler(repo domain.OrderRepository) *GetOrderHandler {
	return &GetOrderHandler{repo: repo}
}

// Handle executes the query.
func (h *GetOrderHandler) Handle(q GetOrderQuery) (*domain.Order, error) {
	if q.OrderID == 0 {
		return nil, fmt.Errorf("order_id is required")
	}
	return h.repo.FindByID(q.OrderID)
}

// ListOrdersQuery pages through a customer's orders, newest first.
type ListOrdersQuery struct {
	CustomerID uint
	Limit      int
	Offset     int
}

// ListOrdersHandler handles order listing.
type ListOrdersHandler struct {
	repo domain.OrderRepository
}

// NewListOrdersHandler creates a new list orders handler.
func NewListOrdersHandler(repo domain.OrderRepository) *ListOrdersHandler {
	return &ListOrdersHandler{repo: repo}
}

// Handle executes the query.
func (h *ListOrdersHandler) Handle(q ListOrdersQuery) ([]domain.Order, error) {
	if q.CustomerID == 0 {
		return nil, fmt.Errorf("customer_id is required")
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	return h.repo.ListByCustomer(q.CustomerID, q.Limit, q.Offset)
}

package command

import (
	"context"
	"errors"

	"gorm.io/gorm"

	inventorydomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
	walletdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/kafka"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/logger"
)

// CancelOrderCommand cancels a pending order. System is set by the
// reconciliation sweep, which bypasses the ownership check.
type CancelOrderCommand struct {
	OrderID    uint
	CustomerID uint
	System     bool
}

// CancelOrderResult reports the refund the caller should display. CASH
// orders report their method but carry no wallet mutation; cash settles
// out-of-band.
type CancelOrderResult struct {
	Order        *domain.Order `json:"order"`
	RefundAmount float64       `json:"refund_amount"`
	RefundMethod string        `json:"refund_method"`
}

// CancelOrderHandler compensates a pending order: status to CANCELLED,
// stock restored, payment refunded to the wallet.
type CancelOrderHandler struct {
	db        *gorm.DB
	orders    domain.OrderRepository
	inventory inventorydomain.InventoryRepository
	wallets   walletdomain.WalletRepository
	publisher *kafka.Publisher
}

// NewCancelOrderHandler creates a new cancel order handler. The publisher
// may be nil when event fan-out is disabled.
func NewCancelOrderHandler(
	db *gorm.DB,
	orders domain.OrderRepository,
	inventory inventorydomain.InventoryRepository,
	wallets walletdomain.WalletRepository,
	publisher *kafka.Publisher,
) *CancelOrderHandler {
	return &CancelOrderHandler{
		db:        db,
		orders:    orders,
		inventory: inventory,
		wallets:   wallets,
		publisher: publisher,
	}
}

// Handle runs the compensation atomically. The status transition is
// conditional on the order still being PENDING, so a concurrent cancel or
// reconciliation sweep makes at most one of them win. Coupon usage is
// deliberately not reversed: a cancelled order still consumes the
// customer's one-time coupon eligibility.
func (h *CancelOrderHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*CancelOrderResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, TxTimeout)
	defer cancel()

	var result *CancelOrderResult
	err := h.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		order, err := h.orders.FindByIDTx(tx, cmd.OrderID)
		if err != nil {
			return err
		}

		if !cmd.System {
			if order.CustomerID == nil || *order.CustomerID != cmd.CustomerID {
				return domain.ErrNotOwned
			}
		}

		transitioned, err := h.orders.TransitionStatus(tx, order.ID, domain.StatusPending, domain.StatusCancelled)
		if err != nil {
			return err
		}
		if !transitioned {
			return domain.ErrNotCancellable
		}

		for _, item := range order.Items {
			if err := h.inventory.IncrementForRestock(tx, item.ProductID, order.OutletID, item.Quantity); err != nil {
				return err
			}
		}

		refundMethod := order.PaymentMethod
		refundAmount := order.TotalAmount
		if order.PaymentMethod != domain.PaymentCash && order.CustomerID != nil {
			err := h.wallets.ApplyCredit(tx, walletdomain.Credit{
				CustomerID: *order.CustomerID,
				Amount:     order.TotalAmount,
				Method:     order.PaymentMethod,
			})
			if err != nil {
				return err
			}
		}

		order.Status = domain.StatusCancelled
		result = &CancelOrderResult{
			Order:        order,
			RefundAmount: refundAmount,
			RefundMethod: refundMethod,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) || errors.Is(err, domain.ErrNotOwned) || errors.Is(err, domain.ErrNotCancellable) {
			return nil, domain.NewTypedError(domain.CodeValidation, err)
		}
		return nil, classify(err)
	}

	h.publishCancelled(ctx, cmd, result)
	return result, nil
}

func (h *CancelOrderHandler) publishCancelled(ctx context.Context, cmd CancelOrderCommand, result *CancelOrderResult) {
	if h.publisher == nil {
		return
	}

	initiator := kafka.InitiatorCustomer
	if cmd.System {
		initiator = kafka.InitiatorSystem
	}
	event := kafka.OrderCancelledEvent{
		OrderID:      result.Order.ID,
		CustomerID:   result.Order.CustomerID,
		OutletID:     result.Order.OutletID,
		RefundAmount: result.RefundAmount,
		RefundMethod: result.RefundMethod,
		Initiator:    initiator,
	}
	if err := h.publisher.PublishOrderCancelled(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Uint("order_id", result.Order.ID).Msg("order cancelled event not published")
	}
}

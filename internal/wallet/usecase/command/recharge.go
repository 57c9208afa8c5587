package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/payment"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/kafka"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/logger"
)

// InitiateRechargeCommand asks the gateway for a checkout order covering the
// requested wallet top-up plus the service charge.
type InitiateRechargeCommand struct {
	CustomerID uint
	Amount     float64
}

// InitiateRechargeResult carries what the client needs to open the checkout.
type InitiateRechargeResult struct {
	GatewayOrderID string  `json:"gateway_order_id"`
	WalletAmount   float64 `json:"wallet_amount"`
	ServiceCharge  float64 `json:"service_charge"`
	GrossAmount    float64 `json:"gross_amount"`
}

// InitiateRechargeHandler handles recharge initiation.
type InitiateRechargeHandler struct {
	gateway payment.Gateway
}

// NewInitiateRechargeHandler creates a new initiate recharge handler.
func NewInitiateRechargeHandler(gateway payment.Gateway) *InitiateRechargeHandler {
	return &InitiateRechargeHandler{gateway: gateway}
}

// Handle creates the gateway order for the gross amount.
func (h *InitiateRechargeHandler) Handle(ctx context.Context, cmd InitiateRechargeCommand) (*InitiateRechargeResult, error) {
	if cmd.CustomerID == 0 {
		return nil, fmt.Errorf("customer_id is required")
	}
	if cmd.Amount <= 0 {
		return nil, fmt.Errorf("amount must be greater than 0")
	}

	gross, charge := domain.ServiceChargeBreakdown(cmd.Amount)
	receipt := fmt.Sprintf("rcg-%d-%s", cmd.CustomerID, uuid.New().String()[:8])

	order, err := h.gateway.CreateOrder(ctx, gross, "INR", receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	return &InitiateRechargeResult{
		GatewayOrderID: order.ID,
		WalletAmount:   cmd.Amount,
		ServiceCharge:  charge,
		GrossAmount:    gross,
	}, nil
}

// RechargeCommand credits a wallet, either from a cash deposit recorded by
// outlet staff or from a verified gateway payment.
type RechargeCommand struct {
	CustomerID uint
	Amount     float64
	Method     string

	// Gateway proof, required for UPI/CARD recharges.
	GatewayOrderID string
	PaymentID      string
	Signature      string
}

// RechargeHandler handles wallet recharge commands.
type RechargeHandler struct {
	db        *gorm.DB
	repo      domain.WalletRepository
	gateway   payment.Gateway
	verifier  *payment.Verifier
	publisher *kafka.Publisher
}

// NewRechargeHandler creates a new recharge handler. The publisher may be
// nil when event fan-out is disabled.
func NewRechargeHandler(db *gorm.DB, repo domain.WalletRepository, gateway payment.Gateway, verifier *payment.Verifier, publisher *kafka.Publisher) *RechargeHandler {
	return &RechargeHandler{db: db, repo: repo, gateway: gateway, verifier: verifier, publisher: publisher}
}

// Handle verifies the payment when one is involved, then credits the wallet
// atomically. Gateway verification happens before the write transaction
// opens so no locks are held across network I/O.
func (h *RechargeHandler) Handle(ctx context.Context, cmd RechargeCommand) error {
	if cmd.CustomerID == 0 {
		return fmt.Errorf("customer_id is required")
	}
	if cmd.Amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}

	credit := domain.Credit{
		CustomerID: cmd.CustomerID,
		Amount:     cmd.Amount,
		Method:     cmd.Method,
	}

	switch cmd.Method {
	case domain.MethodCash:
		// Manual deposit, no gateway round trip.
	case domain.MethodUPI, domain.MethodCard:
		if cmd.GatewayOrderID == "" || cmd.PaymentID == "" || cmd.Signature == "" {
			return fmt.Errorf("payment proof is required for %s recharge", cmd.Method)
		}
		if !h.verifier.Verify(cmd.GatewayOrderID, cmd.PaymentID, cmd.Signature) {
			return payment.ErrInvalidSignature
		}

		info, err := h.gateway.FetchPayment(ctx, cmd.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to fetch payment: %w", err)
		}
		if !info.IsPaid() {
			return payment.ErrPaymentNotCaptured
		}

		gross, charge := domain.ServiceChargeBreakdown(cmd.Amount)
		if !payment.AmountMatches(info.Amount, gross) {
			return payment.ErrAmountMismatch
		}

		paymentID := cmd.PaymentID
		credit.GrossAmount = gross
		credit.ServiceCharge = charge
		credit.ExternalPaymentID = &paymentID
	default:
		return fmt.Errorf("unsupported recharge method: %s", cmd.Method)
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return h.repo.ApplyCredit(tx, credit)
	})
	if err != nil {
		return err
	}

	h.publishRecharged(ctx, cmd)
	return nil
}

func (h *RechargeHandler) publishRecharged(ctx context.Context, cmd RechargeCommand) {
	if h.publisher == nil {
		return
	}
	event := kafka.WalletRechargedEvent{
		CustomerID: cmd.CustomerID,
		Amount:     cmd.Amount,
		Method:     cmd.Method,
	}
	if err := h.publisher.PublishWalletRecharged(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Uint("customer_id", cmd.CustomerID).Msg("wallet recharged event not published")
	}
}

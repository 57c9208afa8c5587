package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	catalogdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/catalog/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon"
	coupondomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon/domain"
	customerdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/customer/domain"
	inventorydomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/payment"
	walletdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/kafka"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/clock"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/logger"
)

// TxTimeout bounds the placement transaction. Generous because the window
// sits between stock rows being locked and the commit; gateway round trips
// deliberately happen before the transaction opens.
const TxTimeout = 15 * time.Second

// OrderItemRequest is one cart line in a placement request. UnitPrice is
// the price the customer saw when adding to the cart and is what the order
// item records.
type OrderItemRequest struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// PaymentProof is the gateway checkout result attached to UPI/CARD orders.
type PaymentProof struct {
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

// PlaceOrderCommand represents a placement request with validated-caller
// identity. TotalAmount is the pre-discount cart total.
type PlaceOrderCommand struct {
	CustomerID    uint
	OutletID      uint
	Items         []OrderItemRequest
	TotalAmount   float64
	PaymentMethod string
	DeliverySlot  string
	CouponCode    string
	Proof         *PaymentProof
}

// PlaceOrderHandler executes the order placement transaction: validate,
// verify payment, check stock, apply coupon, take payment, decrement
// inventory, create the order, clear the cart. Every step commits or none
// do.
type PlaceOrderHandler struct {
	db        *gorm.DB
	orders    domain.OrderRepository
	inventory inventorydomain.InventoryRepository
	wallets   walletdomain.WalletRepository
	coupons   *coupon.Engine
	customers customerdomain.CustomerRepository
	catalog   catalogdomain.CatalogRepository
	verifier  *payment.Verifier
	gateway   payment.Gateway
	publisher *kafka.Publisher
}

// NewPlaceOrderHandler creates a new place order handler. The publisher may
// be nil when event fan-out is disabled.
func NewPlaceOrderHandler(
	db *gorm.DB,
	orders domain.OrderRepository,
	inventory inventorydomain.InventoryRepository,
	wallets walletdomain.WalletRepository,
	coupons *coupon.Engine,
	customers customerdomain.CustomerRepository,
	catalog catalogdomain.CatalogRepository,
	verifier *payment.Verifier,
	gateway payment.Gateway,
	publisher *kafka.Publisher,
) *PlaceOrderHandler {
	return &PlaceOrderHandler{
		db:        db,
		orders:    orders,
		inventory: inventory,
		wallets:   wallets,
		coupons:   coupons,
		customers: customers,
		catalog:   catalog,
		verifier:  verifier,
		gateway:   gateway,
		publisher: publisher,
	}
}

// Handle runs the placement. Gateway verification happens before the write
// transaction opens so no row locks are held across network I/O; every
// database mutation happens inside one transaction and rolls back together.
func (h *PlaceOrderHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	if err := h.validate(cmd); err != nil {
		return nil, domain.NewTypedError(domain.CodeValidation, err)
	}

	var externalPaymentID *string
	if cmd.PaymentMethod == domain.PaymentUPI || cmd.PaymentMethod == domain.PaymentCard {
		if cmd.Proof == nil {
			return nil, domain.NewTypedError(domain.CodePayment, errors.New("payment proof is required"))
		}
		if err := h.verifyPayment(ctx, cmd); err != nil {
			return nil, domain.NewTypedError(domain.CodePayment, err)
		}
		paymentID := cmd.Proof.PaymentID
		externalPaymentID = &paymentID
	}

	customer, err := h.customers.FindByID(cmd.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewTypedError(domain.CodeValidation, errors.New("customer not found"))
		}
		return nil, domain.NewTypedError(domain.CodeServer, err)
	}

	lines := make([]inventorydomain.OrderLine, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		lines = append(lines, inventorydomain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	txCtx, cancel := context.WithTimeout(ctx, TxTimeout)
	defer cancel()

	var order *domain.Order
	err = h.db.WithContext(txCtx).Transaction(func(tx *gorm.DB) error {
		if err := h.inventory.CheckAvailability(tx, cmd.OutletID, lines); err != nil {
			return err
		}

		finalAmount := cmd.TotalAmount
		var appliedCoupon *coupondomain.Coupon
		var discount float64
		if cmd.CouponCode != "" {
			appliedCoupon, discount, err = h.coupons.Validate(tx, cmd.CouponCode, cmd.OutletID, customer.ID, cmd.TotalAmount, time.Now())
			if err != nil {
				return err
			}
			finalAmount = cmd.TotalAmount - discount
		}

		if cmd.PaymentMethod == domain.PaymentWallet {
			if err := h.wallets.Debit(tx, customer.ID, finalAmount); err != nil {
				return err
			}
		}

		if err := h.inventory.DecrementForOrder(tx, cmd.OutletID, lines); err != nil {
			return err
		}

		items := make([]domain.OrderItem, 0, len(cmd.Items))
		for _, item := range cmd.Items {
			items = append(items, domain.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Status:    domain.ItemNotDelivered,
			})
		}

		customerID := customer.ID
		order = &domain.Order{
			CustomerID:        &customerID,
			OutletID:          cmd.OutletID,
			TotalAmount:       finalAmount,
			PaymentMethod:     cmd.PaymentMethod,
			Status:            domain.StatusPending,
			Type:              domain.TypeApp,
			DeliveryDate:      clock.StartOfDayIST(time.Now()),
			DeliverySlot:      cmd.DeliverySlot,
			ExternalPaymentID: externalPaymentID,
			Items:             items,
		}
		if err := h.orders.CreateOrder(tx, order); err != nil {
			return err
		}

		if err := h.orders.ClearCart(tx, customer.ID); err != nil {
			return err
		}

		if appliedCoupon != nil {
			if err := h.coupons.Commit(tx, appliedCoupon, order.ID, customer.ID, discount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	h.publishPlaced(ctx, order)
	return order, nil
}

func (h *PlaceOrderHandler) validate(cmd PlaceOrderCommand) error {
	if cmd.CustomerID == 0 {
		return errors.New("customer_id is required")
	}
	if cmd.TotalAmount <= 0 {
		return errors.New("total_amount must be greater than 0")
	}
	if !domain.IsValidPaymentMethod(cmd.PaymentMethod) {
		return fmt.Errorf("invalid payment method: %s", cmd.PaymentMethod)
	}
	if !domain.IsValidSlot(cmd.DeliverySlot) {
		return fmt.Errorf("invalid delivery slot: %s", cmd.DeliverySlot)
	}
	if len(cmd.Items) == 0 {
		return errors.New("order must contain at least one item")
	}
	for _, item := range cmd.Items {
		if item.ProductID == 0 || item.Quantity <= 0 {
			return fmt.Errorf("invalid order line for product %d", item.ProductID)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("invalid unit price for product %d", item.ProductID)
		}
	}

	outlet, err := h.catalog.FindOutletByID(cmd.OutletID)
	if err != nil {
		return errors.New("outlet not found")
	}
	if !outlet.IsActive {
		return errors.New("outlet is not active")
	}
	return nil
}

func (h *PlaceOrderHandler) verifyPayment(ctx context.Context, cmd PlaceOrderCommand) error {
	if cmd.Proof.GatewayOrderID == "" || cmd.Proof.PaymentID == "" || cmd.Proof.Signature == "" {
		return errors.New("incomplete payment proof")
	}
	if !h.verifier.Verify(cmd.Proof.GatewayOrderID, cmd.Proof.PaymentID, cmd.Proof.Signature) {
		return payment.ErrInvalidSignature
	}

	info, err := h.gateway.FetchPayment(ctx, cmd.Proof.PaymentID)
	if err != nil {
		return fmt.Errorf("failed to fetch payment: %w", err)
	}
	if !info.IsPaid() {
		return payment.ErrPaymentNotCaptured
	}
	if !payment.AmountMatches(info.Amount, cmd.TotalAmount) {
		return payment.ErrAmountMismatch
	}
	return nil
}

func (h *PlaceOrderHandler) publishPlaced(ctx context.Context, order *domain.Order) {
	if h.publisher == nil {
		return
	}
	event := kafka.OrderPlacedEvent{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		OutletID:      order.OutletID,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: order.PaymentMethod,
		DeliverySlot:  order.DeliverySlot,
	}
	if err := h.publisher.PublishOrderPlaced(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Uint("order_id", order.ID).Msg("order placed event not published")
	}
}

// classify maps ledger and engine failures into the caller-facing taxonomy.
// Unknown store errors surface as SERVER_ERROR so internals never leak.
func classify(err error) error {
	var typed *domain.TypedError
	if errors.As(err, &typed) {
		return err
	}

	var stockErr *inventorydomain.StockCheckError
	switch {
	case errors.As(err, &stockErr), errors.Is(err, inventorydomain.ErrInventoryNotFound):
		return domain.NewTypedError(domain.CodeStock, err)
	case errors.Is(err, walletdomain.ErrInsufficientBalance), errors.Is(err, walletdomain.ErrWalletNotFound):
		return domain.NewTypedError(domain.CodeWallet, err)
	case errors.Is(err, walletdomain.ErrDuplicatePayment):
		return domain.NewTypedError(domain.CodeDuplicatePayment, err)
	case coupondomain.IsCouponError(err):
		return domain.NewTypedError(domain.CodeCoupon, err)
	case errors.Is(err, payment.ErrInvalidSignature),
		errors.Is(err, payment.ErrPaymentNotCaptured),
		errors.Is(err, payment.ErrAmountMismatch):
		return domain.NewTypedError(domain.CodePayment, err)
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrNotOwned),
		errors.Is(err, domain.ErrNotCancellable):
		return domain.NewTypedError(domain.CodeValidation, err)
	default:
		return domain.NewTypedError(domain.CodeServer, err)
	}
}

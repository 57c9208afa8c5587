package command

import (
	"context"
	"errors"
	"testing"
	"time"

	coupondomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/payment"
	walletdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
)

func TestPlaceOrderWalletHappyPath(t *testing.T) {
	env := newTestEnv(t, &stubGateway{})
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Masala Dosa", 100, 10)
	env.seedWallet(t, customer.ID, 500)
	env.seedCart(t, customer.ID, product.ID, 2)

	order, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 2, UnitPrice: 100}},
		TotalAmount:   200,
		PaymentMethod: domain.PaymentWallet,
		DeliverySlot:  domain.Slot12to13,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if order.Status != domain.StatusPending {
		t.Fatalf("expected PENDING, got %s", order.Status)
	}
	if order.TotalAmount != 200 {
		t.Fatalf("expected total 200, got %v", order.TotalAmount)
	}
	if len(order.Items) != 1 || order.Items[0].UnitPrice != 100 || order.Items[0].Status != domain.ItemNotDelivered {
		t.Fatalf("unexpected items: %+v", order.Items)
	}

	if got := env.stockOf(t, product.ID); got != 8 {
		t.Fatalf("expected stock 8, got %d", got)
	}
	wallet := env.walletOf(t, customer.ID)
	if wallet.Balance != 300 {
		t.Fatalf("expected wallet balance 300, got %v", wallet.Balance)
	}

	var cartItems int64
	if err := env.db.Model(&domain.CartItem{}).Count(&cartItems).Error; err != nil {
		t.Fatalf("count cart items: %v", err)
	}
	if cartItems != 0 {
		t.Fatalf("cart not cleared: %d items left", cartItems)
	}
}

func TestPlaceOrderAppliesCoupon(t *testing.T) {
	env := newTestEnv(t, &stubGateway{})
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Thali", 250, 10)
	env.seedWallet(t, customer.ID, 1000)

	seeded := &coupondomain.Coupon{
		Code: "SAVE25", RewardValue: 0.25, MinOrderValue: 100,
		ValidFrom: time.Now().Add(-time.Hour), ValidUntil: time.Now().Add(time.Hour),
		UsageLimit: 10, IsActive: true, OutletID: outlet.ID,
	}
	if err := env.db.Create(seeded).Error; err != nil {
		t.Fatalf("seed coupon: %v", err)
	}

	order, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 2, UnitPrice: 250}},
		TotalAmount:   500,
		PaymentMethod: domain.PaymentWallet,
		DeliverySlot:  domain.Slot13to14,
		CouponCode:    "SAVE25",
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if order.TotalAmount != 375 {
		t.Fatalf("expected discounted total 375, got %v", order.TotalAmount)
	}
	wallet := env.walletOf(t, customer.ID)
	if wallet.Balance != 625 {
		t.Fatalf("expected wallet debited by 375, balance %v", wallet.Balance)
	}

	var usage coupondomain.CouponUsage
	if err := env.db.Where("order_id = ?", order.ID).First(&usage).Error; err != nil {
		t.Fatalf("usage row missing: %v", err)
	}
	if usage.Discount != 125 {
		t.Fatalf("expected recorded discount 125, got %v", usage.Discount)
	}
	var reloaded coupondomain.Coupon
	if err := env.db.First(&reloaded, seeded.ID).Error; err != nil {
		t.Fatalf("reload coupon: %v", err)
	}
	if reloaded.UsedCount != 1 {
		t.Fatalf("expected used_count 1, got %d", reloaded.UsedCount)
	}
}

func TestPlaceOrderInsufficientWalletLeavesStock(t *testing.T) {
	env := newTestEnv(t, &stubGateway{})
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Biryani", 200, 10)
	env.seedWallet(t, customer.ID, 100)

	_, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 1, UnitPrice: 200}},
		TotalAmount:   200,
		PaymentMethod: domain.PaymentWallet,
		DeliverySlot:  domain.Slot11to12,
	})
	if !errors.Is(err, walletdomain.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if code := domain.CodeOf(err); code != domain.CodeWallet {
		t.Fatalf("expected WALLET_ERROR, got %s", code)
	}
	if !domain.CodeOf(err).Retryable() {
		t.Fatal("wallet failure should be retryable")
	}

	if got := env.stockOf(t, product.ID); got != 10 {
		t.Fatalf("stock mutated on failed payment: %d", got)
	}
	if env.orderCount(t) != 0 {
		t.Fatal("order row written for failed placement")
	}
	wallet := env.walletOf(t, customer.ID)
	if wallet.Balance != 100 {
		t.Fatalf("wallet mutated on failed placement: %v", wallet.Balance)
	}
}

func TestPlaceOrderStockFailureTouchesNothing(t *testing.T) {
	env := newTestEnv(t, &stubGateway{})
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Idli", 50, 1)
	env.seedWallet(t, customer.ID, 500)

	_, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 3, UnitPrice: 50}},
		TotalAmount:   150,
		PaymentMethod: domain.PaymentWallet,
		DeliverySlot:  domain.Slot11to12,
	})
	if code := domain.CodeOf(err); code != domain.CodeStock {
		t.Fatalf("expected STOCK_ERROR, got %s (%v)", code, err)
	}

	wallet := env.walletOf(t, customer.ID)
	if wallet.Balance != 500 {
		t.Fatalf("wallet touched on stock failure: %v", wallet.Balance)
	}
	if env.orderCount(t) != 0 {
		t.Fatal("order row written despite stock failure")
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	env := newTestEnv(t, &stubGateway{})
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Vada", 30, 10)

	base := PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 1, UnitPrice: 30}},
		TotalAmount:   30,
		PaymentMethod: domain.PaymentCash,
		DeliverySlot:  domain.Slot11to12,
	}

	cases := []struct {
		name   string
		mutate func(*PlaceOrderCommand)
	}{
		{"zero total", func(c *PlaceOrderCommand) { c.TotalAmount = 0 }},
		{"bad method", func(c *PlaceOrderCommand) { c.PaymentMethod = "CRYPTO" }},
		{"bad slot", func(c *PlaceOrderCommand) { c.DeliverySlot = "18:00-19:00" }},
		{"no items", func(c *PlaceOrderCommand) { c.Items = nil }},
		{"zero quantity", func(c *PlaceOrderCommand) { c.Items = []OrderItemRequest{{ProductID: product.ID, Quantity: 0, UnitPrice: 30}} }},
		{"unknown outlet", func(c *PlaceOrderCommand) { c.OutletID = 999 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := base
			tc.mutate(&cmd)
			_, err := env.place.Handle(context.Background(), cmd)
			if code := domain.CodeOf(err); code != domain.CodeValidation {
				t.Fatalf("expected VALIDATION_ERROR, got %s (%v)", code, err)
			}
		})
	}
}

func TestPlaceOrderUPIRequiresProof(t *testing.T) {
	env := newTestEnv(t, &stubGateway{})
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Pongal", 80, 10)

	_, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 1, UnitPrice: 80}},
		TotalAmount:   80,
		PaymentMethod: domain.PaymentUPI,
		DeliverySlot:  domain.Slot14to15,
	})
	if code := domain.CodeOf(err); code != domain.CodePayment {
		t.Fatalf("expected PAYMENT_ERROR, got %s (%v)", code, err)
	}
	if domain.CodeOf(err).Retryable() {
		t.Fatal("payment failure must not be retryable")
	}
}

func TestPlaceOrderUPIHappyPath(t *testing.T) {
	gw := &stubGateway{payment: &payment.PaymentInfo{
		ID: "pay_u1", Status: payment.StatusCaptured, Amount: 160, Method: "upi",
	}}
	env := newTestEnv(t, gw)
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Paratha", 80, 10)

	order, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 2, UnitPrice: 80}},
		TotalAmount:   160,
		PaymentMethod: domain.PaymentUPI,
		DeliverySlot:  domain.Slot15to16,
		Proof: &PaymentProof{
			GatewayOrderID: "order_u1",
			PaymentID:      "pay_u1",
			Signature:      testSign("order_u1", "pay_u1"),
		},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if order.ExternalPaymentID == nil || *order.ExternalPaymentID != "pay_u1" {
		t.Fatalf("external payment id not recorded: %v", order.ExternalPaymentID)
	}
	if got := env.stockOf(t, product.ID); got != 8 {
		t.Fatalf("expected stock 8, got %d", got)
	}
}

func TestPlaceOrderUPIBadSignature(t *testing.T) {
	gw := &stubGateway{payment: &payment.PaymentInfo{
		ID: "pay_u2", Status: payment.StatusCaptured, Amount: 80, Method: "upi",
	}}
	env := newTestEnv(t, gw)
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Poori", 80, 10)

	_, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 1, UnitPrice: 80}},
		TotalAmount:   80,
		PaymentMethod: domain.PaymentUPI,
		DeliverySlot:  domain.Slot15to16,
		Proof: &PaymentProof{
			GatewayOrderID: "order_u2",
			PaymentID:      "pay_u2",
			Signature:      "deadbeef",
		},
	})
	if !errors.Is(err, payment.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if got := env.stockOf(t, product.ID); got != 10 {
		t.Fatalf("stock touched on rejected payment: %d", got)
	}
}

func TestPlaceOrderUPIAmountMismatch(t *testing.T) {
	gw := &stubGateway{payment: &payment.PaymentInfo{
		ID: "pay_u3", Status: payment.StatusCaptured, Amount: 50, Method: "upi",
	}}
	env := newTestEnv(t, gw)
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Upma", 80, 10)

	_, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 1, UnitPrice: 80}},
		TotalAmount:   80,
		PaymentMethod: domain.PaymentUPI,
		DeliverySlot:  domain.Slot16to17,
		Proof: &PaymentProof{
			GatewayOrderID: "order_u3",
			PaymentID:      "pay_u3",
			Signature:      testSign("order_u3", "pay_u3"),
		},
	})
	if !errors.Is(err, payment.ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got %v", err)
	}
}

package command

import (
	"context"
	"errors"
	"testing"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
	walletdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
)

func TestCancelRestoresStockAndRefundsWallet(t *testing.T) {
	env := newTestEnv(t, &stubGateway{})
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	dosa := env.seedProductWithStock(t, outlet.ID, "Masala Dosa", 150, 10)
	chai := env.seedProductWithStock(t, outlet.ID, "Chai", 75, 10)
	env.seedWallet(t, customer.ID, 500)

	order, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID: customer.ID,
		OutletID:   outlet.ID,
		Items: []OrderItemRequest{
			{ProductID: dosa.ID, Quantity: 2, UnitPrice: 150},
			{ProductID: chai.ID, Quantity: 1, UnitPrice: 75},
		},
		TotalAmount:   375,
		PaymentMethod: domain.PaymentWallet,
		DeliverySlot:  domain.Slot12to13,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	result, err := env.cancel.Handle(context.Background(), CancelOrderCommand{
		OrderID: order.ID, CustomerID: customer.ID,
	})
	if err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	if result.Order.Status != domain.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", result.Order.Status)
	}
	if result.RefundAmount != 375 || result.RefundMethod != domain.PaymentWallet {
		t.Fatalf("unexpected refund: %v via %s", result.RefundAmount, result.RefundMethod)
	}

	if got := env.stockOf(t, dosa.ID); got != 10 {
		t.Fatalf("dosa stock not restored: %d", got)
	}
	if got := env.stockOf(t, chai.ID); got != 10 {
		t.Fatalf("chai stock not restored: %d", got)
	}
	wallet := env.walletOf(t, customer.ID)
	if wallet.Balance != 500 {
		t.Fatalf("wallet not made whole: %v", wallet.Balance)
	}

	// Ledger keeps both legs.
	var entries []walletdomain.WalletTransaction
	if err := env.db.Where("wallet_id = ?", wallet.ID).Order("id").Find(&entries).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(entries))
	}
	if entries[0].Amount != -375 || entries[1].Amount != 375 {
		t.Fatalf("unexpected ledger legs: %v, %v", entries[0].Amount, entries[1].Amount)
	}
}

func TestCancelCashOrderSkipsWallet(t *testing.T) {
	env := newTestEnv(t, &stubGateway{})
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Sambar Rice", 120, 10)

	order, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 1, UnitPrice: 120}},
		TotalAmount:   120,
		PaymentMethod: domain.PaymentCash,
		DeliverySlot:  domain.Slot12to13,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	result, err := env.cancel.Handle(context.Background(), CancelOrderCommand{
		OrderID: order.ID, CustomerID: customer.ID,
	})
	if err != nil {
		t.Fatalf("cancel order: %v", err)
	}
	if result.RefundMethod != domain.PaymentCash {
		t.Fatalf("expected CASH refund method, got %s", result.RefundMethod)
	}

	if got := env.stockOf(t, product.ID); got != 10 {
		t.Fatalf("stock not restored: %d", got)
	}

	var wallets int64
	if err := env.db.Model(&walletdomain.Wallet{}).Count(&wallets).Error; err != nil {
		t.Fatalf("count wallets: %v", err)
	}
	if wallets != 0 {
		t.Fatal("cash cancellation created a wallet")
	}
}

func TestCancelRejectsOtherCustomersOrder(t *testing.T) {
	env := newTestEnv(t, &stubGateway{})
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Kesari", 60, 10)
	env.seedWallet(t, customer.ID, 100)

	order, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 1, UnitPrice: 60}},
		TotalAmount:   60,
		PaymentMethod: domain.PaymentWallet,
		DeliverySlot:  domain.Slot12to13,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	_, err = env.cancel.Handle(context.Background(), CancelOrderCommand{
		OrderID: order.ID, CustomerID: customer.ID + 1,
	})
	if !errors.Is(err, domain.ErrNotOwned) {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
	if got := env.stockOf(t, product.ID); got != 9 {
		t.Fatalf("stock mutated on rejected cancel: %d", got)
	}
}

func TestCancelOnlyFromPending(t *testing.T) {
	env := newTestEnv(t, &stubGateway{})
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Lemon Rice", 90, 10)
	env.seedWallet(t, customer.ID, 200)

	order, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 1, UnitPrice: 90}},
		TotalAmount:   90,
		PaymentMethod: domain.PaymentWallet,
		DeliverySlot:  domain.Slot12to13,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if err := env.db.Model(&domain.Order{}).Where("id = ?", order.ID).
		Update("status", domain.StatusDelivered).Error; err != nil {
		t.Fatalf("mark delivered: %v", err)
	}

	_, err = env.cancel.Handle(context.Background(), CancelOrderCommand{
		OrderID: order.ID, CustomerID: customer.ID,
	})
	if !errors.Is(err, domain.ErrNotCancellable) {
		t.Fatalf("expected ErrNotCancellable, got %v", err)
	}
	wallet := env.walletOf(t, customer.ID)
	if wallet.Balance != 110 {
		t.Fatalf("refund applied to delivered order: %v", wallet.Balance)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	env := newTestEnv(t, &stubGateway{})
	outlet := env.seedOutlet(t)
	customer := env.seedCustomer(t, outlet.ID)
	product := env.seedProductWithStock(t, outlet.ID, "Curd Rice", 70, 10)
	env.seedWallet(t, customer.ID, 100)

	order, err := env.place.Handle(context.Background(), PlaceOrderCommand{
		CustomerID:    customer.ID,
		OutletID:      outlet.ID,
		Items:         []OrderItemRequest{{ProductID: product.ID, Quantity: 1, UnitPrice: 70}},
		TotalAmount:   70,
		PaymentMethod: domain.PaymentWallet,
		DeliverySlot:  domain.Slot12to13,
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if _, err := env.cancel.Handle(context.Background(), CancelOrderCommand{OrderID: order.ID, CustomerID: customer.ID}); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	_, err = env.cancel.Handle(context.Background(), CancelOrderCommand{OrderID: order.ID, CustomerID: customer.ID})
	if !errors.Is(err, domain.ErrNotCancellable) {
		t.Fatalf("expected ErrNotCancellable on repeat, got %v", err)
	}

	// Exactly one refund and one restock, not two.
	wallet := env.walletOf(t, customer.ID)
	if wallet.Balance != 100 {
		t.Fatalf("double refund: %v", wallet.Balance)
	}
	if got := env.stockOf(t, product.ID); got != 10 {
		t.Fatalf("double restock: %d", got)
	}
}

package scheduler

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	inventorydomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/domain"
	inventoryrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/repository"
	orderdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
	orderrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/repository"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/usecase/command"
	walletdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
	walletrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/repository"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/clock"
)

func setupReconcilerTest(t *testing.T) (*gorm.DB, *Reconciler) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&inventorydomain.Inventory{},
		&inventorydomain.StockHistory{},
		&walletdomain.Wallet{},
		&walletdomain.WalletTransaction{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&orderdomain.Cart{},
		&orderdomain.CartItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	orders := orderrepository.NewGormOrderRepository(db)
	cancel := command.NewCancelOrderHandler(
		db,
		orders,
		inventoryrepository.NewGormInventoryRepository(db),
		walletrepository.NewGormWalletRepository(db),
		nil,
	)
	return db, NewReconciler(orders, cancel, nil)
}

func seedOverdueOrder(t *testing.T, db *gorm.DB, customerID uint, status string, deliveryDate time.Time, total float64) *orderdomain.Order {
	t.Helper()
	order := &orderdomain.Order{
		CustomerID:    &customerID,
		OutletID:      1,
		TotalAmount:   total,
		PaymentMethod: orderdomain.PaymentWallet,
		Status:        status,
		Type:          orderdomain.TypeApp,
		DeliveryDate:  deliveryDate,
		DeliverySlot:  orderdomain.Slot12to13,
		Items:         []orderdomain.OrderItem{{ProductID: 1, Quantity: 2, UnitPrice: total / 2, Status: orderdomain.ItemNotDelivered}},
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func TestRunOnceCancelsOverduePendingOrders(t *testing.T) {
	db, reconciler := setupReconcilerTest(t)
	yesterday := clock.StartOfDayIST(time.Now()).AddDate(0, 0, -1)
	today := clock.StartOfDayIST(time.Now())

	if err := db.Create(&inventorydomain.Inventory{ProductID: 1, OutletID: 1, Quantity: 0}).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	overdueA := seedOverdueOrder(t, db, 7, orderdomain.StatusPending, yesterday, 200)
	overdueB := seedOverdueOrder(t, db, 8, orderdomain.StatusPending, yesterday, 300)
	delivered := seedOverdueOrder(t, db, 9, orderdomain.StatusDelivered, yesterday, 100)
	dueToday := seedOverdueOrder(t, db, 10, orderdomain.StatusPending, today, 150)

	count, err := reconciler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 cancelled orders, got %d", count)
	}

	assertStatus := func(id uint, want string) {
		var order orderdomain.Order
		if err := db.First(&order, id).Error; err != nil {
			t.Fatalf("reload order %d: %v", id, err)
		}
		if order.Status != want {
			t.Fatalf("order %d: expected %s, got %s", id, want, order.Status)
		}
	}
	assertStatus(overdueA.ID, orderdomain.StatusCancelled)
	assertStatus(overdueB.ID, orderdomain.StatusCancelled)
	assertStatus(delivered.ID, orderdomain.StatusDelivered)
	assertStatus(dueToday.ID, orderdomain.StatusPending)

	// Compensation ran: stock restored and wallets refunded.
	var inv inventorydomain.Inventory
	if err := db.Where("product_id = ?", 1).First(&inv).Error; err != nil {
		t.Fatalf("reload inventory: %v", err)
	}
	if inv.Quantity != 4 {
		t.Fatalf("expected 4 units restocked, got %d", inv.Quantity)
	}
	var wallet walletdomain.Wallet
	if err := db.Where("customer_id = ?", 7).First(&wallet).Error; err != nil {
		t.Fatalf("reload wallet: %v", err)
	}
	if wallet.Balance != 200 {
		t.Fatalf("expected refund of 200, balance %v", wallet.Balance)
	}
}

func TestRunOnceIsIdempotent(t *testing.T) {
	db, reconciler := setupReconcilerTest(t)
	yesterday := clock.StartOfDayIST(time.Now()).AddDate(0, 0, -1)

	if err := db.Create(&inventorydomain.Inventory{ProductID: 1, OutletID: 1, Quantity: 0}).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	seedOverdueOrder(t, db, 7, orderdomain.StatusPending, yesterday, 200)

	first, err := reconciler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if first != 1 {
		t.Fatalf("expected 1 cancellation, got %d", first)
	}

	second, err := reconciler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if second != 0 {
		t.Fatalf("rerun cancelled again: %d", second)
	}

	var wallet walletdomain.Wallet
	if err := db.Where("customer_id = ?", 7).First(&wallet).Error; err != nil {
		t.Fatalf("reload wallet: %v", err)
	}
	if wallet.Balance != 200 {
		t.Fatalf("refund applied more than once: %v", wallet.Balance)
	}
}

func TestNextSweepTime(t *testing.T) {
	beforeSweep := time.Date(2026, 3, 10, 0, 0, 30, 0, clock.IST)
	next := nextSweepTime(beforeSweep)
	if next.Day() != 10 || next.Hour() != 0 || next.Minute() != 1 {
		t.Fatalf("expected same-day 00:01, got %v", next)
	}

	afterSweep := time.Date(2026, 3, 10, 9, 0, 0, 0, clock.IST)
	next = nextSweepTime(afterSweep)
	if next.Day() != 11 || next.Hour() != 0 || next.Minute() != 1 {
		t.Fatalf("expected next-day 00:01, got %v", next)
	}
}

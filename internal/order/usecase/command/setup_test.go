package command

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	catalogdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/catalog/domain"
	catalogrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/catalog/repository"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon"
	coupondomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon/domain"
	couponrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/coupon/repository"
	customerdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/customer/domain"
	customerrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/customer/repository"
	inventorydomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/domain"
	inventoryrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/repository"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/repository"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/payment"
	walletdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
	walletrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/repository"
)

const testSecret = "test-secret"

func openOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&catalogdomain.Outlet{},
		&catalogdomain.Product{},
		&customerdomain.Customer{},
		&inventorydomain.Inventory{},
		&inventorydomain.StockHistory{},
		&walletdomain.Wallet{},
		&walletdomain.WalletTransaction{},
		&coupondomain.Coupon{},
		&coupondomain.CouponUsage{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Cart{},
		&domain.CartItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// stubGateway returns canned payment lookups so UPI/CARD flows run without
// a provider.
type stubGateway struct {
	payment *payment.PaymentInfo
	err     error
}

func (g *stubGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*payment.GatewayOrder, error) {
	return &payment.GatewayOrder{ID: "order_stub", Amount: amount, Currency: currency, Receipt: receipt}, nil
}

func (g *stubGateway) FetchPayment(ctx context.Context, paymentID string) (*payment.PaymentInfo, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.payment, nil
}

func testSign(gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

type testEnv struct {
	db     *gorm.DB
	place  *PlaceOrderHandler
	cancel *CancelOrderHandler
}

func newTestEnv(t *testing.T, gw payment.Gateway) *testEnv {
	t.Helper()
	db := openOrderTestDB(t)

	orders := repository.NewGormOrderRepository(db)
	inventory := inventoryrepository.NewGormInventoryRepository(db)
	wallets := walletrepository.NewGormWalletRepository(db)
	coupons := coupon.NewEngine(couponrepository.NewGormCouponRepository(db))
	customers := customerrepository.NewGormCustomerRepository(db)
	catalog := catalogrepository.NewGormCatalogRepository(db)
	verifier := payment.NewVerifier(testSecret)

	return &testEnv{
		db:     db,
		place:  NewPlaceOrderHandler(db, orders, inventory, wallets, coupons, customers, catalog, verifier, gw, nil),
		cancel: NewCancelOrderHandler(db, orders, inventory, wallets, nil),
	}
}

func (e *testEnv) seedOutlet(t *testing.T) *catalogdomain.Outlet {
	t.Helper()
	outlet := &catalogdomain.Outlet{Name: "Main Canteen", IsActive: true}
	if err := e.db.Create(outlet).Error; err != nil {
		t.Fatalf("seed outlet: %v", err)
	}
	return outlet
}

func (e *testEnv) seedCustomer(t *testing.T, outletID uint) *customerdomain.Customer {
	t.Helper()
	customer := &customerdomain.Customer{Name: "Asha", Email: "asha@example.com", OutletID: outletID}
	if err := e.db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return customer
}

func (e *testEnv) seedProductWithStock(t *testing.T, outletID uint, name string, price float64, quantity int) *catalogdomain.Product {
	t.Helper()
	product := &catalogdomain.Product{Name: name, Price: price, OutletID: outletID}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	inv := &inventorydomain.Inventory{ProductID: product.ID, OutletID: outletID, Quantity: quantity, Threshold: 2}
	if err := e.db.Create(inv).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	return product
}

func (e *testEnv) seedWallet(t *testing.T, customerID uint, balance float64) {
	t.Helper()
	wallet := &walletdomain.Wallet{CustomerID: customerID, Balance: balance, TotalRecharged: balance}
	if err := e.db.Create(wallet).Error; err != nil {
		t.Fatalf("seed wallet: %v", err)
	}
}

func (e *testEnv) seedCart(t *testing.T, customerID, productID uint, quantity int) {
	t.Helper()
	cart := &domain.Cart{CustomerID: customerID}
	if err := e.db.Create(cart).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	item := &domain.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
	if err := e.db.Create(item).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
}

func (e *testEnv) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	var inv inventorydomain.Inventory
	if err := e.db.Where("product_id = ?", productID).First(&inv).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	return inv.Quantity
}

func (e *testEnv) walletOf(t *testing.T, customerID uint) *walletdomain.Wallet {
	t.Helper()
	var wallet walletdomain.Wallet
	if err := e.db.Where("customer_id = ?", customerID).First(&wallet).Error; err != nil {
		t.Fatalf("load wallet: %v", err)
	}
	return &wallet
}

func (e *testEnv) orderCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&domain.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	return count
}

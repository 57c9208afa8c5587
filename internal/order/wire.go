//go:build wireinject
// +build wireinject

package order

import (
	"github.com/google/wire"
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
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/delivery/http"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/repository"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/usecase/command"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/usecase/query"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/payment"
	walletdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/domain"
	walletrepository "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/wallet/repository"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/kafka"
)

// ProvideOrderRepository provides the order repository with tracing
func ProvideOrderRepository(db *gorm.DB) domain.OrderRepository {
	return repository.NewGormOrderRepositoryWithTracing(db)
}

// ProvideInventoryRepository provides the inventory repository with tracing
func ProvideInventoryRepository(db *gorm.DB) inventorydomain.InventoryRepository {
	return inventoryrepository.NewGormInventoryRepositoryWithTracing(db)
}

// ProvideWalletRepository provides the wallet repository
func ProvideWalletRepository(db *gorm.DB) walletdomain.WalletRepository {
	return walletrepository.NewGormWalletRepository(db)
}

// ProvideCouponRepository provides the coupon repository
func ProvideCouponRepository(db *gorm.DB) coupondomain.CouponRepository {
	return couponrepository.NewGormCouponRepository(db)
}

// ProvideCustomerRepository provides the customer repository
func ProvideCustomerRepository(db *gorm.DB) customerdomain.CustomerRepository {
	return customerrepository.NewGormCustomerRepository(db)
}

// ProvideCatalogRepository provides the catalog repository
func ProvideCatalogRepository(db *gorm.DB) catalogdomain.CatalogRepository {
	return catalogrepository.NewGormCatalogRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideOrderRepository,
	ProvideInventoryRepository,
	ProvideWalletRepository,
	ProvideCouponRepository,
	ProvideCustomerRepository,
	ProvideCatalogRepository,
)

// InitializeHandler initializes the order HTTP handler with all dependencies
func InitializeHandler(db *gorm.DB, gateway payment.Gateway, verifier *payment.Verifier, publisher *kafka.Publisher) (*http.OrderHandler, error) {
	wire.Build(
		RepositorySet,
		coupon.NewEngine,
		command.NewPlaceOrderHandler,
		command.NewCancelOrderHandler,
		query.NewGetOrderHandler,
		query.NewListOrdersHandler,
		http.NewOrderHandler,
	)
	return nil, nil
}

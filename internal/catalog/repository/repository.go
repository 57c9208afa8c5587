package repository

import (
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/catalog/domain"
	"gorm.io/gorm"
)

type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Outlet{}, &domain.Product{})
}

func (r *GormCatalogRepository) FindOutletByID(id uint) (*domain.Outlet, error) {
	var outlet domain.Outlet
	err := r.db.First(&outlet, id).Error
	if err != nil {
		return nil, err
	}
	return &outlet, nil
}

func (r *GormCatalogRepository) FindProductByID(id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormCatalogRepository) FindProductsByIDs(ids []uint) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *GormCatalogRepository) CreateOutlet(outlet *domain.Outlet) error {
	return r.db.Create(outlet).Error
}

func (r *GormCatalogRepository) CreateProduct(product *domain.Product) error {
	return r.db.Create(product).Error
}

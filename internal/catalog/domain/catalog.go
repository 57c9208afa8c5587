package domain

import (
	"time"

	"gorm.io/gorm"
)

// Outlet represents a campus outlet serving orders.
type Outlet struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null;uniqueIndex"`
	Address   string         `json:"address"`
	IsActive  bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Outlet) TableName() string {
	return "outlets"
}

// Product represents a sellable item owned by an outlet. Price here is the
// current list price; order items snapshot the price they were sold at and
// never read it back from this row.
type Product struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null;uniqueIndex"`
	Price     float64        `json:"price" gorm:"not null"`
	Category  string         `json:"category"`
	OutletID  uint           `json:"outlet_id" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// CatalogRepository defines the contract for outlet and product data access.
type CatalogRepository interface {
	FindOutletByID(id uint) (*Outlet, error)
	FindProductByID(id uint) (*Product, error)
	FindProductsByIDs(ids []uint) ([]Product, error)
	CreateOutlet(outlet *Outlet) error
	CreateProduct(product *Product) error
}

package repository

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// GormInventoryRepositoryWithTracing wraps GormInventoryRepository with
// tracing. The overridden methods read the request context off the caller's
// transaction, so spans parent correctly without widening the repository
// interface.
type GormInventoryRepositoryWithTracing struct {
	*GormInventoryRepository
}

// NewGormInventoryRepositoryWithTracing creates a new repository with tracing
func NewGormInventoryRepositoryWithTracing(db *gorm.DB) *GormInventoryRepositoryWithTracing {
	return &GormInventoryRepositoryWithTracing{
		GormInventoryRepository: NewGormInventoryRepository(db),
	}
}

// CheckAvailability records the batch stock check as a span.
func (r *GormInventoryRepositoryWithTracing) CheckAvailability(tx *gorm.DB, outletID uint, lines []domain.OrderLine) error {
	_, span := tracer.Start(tx.Statement.Context, "repository.CheckAvailability",
		trace.WithAttributes(
			attribute.Int("outlet.id", int(outletID)),
			attribute.Int("lines.count", len(lines)),
		),
	)
	defer span.End()

	err := r.GormInventoryRepository.CheckAvailability(tx, outletID, lines)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// DecrementForOrder records the batch decrement as a span.
func (r *GormInventoryRepositoryWithTracing) DecrementForOrder(tx *gorm.DB, outletID uint, lines []domain.OrderLine) error {
	_, span := tracer.Start(tx.Statement.Context, "repository.DecrementForOrder",
		trace.WithAttributes(
			attribute.Int("outlet.id", int(outletID)),
			attribute.Int("lines.count", len(lines)),
		),
	)
	defer span.End()

	err := r.GormInventoryRepository.DecrementForOrder(tx, outletID, lines)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// IncrementForRestock records the restock as a span.
func (r *GormInventoryRepositoryWithTracing) IncrementForRestock(tx *gorm.DB, productID, outletID uint, amount int) error {
	_, span := tracer.Start(tx.Statement.Context, "repository.IncrementForRestock",
		trace.WithAttributes(
			attribute.Int("inventory.product_id", int(productID)),
			attribute.Int("outlet.id", int(outletID)),
			attribute.Int("restock.amount", amount),
		),
	)
	defer span.End()

	err := r.GormInventoryRepository.IncrementForRestock(tx, productID, outletID, amount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

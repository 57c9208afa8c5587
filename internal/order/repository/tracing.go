package repository

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
)

var tracer = otel.Tracer("order-repository")

// GormOrderRepositoryWithTracing wraps GormOrderRepository with tracing.
// The overridden methods read the request context off the caller's
// transaction, so spans parent correctly without widening the repository
// interface.
type GormOrderRepositoryWithTracing struct {
	*GormOrderRepository
}

// NewGormOrderRepositoryWithTracing creates a new repository with tracing
func NewGormOrderRepositoryWithTracing(db *gorm.DB) *GormOrderRepositoryWithTracing {
	return &GormOrderRepositoryWithTracing{
		GormOrderRepository: NewGormOrderRepository(db),
	}
}

// CreateOrder records the order insert as a span.
func (r *GormOrderRepositoryWithTracing) CreateOrder(tx *gorm.DB, order *domain.Order) error {
	_, span := tracer.Start(tx.Statement.Context, "repository.CreateOrder",
		trace.WithAttributes(
			attribute.Int("outlet.id", int(order.OutletID)),
			attribute.Float64("order.total_amount", order.TotalAmount),
			attribute.String("order.payment_method", order.PaymentMethod),
			attribute.Int("order.items", len(order.Items)),
		),
	)
	defer span.End()

	err := r.GormOrderRepository.CreateOrder(tx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("order.id", int(order.ID)))
	return nil
}

// FindByIDTx records the in-transaction lookup as a span.
func (r *GormOrderRepositoryWithTracing) FindByIDTx(tx *gorm.DB, id uint) (*domain.Order, error) {
	_, span := tracer.Start(tx.Statement.Context, "repository.FindByIDTx",
		trace.WithAttributes(
			attribute.Int("order.id", int(id)),
		),
	)
	defer span.End()

	order, err := r.GormOrderRepository.FindByIDTx(tx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("order.status", order.Status))
	return order, nil
}

// TransitionStatus records the conditional update as a span.
func (r *GormOrderRepositoryWithTracing) TransitionStatus(tx *gorm.DB, orderID uint, from, to string) (bool, error) {
	_, span := tracer.Start(tx.Statement.Context, "repository.TransitionStatus",
		trace.WithAttributes(
			attribute.Int("order.id", int(orderID)),
			attribute.String("order.status.from", from),
			attribute.String("order.status.to", to),
		),
	)
	defer span.End()

	ok, err := r.GormOrderRepository.TransitionStatus(tx, orderID, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetAttributes(attribute.Bool("order.transitioned", ok))
	return ok, nil
}

// Package scheduler runs the nightly reconciliation sweep that cancels
// orders left pending past their delivery date.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	orderdomain "github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/domain"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/internal/order/usecase/command"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/clock"
	"github.com/Lokeshzz7/mrkadalai-backend-sub000/pkg/logger"
)

// Sweep time: 00:01 in the business timezone, just after the delivery-date
// cutoff rolls over.
const (
	sweepHour   = 0
	sweepMinute = 1

	lockTTL = time.Hour
)

var reconciledOrders = promauto.NewCounter(prometheus.CounterOpts{
	Name: "reconciliation_cancelled_orders_total",
	Help: "Orders auto-cancelled by the nightly reconciliation sweep",
})

// Reconciler force-cancels overdue PENDING orders once per day. Overdue
// orders get the same compensation as a customer cancellation (restock and
// wallet refund); leaving stock sold and money held for an order nobody
// will deliver is treated as a defect, not a policy.
type Reconciler struct {
	orders orderdomain.OrderRepository
	cancel *command.CancelOrderHandler
	locks  *redis.Client
}

// NewReconciler creates a reconciler. The redis client may be nil, in which
// case the sweep runs without the singleton lock (single-instance deploys
// and tests).
func NewReconciler(orders orderdomain.OrderRepository, cancel *command.CancelOrderHandler, locks *redis.Client) *Reconciler {
	return &Reconciler{orders: orders, cancel: cancel, locks: locks}
}

// Run blocks until ctx is done, firing the sweep at each business-day
// rollover.
func (r *Reconciler) Run(ctx context.Context) {
	for {
		next := nextSweepTime(clock.NowIST())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		count, err := r.RunOnce(ctx)
		if err != nil {
			logger.Error(ctx).Err(err).Msg("reconciliation sweep failed")
			continue
		}
		logger.Info(ctx).Int("cancelled", count).Msg("reconciliation sweep finished")
	}
}

// RunOnce executes one sweep and returns how many orders it cancelled.
// Safe to re-run: already-cancelled orders no longer match the PENDING
// filter, and each order's transition is conditional on its prior state. A
// failing order is logged and skipped rather than aborting the sweep.
func (r *Reconciler) RunOnce(ctx context.Context) (int, error) {
	if ok, err := r.acquireLock(ctx); err != nil {
		return 0, err
	} else if !ok {
		logger.Info(ctx).Msg("reconciliation lock held elsewhere, skipping sweep")
		return 0, nil
	}

	cutoff := clock.StartOfDayIST(time.Now())
	overdue, err := r.orders.FindOverduePending(cutoff)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, order := range overdue {
		_, err := r.cancel.Handle(ctx, command.CancelOrderCommand{OrderID: order.ID, System: true})
		if err != nil {
			if errors.Is(err, orderdomain.ErrNotCancellable) {
				// Raced with a customer cancellation; nothing left to do.
				continue
			}
			logger.Error(ctx).Err(err).Uint("order_id", order.ID).Msg("failed to reconcile order")
			continue
		}
		cancelled++
		reconciledOrders.Inc()
	}
	return cancelled, nil
}

func (r *Reconciler) acquireLock(ctx context.Context) (bool, error) {
	if r.locks == nil {
		return true, nil
	}
	key := "reconcile:lock:" + clock.NowIST().Format("2006-01-02")
	return r.locks.SetNX(ctx, key, "1", lockTTL).Result()
}

func nextSweepTime(now time.Time) time.Time {
	now = now.In(clock.IST)
	next := time.Date(now.Year(), now.Month(), now.Day(), sweepHour, sweepMinute, 0, 0, clock.IST)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

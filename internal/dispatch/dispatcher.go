package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"boostbot/internal/models"
)

// Result says what happened to a dispatch attempt.
type Result int

const (
	// ResultSubmitted means the order was placed with the agency.
	ResultSubmitted Result = iota
	// ResultDeferred means the order was queued until balance allows.
	ResultDeferred
	// ResultFailed means the agency rejected the order outright.
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultSubmitted:
		return "submitted"
	case ResultDeferred:
		return "deferred"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AgencyAPI is the slice of the agency client fulfillment needs.
type AgencyAPI interface {
	Balance(ctx context.Context) (float64, string, error)
	AddOrder(ctx context.Context, serviceID int64, link string, quantity int) (int64, error)
}

// PendingQueue is the durable waiting line for paid-but-unfunded orders.
type PendingQueue interface {
	Enqueue(orderID string, serviceID int64, link string, quantity int, cost float64) error
	List() ([]models.PendingFulfillment, error)
	Remove(orderID string) error
}

// OrderStore is the slice of the order repository fulfillment needs.
type OrderStore interface {
	FindByID(orderID string) (*models.Order, error)
	SetStatus(orderID, status string) error
	SetRemote(orderID string, remoteID int64) error
}

// Watcher starts status polling for a submitted order.
type Watcher interface {
	Watch(order *models.Order)
}

// Messenger sends plain text notifications to a chat.
type Messenger interface {
	Notify(chatID string, text string)
}

// Dispatcher gates order submission on the agency balance. Paid orders
// that don't fit the current balance wait in the durable queue; the
// payment is never refunded for a balance shortfall.
type Dispatcher struct {
	agency  AgencyAPI
	queue   PendingQueue
	orders  OrderStore
	watcher Watcher
	notify  Messenger
	admins  []string
	logger  *zap.Logger
}

func New(agency AgencyAPI, queue PendingQueue, orders OrderStore, watcher Watcher, notify Messenger, admins []string, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		agency:  agency,
		queue:   queue,
		orders:  orders,
		watcher: watcher,
		notify:  notify,
		admins:  admins,
		logger:  logger,
	}
}

// Dispatch tries to submit a confirmed order. A balance shortfall or an
// unreachable balance endpoint defers the order; only an explicit
// rejection from the agency fails it.
func (d *Dispatcher) Dispatch(ctx context.Context, order *models.Order) (Result, error) {
	balance, _, err := d.agency.Balance(ctx)
	if err != nil {
		d.logger.Warn("balance check failed, deferring order",
			zap.String("order_id", order.OrderID), zap.Error(err))
		return d.deferOrder(order, fmt.Sprintf("balance check failed: %v", err))
	}

	if balance < order.Cost {
		d.logger.Info("agency balance short, deferring order",
			zap.String("order_id", order.OrderID),
			zap.Float64("balance", balance),
			zap.Float64("cost", order.Cost))
		return d.deferOrder(order, fmt.Sprintf("balance ₹%.2f below cost ₹%.2f", balance, order.Cost))
	}

	return d.submit(ctx, order)
}

func (d *Dispatcher) deferOrder(order *models.Order, reason string) (Result, error) {
	if err := d.queue.Enqueue(order.OrderID, order.ServiceID, order.Link, order.Quantity, order.Cost); err != nil {
		return ResultDeferred, fmt.Errorf("enqueue pending order: %w", err)
	}
	if err := d.orders.SetStatus(order.OrderID, models.OrderStatusQueued); err != nil {
		return ResultDeferred, fmt.Errorf("mark order queued: %w", err)
	}

	for _, admin := range d.admins {
		d.notify.Notify(admin, fmt.Sprintf(
			"⚠️ Order %s is paid but waiting for agency balance.\n%s\nTop up to release the queue.",
			order.OrderID, reason))
	}
	d.notify.Notify(order.UserID,
		"✅ Payment received! Your order is confirmed and will start processing shortly.")
	return ResultDeferred, nil
}

func (d *Dispatcher) submit(ctx context.Context, order *models.Order) (Result, error) {
	remoteID, err := d.agency.AddOrder(ctx, order.ServiceID, order.Link, order.Quantity)
	if err != nil {
		d.logger.Error("agency rejected order",
			zap.String("order_id", order.OrderID), zap.Error(err))
		if serr := d.orders.SetStatus(order.OrderID, models.OrderStatusFailed); serr != nil {
			d.logger.Error("mark order failed", zap.String("order_id", order.OrderID), zap.Error(serr))
		}
		d.notify.Notify(order.UserID,
			"❌ We could not start your order. Your payment is safe, please contact support with order id "+order.OrderID+".")
		for _, admin := range d.admins {
			d.notify.Notify(admin, fmt.Sprintf("❌ Agency rejected paid order %s: %v", order.OrderID, err))
		}
		return ResultFailed, nil
	}

	if err := d.orders.SetRemote(order.OrderID, remoteID); err != nil {
		return ResultSubmitted, fmt.Errorf("record remote id: %w", err)
	}
	if err := d.orders.SetStatus(order.OrderID, models.OrderStatusProcessing); err != nil {
		return ResultSubmitted, fmt.Errorf("mark order processing: %w", err)
	}

	order.RemoteID = remoteID
	order.Status = models.OrderStatusProcessing

	d.logger.Info("order submitted",
		zap.String("order_id", order.OrderID),
		zap.Int64("remote_id", remoteID))
	d.notify.Notify(order.UserID,
		fmt.Sprintf("🚀 Your order %s is now processing! I'll keep you posted.", order.OrderID))
	d.watcher.Watch(order)
	return ResultSubmitted, nil
}

// Sweep drains the pending queue in arrival order. The balance is
// fetched once and decremented locally per submit; entries that don't
// fit the remaining balance are skipped and stay queued.
func (d *Dispatcher) Sweep(ctx context.Context) {
	entries, err := d.queue.List()
	if err != nil {
		d.logger.Error("pending sweep: list failed", zap.Error(err))
		return
	}
	if len(entries) == 0 {
		return
	}

	balance, _, err := d.agency.Balance(ctx)
	if err != nil {
		d.logger.Warn("pending sweep: balance check failed", zap.Error(err))
		return
	}

	d.logger.Info("pending sweep started",
		zap.Int("queued", len(entries)),
		zap.Float64("balance", balance))

	for _, entry := range entries {
		if balance < entry.Cost {
			continue
		}

		order, err := d.orders.FindByID(entry.OrderID)
		if err != nil {
			d.logger.Error("pending sweep: order lookup failed",
				zap.String("order_id", entry.OrderID), zap.Error(err))
			continue
		}

		remoteID, err := d.agency.AddOrder(ctx, entry.ServiceID, entry.Link, entry.Quantity)
		if err != nil {
			// the agency refused a funded order; drop it from the
			// queue so it does not retry forever
			d.logger.Error("pending sweep: agency rejected order",
				zap.String("order_id", entry.OrderID), zap.Error(err))
			if rerr := d.queue.Remove(entry.OrderID); rerr != nil {
				d.logger.Error("pending sweep: remove failed", zap.Error(rerr))
			}
			if serr := d.orders.SetStatus(entry.OrderID, models.OrderStatusFailed); serr != nil {
				d.logger.Error("pending sweep: mark failed", zap.Error(serr))
			}
			d.notify.Notify(order.UserID,
				"❌ We could not start your order. Your payment is safe, please contact support with order id "+entry.OrderID+".")
			continue
		}

		balance -= entry.Cost

		if err := d.queue.Remove(entry.OrderID); err != nil {
			d.logger.Error("pending sweep: remove failed",
				zap.String("order_id", entry.OrderID), zap.Error(err))
		}
		if err := d.orders.SetRemote(entry.OrderID, remoteID); err != nil {
			d.logger.Error("pending sweep: record remote id failed",
				zap.String("order_id", entry.OrderID), zap.Error(err))
		}
		if err := d.orders.SetStatus(entry.OrderID, models.OrderStatusProcessing); err != nil {
			d.logger.Error("pending sweep: mark processing failed",
				zap.String("order_id", entry.OrderID), zap.Error(err))
		}

		order.RemoteID = remoteID
		order.Status = models.OrderStatusProcessing

		d.logger.Info("pending sweep: order submitted",
			zap.String("order_id", entry.OrderID),
			zap.Int64("remote_id", remoteID),
			zap.Float64("balance_left", balance))
		d.notify.Notify(order.UserID,
			fmt.Sprintf("🚀 Your order %s is now processing! I'll keep you posted.", entry.OrderID))
		d.watcher.Watch(order)
	}
}

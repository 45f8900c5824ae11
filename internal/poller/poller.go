package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"boostbot/internal/agency"
	"boostbot/internal/models"
)

// StatusFetcher reads an order's state from the agency.
type StatusFetcher interface {
	Status(ctx context.Context, remoteID int64) (agency.OrderStatus, error)
}

// OrderStore is the slice of the order repository polling needs.
type OrderStore interface {
	FindByStatus(status string) ([]models.Order, error)
	SetStatus(orderID, status string) error
}

// Messenger sends plain text notifications to a chat.
type Messenger interface {
	Notify(chatID string, text string)
}

// Resetter clears a chat's conversation state after an order finishes.
type Resetter interface {
	Reset(chatID int64)
}

// Poller follows submitted orders until the agency reports a terminal
// state. One goroutine per watched order.
type Poller struct {
	fetcher  StatusFetcher
	orders   OrderStore
	notify   Messenger
	state    Resetter
	interval time.Duration
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	watched map[string]struct{}
}

func New(fetcher StatusFetcher, orders OrderStore, notify Messenger, state Resetter, interval time.Duration, logger *zap.Logger) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		fetcher:  fetcher,
		orders:   orders,
		notify:   notify,
		state:    state,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		watched:  make(map[string]struct{}),
	}
}

// Watch starts polling an order. Watching the same order twice is a
// no-op.
func (p *Poller) Watch(order *models.Order) {
	p.mu.Lock()
	if _, ok := p.watched[order.OrderID]; ok {
		p.mu.Unlock()
		return
	}
	p.watched[order.OrderID] = struct{}{}
	p.mu.Unlock()

	p.wg.Add(1)
	go p.loop(*order)
}

// Resume re-attaches watchers to orders that were processing when the
// process last stopped.
func (p *Poller) Resume() error {
	orders, err := p.orders.FindByStatus(models.OrderStatusProcessing)
	if err != nil {
		return fmt.Errorf("resume watchers: %w", err)
	}
	for i := range orders {
		p.Watch(&orders[i])
	}
	if len(orders) > 0 {
		p.logger.Info("resumed order watchers", zap.Int("orders", len(orders)))
	}
	return nil
}

// Stop cancels every watcher and waits for them to exit.
func (p *Poller) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Poller) loop(order models.Order) {
	defer p.wg.Done()
	defer func() {
		p.mu.Lock()
		delete(p.watched, order.OrderID)
		p.mu.Unlock()
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	lastStatus := order.Status
	notifiedFailure := false

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
		}

		st, err := p.fetcher.Status(p.ctx, order.RemoteID)
		if err != nil {
			p.logger.Warn("status poll failed",
				zap.String("order_id", order.OrderID), zap.Error(err))
			if !notifiedFailure {
				notifiedFailure = true
				p.notify.Notify(order.UserID,
					"ℹ️ Status updates for order "+order.OrderID+" are delayed, still checking.")
			}
			continue
		}
		notifiedFailure = false

		if p.handleStatus(&order, st, &lastStatus) {
			return
		}
	}
}

// handleStatus applies one status report. Returns true when the order
// reached a terminal state.
func (p *Poller) handleStatus(order *models.Order, st agency.OrderStatus, lastStatus *string) bool {
	switch st.Status {
	case "completed":
		p.finish(order, models.OrderStatusDelivered,
			fmt.Sprintf("🎉 Order %s delivered! Thank you for your purchase.", order.OrderID))
		return true
	case "canceled", "cancelled", "fail", "failed":
		p.finish(order, models.OrderStatusFailed,
			"❌ Order "+order.OrderID+" could not be completed. Please contact support, your payment is safe.")
		return true
	case "partial":
		msg := "⚠️ Order " + order.OrderID + " was partially delivered."
		if st.Remains != "" {
			msg += " Remaining: " + st.Remains + "."
		}
		msg += " Please contact support."
		p.finish(order, models.OrderStatusPartial, msg)
		return true
	default:
		if st.Status != "" && st.Status != *lastStatus {
			*lastStatus = st.Status
			p.logger.Info("order status changed",
				zap.String("order_id", order.OrderID),
				zap.String("status", st.Status))
		}
		return false
	}
}

func (p *Poller) finish(order *models.Order, status, message string) {
	if err := p.orders.SetStatus(order.OrderID, status); err != nil {
		p.logger.Error("record terminal status failed",
			zap.String("order_id", order.OrderID), zap.Error(err))
	}
	p.logger.Info("order finished",
		zap.String("order_id", order.OrderID),
		zap.String("status", status))
	p.notify.Notify(order.UserID, message)

	var chatID int64
	if _, err := fmt.Sscanf(order.UserID, "%d", &chatID); err == nil {
		p.state.Reset(chatID)
	}
}

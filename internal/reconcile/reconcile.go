package reconcile

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"boostbot/internal/dispatch"
	"boostbot/internal/models"
)

// ErrAlreadyProcessed means the order's payment confirmation was handled
// before; a second approval or a replayed webhook is a no-op.
var ErrAlreadyProcessed = errors.New("order already processed")

// ProcessedSet is the durable exactly-once guard.
type ProcessedSet interface {
	Mark(orderID string) (bool, error)
}

// OrderStore is the slice of the order repository reconciliation needs.
type OrderStore interface {
	FindByID(orderID string) (*models.Order, error)
	SetStatus(orderID, status string) error
}

// LinkStore resolves gateway payment-link ids to orders.
type LinkStore interface {
	FindByLinkID(linkID string) (*models.PaymentLink, error)
	Delete(linkID string) error
}

// Submitter hands a confirmed order to fulfillment.
type Submitter interface {
	Dispatch(ctx context.Context, order *models.Order) (dispatch.Result, error)
}

// Messenger sends plain text notifications to a chat.
type Messenger interface {
	Notify(chatID string, text string)
}

// Reconciler turns payment confirmations (admin approvals and gateway
// webhooks) into exactly one fulfillment dispatch per order.
type Reconciler struct {
	processed ProcessedSet
	orders    OrderStore
	links     LinkStore
	submit    Submitter
	notify    Messenger
	logger    *zap.Logger
}

func New(processed ProcessedSet, orders OrderStore, links LinkStore, submit Submitter, notify Messenger, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		processed: processed,
		orders:    orders,
		links:     links,
		submit:    submit,
		notify:    notify,
		logger:    logger,
	}
}

// Approve confirms an order's payment manually. The processed set is
// claimed before anything else so that two admins tapping approve at
// once produce a single dispatch.
func (r *Reconciler) Approve(ctx context.Context, orderID string) (dispatch.Result, error) {
	first, err := r.processed.Mark(orderID)
	if err != nil {
		return 0, fmt.Errorf("claim order %s: %w", orderID, err)
	}
	if !first {
		return 0, ErrAlreadyProcessed
	}

	order, err := r.orders.FindByID(orderID)
	if err != nil {
		return 0, fmt.Errorf("lookup order %s: %w", orderID, err)
	}

	r.logger.Info("payment approved", zap.String("order_id", orderID))
	return r.submit.Dispatch(ctx, order)
}

// Reject refuses an order's payment proof. Rejection also claims the
// processed set, so a later approve of the same order is refused.
func (r *Reconciler) Reject(orderID string) error {
	first, err := r.processed.Mark(orderID)
	if err != nil {
		return fmt.Errorf("claim order %s: %w", orderID, err)
	}
	if !first {
		return ErrAlreadyProcessed
	}

	order, err := r.orders.FindByID(orderID)
	if err != nil {
		return fmt.Errorf("lookup order %s: %w", orderID, err)
	}

	if err := r.orders.SetStatus(orderID, models.OrderStatusRejected); err != nil {
		return fmt.Errorf("mark order rejected: %w", err)
	}

	r.logger.Info("payment rejected", zap.String("order_id", orderID))
	r.notify.Notify(order.UserID,
		"❌ Your payment could not be verified. If you believe this is a mistake, contact support with order id "+orderID+".")
	return nil
}

// ConfirmPaymentLink handles a gateway "link paid" event. The link id is
// resolved fresh from the database, so links issued after any restart
// still reconcile.
func (r *Reconciler) ConfirmPaymentLink(ctx context.Context, linkID string) (dispatch.Result, error) {
	link, err := r.links.FindByLinkID(linkID)
	if err != nil {
		return 0, fmt.Errorf("resolve payment link %s: %w", linkID, err)
	}

	first, err := r.processed.Mark(link.OrderID)
	if err != nil {
		return 0, fmt.Errorf("claim order %s: %w", link.OrderID, err)
	}
	if !first {
		return 0, ErrAlreadyProcessed
	}

	if err := r.links.Delete(linkID); err != nil {
		r.logger.Warn("delete consumed payment link failed",
			zap.String("link_id", linkID), zap.Error(err))
	}

	order, err := r.orders.FindByID(link.OrderID)
	if err != nil {
		return 0, fmt.Errorf("lookup order %s: %w", link.OrderID, err)
	}

	r.logger.Info("payment link paid",
		zap.String("link_id", linkID),
		zap.String("order_id", link.OrderID))
	return r.submit.Dispatch(ctx, order)
}

package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"boostbot/internal/dispatch"
	"boostbot/internal/models"
)

type fakeProcessed struct{ seen map[string]bool }

func (f *fakeProcessed) Mark(orderID string) (bool, error) {
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	if f.seen[orderID] {
		return false, nil
	}
	f.seen[orderID] = true
	return true, nil
}

type fakeOrders struct {
	orders   map[string]*models.Order
	statuses map[string]string
}

func (f *fakeOrders) FindByID(orderID string) (*models.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, errors.New("not found")
	}
	return o, nil
}

func (f *fakeOrders) SetStatus(orderID, status string) error {
	if f.statuses == nil {
		f.statuses = make(map[string]string)
	}
	f.statuses[orderID] = status
	return nil
}

type fakeLinks struct {
	links   map[string]*models.PaymentLink
	deleted []string
}

func (f *fakeLinks) FindByLinkID(linkID string) (*models.PaymentLink, error) {
	l, ok := f.links[linkID]
	if !ok {
		return nil, errors.New("not found")
	}
	return l, nil
}

func (f *fakeLinks) Delete(linkID string) error {
	f.deleted = append(f.deleted, linkID)
	return nil
}

type fakeSubmitter struct{ dispatched []string }

func (f *fakeSubmitter) Dispatch(ctx context.Context, order *models.Order) (dispatch.Result, error) {
	f.dispatched = append(f.dispatched, order.OrderID)
	return dispatch.ResultSubmitted, nil
}

type fakeMessenger struct{ sent map[string][]string }

func (f *fakeMessenger) Notify(chatID, text string) {
	if f.sent == nil {
		f.sent = make(map[string][]string)
	}
	f.sent[chatID] = append(f.sent[chatID], text)
}

func newReconciler(orders *fakeOrders, links *fakeLinks, sub *fakeSubmitter, msg *fakeMessenger) *Reconciler {
	return New(&fakeProcessed{}, orders, links, sub, msg, zap.NewNop())
}

func TestApproveDispatchesOnce(t *testing.T) {
	order := &models.Order{OrderID: "7-1", UserID: "7"}
	orders := &fakeOrders{orders: map[string]*models.Order{"7-1": order}}
	sub := &fakeSubmitter{}
	r := newReconciler(orders, &fakeLinks{}, sub, &fakeMessenger{})

	res, err := r.Approve(context.Background(), "7-1")
	require.NoError(t, err)
	assert.Equal(t, dispatch.ResultSubmitted, res)

	// second approve is refused without a second dispatch
	_, err = r.Approve(context.Background(), "7-1")
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, []string{"7-1"}, sub.dispatched)
}

func TestRejectBlocksLaterApprove(t *testing.T) {
	order := &models.Order{OrderID: "7-2", UserID: "7"}
	orders := &fakeOrders{orders: map[string]*models.Order{"7-2": order}}
	sub := &fakeSubmitter{}
	msg := &fakeMessenger{}
	r := newReconciler(orders, &fakeLinks{}, sub, msg)

	require.NoError(t, r.Reject("7-2"))
	assert.Equal(t, models.OrderStatusRejected, orders.statuses["7-2"])
	assert.NotEmpty(t, msg.sent["7"])

	_, err := r.Approve(context.Background(), "7-2")
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Empty(t, sub.dispatched)
}

func TestConfirmPaymentLink(t *testing.T) {
	order := &models.Order{OrderID: "7-3", UserID: "7"}
	orders := &fakeOrders{orders: map[string]*models.Order{"7-3": order}}
	links := &fakeLinks{links: map[string]*models.PaymentLink{
		"plink_abc": {LinkID: "plink_abc", OrderID: "7-3", UserID: "7"},
	}}
	sub := &fakeSubmitter{}
	r := newReconciler(orders, links, sub, &fakeMessenger{})

	res, err := r.ConfirmPaymentLink(context.Background(), "plink_abc")
	require.NoError(t, err)
	assert.Equal(t, dispatch.ResultSubmitted, res)
	assert.Equal(t, []string{"plink_abc"}, links.deleted)

	// replayed webhook delivery is a no-op
	links.links["plink_abc"] = &models.PaymentLink{LinkID: "plink_abc", OrderID: "7-3"}
	_, err = r.ConfirmPaymentLink(context.Background(), "plink_abc")
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, []string{"7-3"}, sub.dispatched)
}

func TestConfirmPaymentLinkUnknown(t *testing.T) {
	r := newReconciler(&fakeOrders{}, &fakeLinks{}, &fakeSubmitter{}, &fakeMessenger{})
	_, err := r.ConfirmPaymentLink(context.Background(), "plink_missing")
	assert.Error(t, err)
}

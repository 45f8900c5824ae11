package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"boostbot/internal/models"
)

type fakeAgency struct {
	balance    float64
	balanceErr error
	addErr     error
	nextID     int64
	added      []int64
}

func (f *fakeAgency) Balance(ctx context.Context) (float64, string, error) {
	return f.balance, "INR", f.balanceErr
}

func (f *fakeAgency) AddOrder(ctx context.Context, serviceID int64, link string, quantity int) (int64, error) {
	if f.addErr != nil {
		return 0, f.addErr
	}
	f.nextID++
	f.added = append(f.added, serviceID)
	return f.nextID, nil
}

type fakeQueue struct {
	entries []models.PendingFulfillment
}

func (f *fakeQueue) Enqueue(orderID string, serviceID int64, link string, quantity int, cost float64) error {
	f.entries = append(f.entries, models.PendingFulfillment{
		OrderID: orderID, ServiceID: serviceID, Link: link, Quantity: quantity, Cost: cost,
	})
	return nil
}

func (f *fakeQueue) List() ([]models.PendingFulfillment, error) {
	out := make([]models.PendingFulfillment, len(f.entries))
	copy(out, f.entries)
	return out, nil
}

func (f *fakeQueue) Remove(orderID string) error {
	for i, e := range f.entries {
		if e.OrderID == orderID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeOrders struct {
	orders   map[string]*models.Order
	statuses map[string]string
	remotes  map[string]int64
}

func newFakeOrders(orders ...*models.Order) *fakeOrders {
	f := &fakeOrders{
		orders:   make(map[string]*models.Order),
		statuses: make(map[string]string),
		remotes:  make(map[string]int64),
	}
	for _, o := range orders {
		f.orders[o.OrderID] = o
	}
	return f
}

func (f *fakeOrders) FindByID(orderID string) (*models.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, errors.New("not found")
	}
	return o, nil
}

func (f *fakeOrders) SetStatus(orderID, status string) error {
	f.statuses[orderID] = status
	return nil
}

func (f *fakeOrders) SetRemote(orderID string, remoteID int64) error {
	f.remotes[orderID] = remoteID
	return nil
}

type fakeWatcher struct{ watched []string }

func (f *fakeWatcher) Watch(order *models.Order) { f.watched = append(f.watched, order.OrderID) }

type fakeMessenger struct{ sent map[string][]string }

func (f *fakeMessenger) Notify(chatID, text string) {
	if f.sent == nil {
		f.sent = make(map[string][]string)
	}
	f.sent[chatID] = append(f.sent[chatID], text)
}

func testOrder(id string, cost float64) *models.Order {
	return &models.Order{
		OrderID:   id,
		UserID:    "7",
		ServiceID: 101,
		Link:      "https://example.com/p/1",
		Quantity:  500,
		Amount:    cost * 1.4,
		Cost:      cost,
	}
}

func newDispatcher(a *fakeAgency, q *fakeQueue, o *fakeOrders, w *fakeWatcher, m *fakeMessenger) *Dispatcher {
	return New(a, q, o, w, m, []string{"99"}, zap.NewNop())
}

func TestDispatchSubmitsWhenFunded(t *testing.T) {
	order := testOrder("7-1", 50)
	a := &fakeAgency{balance: 100}
	q := &fakeQueue{}
	o := newFakeOrders(order)
	w := &fakeWatcher{}
	m := &fakeMessenger{}

	res, err := newDispatcher(a, q, o, w, m).Dispatch(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, ResultSubmitted, res)
	assert.Equal(t, models.OrderStatusProcessing, o.statuses["7-1"])
	assert.Equal(t, int64(1), o.remotes["7-1"])
	assert.Equal(t, []string{"7-1"}, w.watched)
	assert.Empty(t, q.entries)
}

func TestDispatchDefersOnShortBalance(t *testing.T) {
	order := testOrder("7-2", 70)
	a := &fakeAgency{balance: 50}
	q := &fakeQueue{}
	o := newFakeOrders(order)
	w := &fakeWatcher{}
	m := &fakeMessenger{}

	res, err := newDispatcher(a, q, o, w, m).Dispatch(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, ResultDeferred, res)
	assert.Equal(t, models.OrderStatusQueued, o.statuses["7-2"])
	require.Len(t, q.entries, 1)
	assert.Equal(t, "7-2", q.entries[0].OrderID)
	// user still gets a confirmation, admins get the shortfall alert
	assert.NotEmpty(t, m.sent["7"])
	assert.NotEmpty(t, m.sent["99"])
	assert.Empty(t, w.watched)
	assert.Empty(t, a.added)
}

func TestDispatchDefersWhenBalanceUnreachable(t *testing.T) {
	order := testOrder("7-3", 70)
	a := &fakeAgency{balanceErr: errors.New("timeout")}
	q := &fakeQueue{}
	o := newFakeOrders(order)

	res, err := newDispatcher(a, q, o, &fakeWatcher{}, &fakeMessenger{}).Dispatch(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, ResultDeferred, res)
	assert.Len(t, q.entries, 1)
}

func TestDispatchFailsOnAgencyRejection(t *testing.T) {
	order := testOrder("7-4", 50)
	a := &fakeAgency{balance: 100, addErr: errors.New("link not supported")}
	q := &fakeQueue{}
	o := newFakeOrders(order)
	m := &fakeMessenger{}

	res, err := newDispatcher(a, q, o, &fakeWatcher{}, m).Dispatch(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, ResultFailed, res)
	assert.Equal(t, models.OrderStatusFailed, o.statuses["7-4"])
	assert.Empty(t, q.entries)
	assert.NotEmpty(t, m.sent["7"])
}

func TestSweepSubmitsFittingEntries(t *testing.T) {
	o1 := testOrder("7-10", 60)
	o2 := testOrder("7-11", 50)
	a := &fakeAgency{balance: 100}
	q := &fakeQueue{}
	o := newFakeOrders(o1, o2)
	w := &fakeWatcher{}
	m := &fakeMessenger{}
	d := newDispatcher(a, q, o, w, m)

	require.NoError(t, q.Enqueue(o1.OrderID, o1.ServiceID, o1.Link, o1.Quantity, o1.Cost))
	require.NoError(t, q.Enqueue(o2.OrderID, o2.ServiceID, o2.Link, o2.Quantity, o2.Cost))

	d.Sweep(context.Background())

	// 60 fits the 100 balance; the remaining 40 cannot cover 50, so
	// the second entry stays queued
	assert.Equal(t, models.OrderStatusProcessing, o.statuses["7-10"])
	assert.Equal(t, []string{"7-10"}, w.watched)
	require.Len(t, q.entries, 1)
	assert.Equal(t, "7-11", q.entries[0].OrderID)
	_, secondTouched := o.statuses["7-11"]
	assert.False(t, secondTouched)
}

func TestSweepEmptyQueueSkipsBalanceCall(t *testing.T) {
	a := &fakeAgency{balanceErr: errors.New("should not be called")}
	d := newDispatcher(a, &fakeQueue{}, newFakeOrders(), &fakeWatcher{}, &fakeMessenger{})
	d.Sweep(context.Background())
}

func TestSweepRejectionRemovesEntry(t *testing.T) {
	order := testOrder("7-12", 30)
	a := &fakeAgency{balance: 100, addErr: errors.New("service disabled")}
	q := &fakeQueue{}
	o := newFakeOrders(order)
	d := newDispatcher(a, q, o, &fakeWatcher{}, &fakeMessenger{})

	require.NoError(t, q.Enqueue(order.OrderID, order.ServiceID, order.Link, order.Quantity, order.Cost))
	d.Sweep(context.Background())

	assert.Empty(t, q.entries)
	assert.Equal(t, models.OrderStatusFailed, o.statuses["7-12"])
}

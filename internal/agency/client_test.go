package agency

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boostbot/internal/pkg/httpclient"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(httpclient.New(), srv.URL, "test-key"), srv
}

func TestServicesParsesMixedTypes(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "services", r.URL.Query().Get("action"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		// rates and ids arrive as strings about half the time
		w.Write([]byte(`[
			{"service":"101","name":"Instagram Followers","rate":"85.5","min":"100","max":"10000","refill":"1","cancel":false},
			{"service":202,"name":"YouTube Views","rate":120,"min":500,"max":100000,"refill":true,"cancel":"true"},
			{"service":0,"name":"broken row"}
		]`))
	})
	defer srv.Close()

	svcs, err := c.Services(context.Background())
	require.NoError(t, err)
	require.Len(t, svcs, 2)

	assert.Equal(t, int64(101), svcs[0].ID)
	assert.InDelta(t, 85.5, svcs[0].Rate, 1e-9)
	assert.Equal(t, 100, svcs[0].Min)
	assert.True(t, svcs[0].Refill)
	assert.False(t, svcs[0].Cancel)

	assert.Equal(t, int64(202), svcs[1].ID)
	assert.True(t, svcs[1].Cancel)
}

func TestServicesErrorObject(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"invalid api key"}`))
	})
	defer srv.Close()

	_, err := c.Services(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestAddOrder(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "add", q.Get("action"))
		assert.Equal(t, "101", q.Get("service"))
		assert.Equal(t, "https://example.com/p/1", q.Get("link"))
		assert.Equal(t, "500", q.Get("quantity"))
		w.Write([]byte(`{"order":"987654"}`))
	})
	defer srv.Close()

	id, err := c.AddOrder(context.Background(), 101, "https://example.com/p/1", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(987654), id)
}

func TestAddOrderError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"not enough funds"}`))
	})
	defer srv.Close()

	_, err := c.AddOrder(context.Background(), 101, "https://example.com", 500)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enough funds")
}

func TestStatusLowercased(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "status", q.Get("action"))
		assert.Equal(t, "987654", q.Get("order"))
		w.Write([]byte(`{"status":"Partial","remains":120}`))
	})
	defer srv.Close()

	st, err := c.Status(context.Background(), 987654)
	require.NoError(t, err)
	assert.Equal(t, "partial", st.Status)
	assert.Equal(t, "120", st.Remains)
}

func TestBalance(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "balance", r.URL.Query().Get("action"))
		w.Write([]byte(`{"balance":"1543.72","currency":"INR"}`))
	})
	defer srv.Close()

	bal, cur, err := c.Balance(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1543.72, bal, 1e-9)
	assert.Equal(t, "INR", cur)
}

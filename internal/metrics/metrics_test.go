package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nikolayk812/checkout-core/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservers(t *testing.T) {
	m := New()

	m.ObserveCheckout(nil, 10*time.Millisecond)
	m.ObserveCheckout(fmt.Errorf("ledger.Reserve: %w", domain.ErrInsufficientStock), time.Millisecond)
	m.ObserveCheckout(errors.New("boom"), time.Millisecond)
	m.ObserveCompensation(2, 1)
	m.ObserveTransition(domain.OrderStatusCancelled, nil)

	assert.InDelta(t, 1, testutil.ToFloat64(m.checkouts.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.checkouts.WithLabelValues("insufficient_stock")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.checkouts.WithLabelValues("internal")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.compensations.WithLabelValues("undone")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.compensations.WithLabelValues("failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.transitions.WithLabelValues("CANCELLED", "ok")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.checkoutLatency))
}

func TestMiddleware(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/orders/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/orders/42")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.InDelta(t, 1, testutil.ToFloat64(m.requests.WithLabelValues("GET /orders/{id}", "404")), 0)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "checkout_http_requests_total"))
}

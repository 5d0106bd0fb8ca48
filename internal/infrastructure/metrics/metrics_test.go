package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CartOperation("add")
		m.CheckoutTransition("next", nil)
		m.OrderSubmitted("whatsapp", time.Second, errors.New("x"))
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestMetrics_Exposition(t *testing.T) {
	m := New(func() float64 { return 3 })
	m.CartOperation("add")
	m.CartOperation("add")
	m.CheckoutTransition("next", errors.New("invalid"))
	m.OrderSubmitted("whatsapp", 120*time.Millisecond, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	assert.Contains(t, out, `storefront_cart_operations_total{op="add"} 2`)
	assert.Contains(t, out, `storefront_checkout_transitions_total{action="next",outcome="error"} 1`)
	assert.Contains(t, out, `storefront_order_submissions_total{channel="whatsapp",outcome="ok"} 1`)
	assert.Contains(t, out, `storefront_order_submit_duration_seconds_count{channel="whatsapp"} 1`)
	assert.Contains(t, out, "storefront_active_sessions 3")
}

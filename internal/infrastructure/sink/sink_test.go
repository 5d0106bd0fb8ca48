package sink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *domain.Order {
	return &domain.Order{
		ID:       "0f8fad5b-d9cb-469f-a165-70867728950e",
		Variant:  domain.VariantWhatsApp,
		Customer: domain.Customer{FirstName: "Ada", LastName: "Obi", Phone: "+234 801 234 5678"},
		Delivery: domain.Delivery{Address: "12 Marina Rd", City: "Lagos"},
		Items: []domain.OrderLine{
			{ItemID: "5", Name: "Extra Virgin Argan Oil", Quantity: 2, UnitPrice: decimal.NewFromInt(12500), LineTotal: decimal.NewFromInt(25000)},
		},
		Currency:    "NGN",
		Subtotal:    decimal.NewFromInt(25000),
		DeliveryFee: decimal.NewFromInt(2500),
		Tax:         decimal.Zero,
		Total:       decimal.NewFromInt(27500),
		Notes:       "Call on arrival",
	}
}

func TestWhatsAppSink_Submit(t *testing.T) {
	s := NewWhatsAppSink("+234 (801) 000-1111", "Wholesale Beauty Supply")

	conf, err := s.Submit(context.Background(), testOrder())

	require.NoError(t, err)
	assert.Equal(t, domain.ChannelWhatsApp, conf.Channel)
	assert.Equal(t, "0F8FAD5B", conf.Reference)

	u, err := url.Parse(conf.Link)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/2348010001111", u.Path)

	text := u.Query().Get("text")
	assert.Contains(t, text, "New order for Wholesale Beauty Supply (ref 0F8FAD5B)")
	assert.Contains(t, text, "- 2 x Extra Virgin Argan Oil @ NGN 12500.00 = NGN 25000.00")
	assert.Contains(t, text, "Delivery: NGN 2500.00")
	assert.Contains(t, text, "Total: NGN 27500.00")
	assert.Contains(t, text, "Deliver to: 12 Marina Rd, Lagos")
	assert.Contains(t, text, "Notes: Call on arrival")
	assert.NotContains(t, text, "Tax:")
}

func TestWhatsAppSink_FreeDelivery(t *testing.T) {
	order := testOrder()
	order.DeliveryFee = decimal.Zero

	msg := NewWhatsAppSink("", "").Message(order)

	assert.True(t, strings.HasPrefix(msg, "New order (ref"))
	assert.Contains(t, msg, "Delivery: free")
}

func TestWhatsAppSink_Errors(t *testing.T) {
	s := NewWhatsAppSink("1", "")

	empty := testOrder()
	empty.Items = nil
	_, err := s.Submit(context.Background(), empty)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Submit(ctx, testOrder())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimulatedPaymentSink(t *testing.T) {
	t.Run("confirms after delay", func(t *testing.T) {
		s := NewSimulatedPaymentSink(5 * time.Millisecond)
		conf, err := s.Submit(context.Background(), testOrder())
		require.NoError(t, err)
		assert.Equal(t, "SIM-0F8FAD5B", conf.Reference)
		assert.Equal(t, domain.ChannelSimulated, conf.Channel)
	})

	t.Run("declines", func(t *testing.T) {
		s := &SimulatedPaymentSink{Fail: true}
		_, err := s.Submit(context.Background(), testOrder())
		assert.ErrorIs(t, err, ErrSimulatedDecline)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		s := NewSimulatedPaymentSink(time.Hour)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := s.Submit(ctx, testOrder())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("short ids", func(t *testing.T) {
		order := testOrder()
		order.ID = "ab"
		conf, err := (&SimulatedPaymentSink{}).Submit(context.Background(), order)
		require.NoError(t, err)
		assert.Equal(t, "SIM-AB", conf.Reference)
	})
}

func newPaymentSink(url string, attempts int) *PaymentAPISink {
	return NewPaymentAPISink(PaymentAPIConfig{
		URL:      url,
		APIKey:   "secret",
		Timeout:  time.Second,
		Attempts: attempts,
		Backoff:  time.Millisecond,
	}, nil)
}

func TestPaymentAPISink_Success(t *testing.T) {
	var got domain.Order
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", r.Header.Get("Idempotency-Key"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"id":"pay_1","reference":"PAY-77","status":"succeeded"}`))
	}))
	defer srv.Close()

	conf, err := newPaymentSink(srv.URL, 3).Submit(context.Background(), testOrder())

	require.NoError(t, err)
	assert.Equal(t, "PAY-77", conf.Reference)
	assert.Equal(t, domain.ChannelPaymentAPI, conf.Channel)
	assert.Equal(t, "27500", got.Total.String())
}

func TestPaymentAPISink_Retries(t *testing.T) {
	tests := map[string]struct {
		statuses []int
		attempts int
		wantErr  bool
		calls    int32
	}{
		"recovers after 500":  {statuses: []int{500, 200}, attempts: 3, calls: 2},
		"recovers after 429":  {statuses: []int{429, 429, 200}, attempts: 3, calls: 3},
		"gives up after 503s": {statuses: []int{503, 503, 503}, attempts: 3, wantErr: true, calls: 3},
		"400 is final":        {statuses: []int{400, 200}, attempts: 3, wantErr: true, calls: 1},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				w.WriteHeader(tc.statuses[n-1])
				if tc.statuses[n-1] == http.StatusOK {
					_, _ = w.Write([]byte(`{"id":"pay_2","status":"accepted"}`))
				}
			}))
			defer srv.Close()

			conf, err := newPaymentSink(srv.URL, tc.attempts).Submit(context.Background(), testOrder())

			assert.Equal(t, tc.calls, calls.Load())
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "pay_2", conf.Reference)
		})
	}
}

func TestPaymentAPISink_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"pay_3","status":"declined"}`))
	}))
	defer srv.Close()

	_, err := newPaymentSink(srv.URL, 3).Submit(context.Background(), testOrder())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "declined")
}

func TestPaymentAPISink_CallerCancelStopsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewPaymentAPISink(PaymentAPIConfig{URL: srv.URL, Attempts: 5, Backoff: time.Hour}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.Submit(ctx, testOrder())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFromConfig(t *testing.T) {
	tests := map[string]struct {
		cfg     config.Config
		channel string
	}{
		"whatsapp":         {cfg: config.Config{CheckoutVariant: domain.VariantWhatsApp}, channel: domain.ChannelWhatsApp},
		"card simulated":   {cfg: config.Config{CheckoutVariant: domain.VariantCard}, channel: domain.ChannelSimulated},
		"card payment api": {cfg: config.Config{CheckoutVariant: domain.VariantCard, PaymentAPIURL: "http://pay.local"}, channel: domain.ChannelPaymentAPI},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := FromConfig(&tc.cfg, "Shop")
			require.NoError(t, err)
			assert.Equal(t, tc.channel, s.Channel())
		})
	}

	_, err := FromConfig(&config.Config{CheckoutVariant: "fax"}, "Shop")
	assert.Error(t, err)
}

func TestWait(t *testing.T) {
	require.NoError(t, wait(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.ErrorIs(t, wait(ctx, time.Hour), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

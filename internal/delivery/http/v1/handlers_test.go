package v1

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront-backend/config"
	"storefront-backend/internal/delivery/http/middleware"
	"storefront-backend/internal/domain"
	"storefront-backend/internal/infrastructure/cache"
	"storefront-backend/internal/repository/memory"
	"storefront-backend/internal/usecase"
	"storefront-backend/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSink is a func-field fake so each test can script the sink. The
// server goroutine reads the func, so it is swapped under a lock.
type stubSink struct {
	mu         sync.Mutex
	submitFunc func(ctx context.Context, order *domain.Order) (*domain.Confirmation, error)
}

func (s *stubSink) SetSubmitFunc(fn func(ctx context.Context, order *domain.Order) (*domain.Confirmation, error)) {
	s.mu.Lock()
	s.submitFunc = fn
	s.mu.Unlock()
}

func (s *stubSink) Channel() string { return "stub" }

func (s *stubSink) Submit(ctx context.Context, order *domain.Order) (*domain.Confirmation, error) {
	s.mu.Lock()
	fn := s.submitFunc
	s.mu.Unlock()
	if fn != nil {
		return fn(ctx, order)
	}
	return &domain.Confirmation{OrderID: order.ID, Channel: "stub", Reference: "STUB-1"}, nil
}

type stubImages struct {
	uploaded atomic.Int32
}

func (s *stubImages) UploadImage(ctx context.Context, data []byte, contentType string) (string, error) {
	s.uploaded.Add(1)
	return "https://cdn.example.com/products/new.webp", nil
}

func (s *stubImages) DeleteImage(ctx context.Context, url string) error { return nil }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Fields  []string        `json:"fields"`
}

type apiClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (c *apiClient) do(method, path string, body interface{}) (int, envelope) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, r)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

type testAPI struct {
	*apiClient
	sink   *stubSink
	images *stubImages
}

func newTestAPI(t *testing.T, variant domain.CheckoutVariant, images domain.ImageStore) *testAPI {
	t.Helper()
	utils.SetSecret("handler-secret")

	cfg := &config.Config{CacheCatalogTTL: time.Minute}
	repo := memory.NewProductRepository(memory.SeedProducts())
	sessions := usecase.NewSessionUsecase(cache.NewMemoryCache(time.Hour, 0), time.Hour)
	pricing := usecase.DeliveryPricing{
		Currency:  "NGN",
		Threshold: decimal.NewFromInt(50000),
		Fee:       decimal.NewFromInt(2500),
		TaxRate:   decimal.Zero,
	}
	sink := &stubSink{}

	catalogUC := usecase.NewCatalogUsecase(repo, cache.NewMemoryCache(time.Minute, 0), images, cfg)
	checkoutUC := usecase.NewCheckoutUsecase(sessions, sink, pricing, variant, nil)

	mux := http.NewServeMux()
	RegisterRoutes(mux, Handlers{
		Catalog:      NewCatalogHandler(catalogUC),
		AdminCatalog: NewAdminCatalogHandler(catalogUC),
		AdminStats:   NewAdminStatsHandler(usecase.NewStatsUsecase(repo, sessions, checkoutUC, "NGN")),
		Cart:         NewCartHandler(usecase.NewCartUsecase(sessions, repo, nil, 100)),
		Checkout:     NewCheckoutHandler(checkoutUC, time.Second),
		Config: NewConfigHandler(domain.StorefrontSettings{
			Currency:        "NGN",
			CheckoutVariant: variant,
			Steps:           variant.Steps(),
		}),
		Upload: NewUploadHandler(images, 1),
	}, middleware.NewSessionMiddleware(sessions, time.Hour, false))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	api := &testAPI{
		apiClient: &apiClient{t: t, base: srv.URL, client: &http.Client{Jar: jar}},
		sink:      sink,
	}
	if s, ok := images.(*stubImages); ok {
		api.images = s
	}
	return api
}

func TestCatalogRoutes(t *testing.T) {
	api := newTestAPI(t, domain.VariantWhatsApp, nil)

	status, env := api.do(http.MethodGet, "/api/v1/products?category=nail-care&sort=price_desc", nil)
	require.Equal(t, http.StatusOK, status)
	products := decode[[]domain.Product](t, env)
	require.Len(t, products, 3)
	assert.Equal(t, "Cordless UV Nail Lamp Pro", products[0].Name)

	status, _ = api.do(http.MethodGet, "/api/v1/products?sort=random", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = api.do(http.MethodGet, "/api/v1/products?minPrice=20000&maxPrice=25000&sort=price_asc", nil)
	require.Equal(t, http.StatusOK, status)
	products = decode[[]domain.Product](t, env)
	require.Len(t, products, 6)
	assert.Equal(t, "20000", products[0].Price.String())
	assert.Equal(t, "25000", products[5].Price.String())

	for _, q := range []string{"minPrice=abc", "maxPrice=-1", "minPrice=30000&maxPrice=20000"} {
		status, _ = api.do(http.MethodGet, "/api/v1/products?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, status, q)
	}

	status, env = api.do(http.MethodGet, "/api/v1/products/16", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Luxury Pedicure Chair", decode[domain.Product](t, env).Name)

	status, _ = api.do(http.MethodGet, "/api/v1/products/999", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = api.do(http.MethodGet, "/api/v1/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = api.do(http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]domain.CategoryCount](t, env), 10)
}

func TestConfigRoutes(t *testing.T) {
	api := newTestAPI(t, domain.VariantCard, nil)

	status, env := api.do(http.MethodGet, "/api/v1/config/storefront", nil)
	require.Equal(t, http.StatusOK, status)
	settings := decode[domain.StorefrontSettings](t, env)
	assert.Equal(t, domain.VariantCard, settings.CheckoutVariant)
	assert.Len(t, settings.Steps, 3)
}

func TestCartRoutes(t *testing.T) {
	api := newTestAPI(t, domain.VariantWhatsApp, nil)

	status, env := api.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"productId": 5, "quantity": 2})
	require.Equal(t, http.StatusOK, status)
	cart := decode[domain.CartState](t, env)
	assert.Equal(t, 2, cart.TotalItems)

	// Same cookie, same cart.
	_, env = api.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"productId": 5})
	assert.Equal(t, 3, decode[domain.CartState](t, env).TotalItems)

	status, env = api.do(http.MethodPut, "/api/v1/cart/items/5", map[string]int{"quantity": 1})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "12500", decode[domain.CartState](t, env).TotalPrice.String())

	status, _ = api.do(http.MethodPut, "/api/v1/cart/items/5", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"productId": 5, "quantity": 500})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"productId": 404})
	assert.Equal(t, http.StatusNotFound, status)

	_, env = api.do(http.MethodPost, "/api/v1/cart/toggle", nil)
	assert.True(t, decode[domain.CartState](t, env).Open)

	status, env = api.do(http.MethodDelete, "/api/v1/cart/items/5", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decode[domain.CartState](t, env).IsEmpty())
}

func TestCheckoutRoutes_WhatsAppHappyPath(t *testing.T) {
	api := newTestAPI(t, domain.VariantWhatsApp, nil)

	status, env := api.do(http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusConflict, status, env.Message)

	api.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"productId": 16})

	status, env = api.do(http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusCreated, status)
	view := decode[domain.CheckoutView](t, env)
	assert.Equal(t, domain.StepCustomerAndDelivery, view.Step)
	assert.True(t, view.Summary.DeliveryFee.IsZero())

	status, env = api.do(http.MethodPost, "/api/v1/checkout/next", nil)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, env.Fields, "firstName")
	assert.Equal(t, 1, decode[domain.CheckoutView](t, env).CurrentStep)

	api.do(http.MethodPut, "/api/v1/checkout/customer", domain.Customer{FirstName: "Ada", LastName: "Obi", Phone: "0801"})
	api.do(http.MethodPut, "/api/v1/checkout/delivery", domain.Delivery{Address: "12 Marina Rd"})
	status, _ = api.do(http.MethodPut, "/api/v1/checkout/payment", domain.PaymentCard{CardNumber: "4111111111111111"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = api.do(http.MethodPost, "/api/v1/checkout/next", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.StepReview, decode[domain.CheckoutView](t, env).Step)

	status, env = api.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	require.Equal(t, http.StatusOK, status)
	view = decode[domain.CheckoutView](t, env)
	assert.True(t, view.IsComplete)
	require.NotNil(t, view.Confirmation)
	assert.Equal(t, "STUB-1", view.Confirmation.Reference)

	status, _ = api.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	assert.Equal(t, http.StatusConflict, status)

	_, env = api.do(http.MethodGet, "/api/v1/cart", nil)
	assert.True(t, decode[domain.CartState](t, env).IsEmpty())
}

func TestCheckoutRoutes_SinkFailureIsRetryable(t *testing.T) {
	api := newTestAPI(t, domain.VariantCard, nil)
	api.sink.SetSubmitFunc(func(ctx context.Context, order *domain.Order) (*domain.Confirmation, error) {
		return nil, errors.New("card declined")
	})

	api.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"productId": 1})
	api.do(http.MethodPost, "/api/v1/checkout", nil)
	api.do(http.MethodPut, "/api/v1/checkout/customer", domain.Customer{FirstName: "Ada", LastName: "Obi", Email: "a@b.c", Phone: "0801"})
	api.do(http.MethodPut, "/api/v1/checkout/delivery", domain.Delivery{Address: "12 Marina Rd", City: "Lagos"})
	status, _ := api.do(http.MethodPost, "/api/v1/checkout/next", nil)
	require.Equal(t, http.StatusOK, status)
	api.do(http.MethodPut, "/api/v1/checkout/payment", domain.PaymentCard{CardName: "Ada Obi", CardNumber: "4111-1111-1111-1111", Expiry: "09/28", CVV: "321"})
	status, _ = api.do(http.MethodPost, "/api/v1/checkout/next", nil)
	require.Equal(t, http.StatusOK, status)

	status, env := api.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	require.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "Order could not be submitted, please try again", env.Message)
	view := decode[domain.CheckoutView](t, env)
	assert.False(t, view.IsComplete)
	require.NotNil(t, view.Payment)
	assert.Equal(t, "1111", view.Payment.Last4)
	assert.NotContains(t, string(env.Data), "4111111111111111")

	_, env = api.do(http.MethodGet, "/api/v1/cart", nil)
	assert.False(t, decode[domain.CartState](t, env).IsEmpty())

	api.sink.SetSubmitFunc(nil)
	status, _ = api.do(http.MethodPost, "/api/v1/checkout/submit", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestCheckoutRoutes_CloseAndMissing(t *testing.T) {
	api := newTestAPI(t, domain.VariantWhatsApp, nil)

	status, _ := api.do(http.MethodGet, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusNotFound, status)

	api.do(http.MethodPost, "/api/v1/cart/items", map[string]int{"productId": 2})
	api.do(http.MethodPost, "/api/v1/checkout", nil)
	status, _ = api.do(http.MethodDelete, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusNoContent, status)

	_, env := api.do(http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, 1, decode[domain.CartState](t, env).TotalItems)
}

func TestAdminRoutes(t *testing.T) {
	api := newTestAPI(t, domain.VariantWhatsApp, nil)

	status, env := api.do(http.MethodPost, "/api/v1/admin/products", map[string]interface{}{
		"id": 99, "name": "Salon Towel", "category": "Accessories", "price": "3000",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	created := decode[domain.Product](t, env)
	assert.Equal(t, 19, created.ID)

	status, _ = api.do(http.MethodPost, "/api/v1/admin/products", map[string]interface{}{"name": "No price", "category": "Oils"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = api.do(http.MethodPatch, "/api/v1/admin/products/19", map[string]string{"price": "3500"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "3500", decode[domain.Product](t, env).Price.String())

	status, _ = api.do(http.MethodDelete, "/api/v1/admin/products/19", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, env = api.do(http.MethodGet, "/api/v1/admin/stats", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 18, decode[domain.DashboardStats](t, env).TotalProducts)

	status, env = api.do(http.MethodPut, "/api/v1/admin/products", []map[string]interface{}{
		{"id": 1, "name": "Only", "category": "Oils", "price": "10"},
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	_, env = api.do(http.MethodGet, "/api/v1/products", nil)
	assert.Len(t, decode[[]domain.Product](t, env), 1)
}

func pngUpload(t *testing.T, filename, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(img.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func upload(t *testing.T, api *testAPI, filename, contentType string) int {
	t.Helper()
	body, ct := pngUpload(t, filename, contentType)
	req, err := http.NewRequest(http.MethodPost, api.base+"/api/v1/admin/upload", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", ct)
	resp, err := api.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestUploadRoute(t *testing.T) {
	t.Run("storage not configured", func(t *testing.T) {
		api := newTestAPI(t, domain.VariantWhatsApp, nil)
		assert.Equal(t, http.StatusConflict, upload(t, api, "a.png", "image/png"))
	})

	t.Run("stores processed image", func(t *testing.T) {
		api := newTestAPI(t, domain.VariantWhatsApp, &stubImages{})
		assert.Equal(t, http.StatusCreated, upload(t, api, "a.png", "image/png"))
		assert.Equal(t, int32(1), api.images.uploaded.Load())
	})

	t.Run("rejects other types", func(t *testing.T) {
		api := newTestAPI(t, domain.VariantWhatsApp, &stubImages{})
		assert.Equal(t, http.StatusBadRequest, upload(t, api, "a.pdf", "application/pdf"))
		assert.Zero(t, api.images.uploaded.Load())
	})
}

func TestWriteError_StatusAndMessage(t *testing.T) {
	tests := map[string]struct {
		err     error
		status  int
		message string
	}{
		"sink failure": {
			err:     &domain.SinkError{Channel: "payment_api", Err: errors.New("card declined")},
			status:  http.StatusBadGateway,
			message: "Order could not be submitted, please try again",
		},
		"unexpected": {
			err:     errors.New("disk on fire"),
			status:  http.StatusInternalServerError,
			message: "Internal server error",
		},
		"in flight": {
			err:     domain.ErrSubmitInProgress,
			status:  http.StatusConflict,
			message: domain.ErrSubmitInProgress.Error(),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout/submit", nil), tc.err, nil)

			require.Equal(t, tc.status, rec.Code)
			var env envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, tc.message, env.Message)
		})
	}
}

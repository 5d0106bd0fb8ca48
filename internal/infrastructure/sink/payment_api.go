package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"

	"github.com/goccy/go-json"
)

// PaymentAPIConfig configures PaymentAPISink. Timeout applies per attempt and
// Attempts bounds the total number of requests.
type PaymentAPIConfig struct {
	URL      string
	APIKey   string
	Timeout  time.Duration
	Attempts int
	Backoff  time.Duration
}

// PaymentAPISink posts the order to a payment/order HTTP API.
type PaymentAPISink struct {
	cfg        PaymentAPIConfig
	httpClient *http.Client
}

type paymentAPIResponse struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

func NewPaymentAPISink(cfg PaymentAPIConfig, httpClient *http.Client) *PaymentAPISink {
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &PaymentAPISink{cfg: cfg, httpClient: httpClient}
}

func (s *PaymentAPISink) Channel() string {
	return domain.ChannelPaymentAPI
}

// Submit retries transport errors, 5xx and 429 responses. Any other 4xx is
// treated as a permanent rejection of the payload.
func (s *PaymentAPISink) Submit(ctx context.Context, order *domain.Order) (*domain.Confirmation, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	log := logger.WithContext(ctx)
	var lastErr error
	for attempt := 1; attempt <= s.cfg.Attempts; attempt++ {
		conf, retry, err := s.post(ctx, order.ID, payload)
		if err == nil {
			return conf, nil
		}
		lastErr = err
		if !retry || attempt == s.cfg.Attempts {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Str("order_id", order.ID).Msg("payment API attempt failed, retrying")

		if err := wait(ctx, time.Duration(attempt)*s.cfg.Backoff); err != nil {
			return nil, errors.Join(lastErr, err)
		}
	}
	return nil, lastErr
}

// wait sleeps for d or until ctx is done, releasing its timer either way.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *PaymentAPISink) post(ctx context.Context, orderID string, payload []byte) (*domain.Confirmation, bool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, s.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", orderID)
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		// The caller's own cancellation is final; a per-attempt timeout is not.
		if ctx.Err() != nil {
			return nil, false, fmt.Errorf("payment request: %w", err)
		}
		return nil, true, fmt.Errorf("payment request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("payment API error (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var out paymentAPIResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, false, fmt.Errorf("decode payment response: %w", err)
		}
	}
	if out.Status != "" && out.Status != "ok" && out.Status != "accepted" && out.Status != "succeeded" {
		return nil, false, fmt.Errorf("payment declined: %s", out.Status)
	}

	ref := out.Reference
	if ref == "" {
		ref = out.ID
	}
	return &domain.Confirmation{
		OrderID:   orderID,
		Channel:   domain.ChannelPaymentAPI,
		Reference: ref,
	}, false, nil
}

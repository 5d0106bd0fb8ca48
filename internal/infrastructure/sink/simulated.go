package sink

import (
	"context"
	"errors"
	"time"

	"storefront-backend/internal/domain"
)

// ErrSimulatedDecline is returned by a SimulatedPaymentSink set up to fail.
var ErrSimulatedDecline = errors.New("simulated payment declined")

// SimulatedPaymentSink stands in for a payment provider in development. It
// waits Delay and then confirms, or declines when Fail is set.
type SimulatedPaymentSink struct {
	Delay time.Duration
	Fail  bool
}

func NewSimulatedPaymentSink(delay time.Duration) *SimulatedPaymentSink {
	return &SimulatedPaymentSink{Delay: delay}
}

func (s *SimulatedPaymentSink) Channel() string {
	return domain.ChannelSimulated
}

func (s *SimulatedPaymentSink) Submit(ctx context.Context, order *domain.Order) (*domain.Confirmation, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if s.Fail {
		return nil, ErrSimulatedDecline
	}
	return &domain.Confirmation{
		OrderID:   order.ID,
		Channel:   domain.ChannelSimulated,
		Reference: "SIM-" + shortRef(order.ID),
	}, nil
}

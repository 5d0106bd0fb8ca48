package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/infrastructure/metrics"
	"storefront-backend/pkg/logger"
)

// CheckoutUsecase runs one CheckoutFlow per session against the deployment's
// order sink and pricing.
type CheckoutUsecase struct {
	sessions *SessionUsecase
	sink     domain.OrderSink
	pricing  DeliveryPricing
	variant  domain.CheckoutVariant
	metrics  *metrics.Metrics

	completed atomic.Int64
	failed    atomic.Int64
}

func NewCheckoutUsecase(sessions *SessionUsecase, sink domain.OrderSink, pricing DeliveryPricing, variant domain.CheckoutVariant, m *metrics.Metrics) *CheckoutUsecase {
	return &CheckoutUsecase{
		sessions: sessions,
		sink:     sink,
		pricing:  pricing,
		variant:  variant,
		metrics:  m,
	}
}

func (uc *CheckoutUsecase) Variant() domain.CheckoutVariant {
	return uc.variant
}

func (uc *CheckoutUsecase) Pricing() DeliveryPricing {
	return uc.pricing
}

// Open starts a checkout at step 1. An unfinished checkout is resumed as is,
// so reopening never loses entered data; a completed one is replaced. An
// empty cart is refused either way, and a stale unfinished checkout over an
// emptied cart is dropped.
func (uc *CheckoutUsecase) Open(ctx context.Context, sessionID string) (domain.CheckoutView, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.CheckoutView{}, err
	}

	sess.Cart.hold()
	defer sess.Cart.release()
	if flow := sess.Checkout(); flow != nil && !flow.State().IsComplete {
		if !sess.Cart.IsEmpty() || flow.abandon() != nil {
			return flow.View(), nil
		}
		sess.setCheckout(nil)
	}

	flow, err := NewCheckoutFlow(sess.Cart, uc.sink, uc.pricing, uc.variant)
	uc.metrics.CheckoutTransition("open", err)
	if err != nil {
		return domain.CheckoutView{}, err
	}
	sess.setCheckout(flow)
	logger.WithContext(ctx).Info().Str("variant", string(uc.variant)).Msg("Checkout opened")
	return flow.View(), nil
}

func (uc *CheckoutUsecase) Get(ctx context.Context, sessionID string) (domain.CheckoutView, error) {
	flow, err := uc.flow(ctx, sessionID)
	if err != nil {
		return domain.CheckoutView{}, err
	}
	return flow.View(), nil
}

// Close abandons the checkout. The cart is left untouched.
func (uc *CheckoutUsecase) Close(ctx context.Context, sessionID string) error {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.Cart.hold()
	defer sess.Cart.release()
	flow := sess.Checkout()
	if flow == nil {
		return nil
	}
	if err := flow.abandon(); err != nil {
		return err
	}
	sess.setCheckout(nil)
	uc.metrics.CheckoutTransition("close", nil)
	return nil
}

func (uc *CheckoutUsecase) UpdateCustomer(ctx context.Context, sessionID string, customer domain.Customer) (domain.CheckoutView, error) {
	return uc.apply(ctx, sessionID, func(f *CheckoutFlow) error { return f.UpdateCustomer(customer) })
}

func (uc *CheckoutUsecase) UpdateDelivery(ctx context.Context, sessionID string, delivery domain.Delivery) (domain.CheckoutView, error) {
	return uc.apply(ctx, sessionID, func(f *CheckoutFlow) error { return f.UpdateDelivery(delivery) })
}

func (uc *CheckoutUsecase) UpdatePayment(ctx context.Context, sessionID string, card domain.PaymentCard) (domain.CheckoutView, error) {
	return uc.apply(ctx, sessionID, func(f *CheckoutFlow) error { return f.UpdatePayment(card) })
}

func (uc *CheckoutUsecase) UpdateNotes(ctx context.Context, sessionID string, notes string) (domain.CheckoutView, error) {
	return uc.apply(ctx, sessionID, func(f *CheckoutFlow) error { return f.UpdateNotes(notes) })
}

func (uc *CheckoutUsecase) Next(ctx context.Context, sessionID string) (domain.CheckoutView, error) {
	return uc.move(ctx, sessionID, "next", (*CheckoutFlow).Next)
}

func (uc *CheckoutUsecase) Back(ctx context.Context, sessionID string) (domain.CheckoutView, error) {
	return uc.move(ctx, sessionID, "back", (*CheckoutFlow).Back)
}

func (uc *CheckoutUsecase) move(ctx context.Context, sessionID, action string, step func(*CheckoutFlow) error) (domain.CheckoutView, error) {
	from := 0
	view, err := uc.apply(ctx, sessionID, func(f *CheckoutFlow) error {
		from = f.State().CurrentStep
		return step(f)
	})
	uc.metrics.CheckoutTransition(action, err)
	logger.CheckoutStep(ctx, action, from, view.CurrentStep, err)
	return view, err
}

// Submit hands the order to the sink. The returned view reflects the state
// after the attempt, so on a sink failure it still carries the form data.
func (uc *CheckoutUsecase) Submit(ctx context.Context, sessionID string) (domain.CheckoutView, error) {
	flow, err := uc.flow(ctx, sessionID)
	if err != nil {
		return domain.CheckoutView{}, err
	}

	start := time.Now()
	conf, err := flow.Submit(ctx)
	took := time.Since(start)

	uc.metrics.CheckoutTransition("submit", err)
	var orderID string
	if conf != nil {
		orderID = conf.OrderID
	}
	switch {
	case err == nil:
		uc.completed.Add(1)
		uc.metrics.OrderSubmitted(uc.sink.Channel(), took, nil)
		logger.SinkSubmit(ctx, uc.sink.Channel(), orderID, took, nil)
	case isSinkError(err):
		uc.failed.Add(1)
		uc.metrics.OrderSubmitted(uc.sink.Channel(), took, err)
		logger.SinkSubmit(ctx, uc.sink.Channel(), orderID, took, err)
	}
	return flow.View(), err
}

// Completed is the number of checkouts that reached the sink successfully
// since the process started.
func (uc *CheckoutUsecase) Completed() int64 {
	return uc.completed.Load()
}

func (uc *CheckoutUsecase) Failed() int64 {
	return uc.failed.Load()
}

func (uc *CheckoutUsecase) flow(ctx context.Context, sessionID string) (*CheckoutFlow, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	flow := sess.Checkout()
	if flow == nil {
		return nil, domain.ErrNoCheckout
	}
	return flow, nil
}

func (uc *CheckoutUsecase) apply(ctx context.Context, sessionID string, fn func(*CheckoutFlow) error) (domain.CheckoutView, error) {
	flow, err := uc.flow(ctx, sessionID)
	if err != nil {
		return domain.CheckoutView{}, err
	}
	if err := fn(flow); err != nil {
		return flow.View(), err
	}
	return flow.View(), nil
}

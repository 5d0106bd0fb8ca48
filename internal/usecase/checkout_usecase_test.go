package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/infrastructure/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckoutUsecase(t *testing.T, sink domain.OrderSink, variant domain.CheckoutVariant) (*CheckoutUsecase, *SessionUsecase, string) {
	t.Helper()
	sessions := newSessions(time.Minute)
	sess := sessions.Ensure(context.Background(), "s1")
	sess.Cart.AddItem(item("1", "30000", 1))
	return NewCheckoutUsecase(sessions, sink, ngnPricing, variant, nil), sessions, "s1"
}

func TestCheckoutUsecase_OpenRequiresItems(t *testing.T) {
	uc, sessions, sid := newCheckoutUsecase(t, &fakeSink{}, domain.VariantWhatsApp)
	sess, _ := sessions.Get(context.Background(), sid)
	sess.Cart.Clear()

	_, err := uc.Open(context.Background(), sid)

	var pre *domain.PreconditionError
	assert.ErrorAs(t, err, &pre)
	assert.Nil(t, sess.Checkout())
}

func TestCheckoutUsecase_GetWithoutOpen(t *testing.T) {
	uc, _, sid := newCheckoutUsecase(t, &fakeSink{}, domain.VariantWhatsApp)
	_, err := uc.Get(context.Background(), sid)
	assert.ErrorIs(t, err, domain.ErrNoCheckout)
}

func TestCheckoutUsecase_OpenResumesUnfinished(t *testing.T) {
	uc, _, sid := newCheckoutUsecase(t, &fakeSink{}, domain.VariantWhatsApp)
	ctx := context.Background()

	view, err := uc.Open(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 1, view.CurrentStep)
	assert.Equal(t, 2, view.TotalSteps)
	assert.Equal(t, "32500", view.Summary.Total.String())
	assert.Equal(t, "20000", view.Summary.AmountToFreeDelivery.String())

	_, err = uc.UpdateCustomer(ctx, sid, validCustomer)
	require.NoError(t, err)

	view, err = uc.Open(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "Ada", view.Customer.FirstName)
}

func TestCheckoutUsecase_OpenRefusesEmptiedCart(t *testing.T) {
	uc, sessions, sid := newCheckoutUsecase(t, &fakeSink{}, domain.VariantWhatsApp)
	ctx := context.Background()
	_, err := uc.Open(ctx, sid)
	require.NoError(t, err)
	_, err = uc.UpdateCustomer(ctx, sid, validCustomer)
	require.NoError(t, err)

	sess, _ := sessions.Get(ctx, sid)
	sess.Cart.Clear()

	_, err = uc.Open(ctx, sid)
	var pre *domain.PreconditionError
	assert.ErrorAs(t, err, &pre)
	_, err = uc.Get(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrNoCheckout, "the stale checkout is dropped")
}

func TestCheckoutUsecase_SubmitAfterCloseIsRefused(t *testing.T) {
	sink := &fakeSink{}
	uc, sessions, sid := newCheckoutUsecase(t, sink, domain.VariantWhatsApp)
	ctx := context.Background()
	_, err := uc.Open(ctx, sid)
	require.NoError(t, err)
	_, _ = uc.UpdateCustomer(ctx, sid, validCustomer)
	_, _ = uc.UpdateDelivery(ctx, sid, validDelivery)
	_, err = uc.Next(ctx, sid)
	require.NoError(t, err)

	// A request that fetched the flow just before the close.
	sess, _ := sessions.Get(ctx, sid)
	flow := sess.Checkout()
	require.NoError(t, uc.Close(ctx, sid))

	_, err = flow.Submit(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCheckout)
	assert.Equal(t, int32(0), sink.calls.Load())
	assert.False(t, sess.Cart.IsEmpty())
}

func TestCheckoutUsecase_CloseKeepsCart(t *testing.T) {
	uc, sessions, sid := newCheckoutUsecase(t, &fakeSink{}, domain.VariantWhatsApp)
	ctx := context.Background()
	_, err := uc.Open(ctx, sid)
	require.NoError(t, err)

	require.NoError(t, uc.Close(ctx, sid))

	_, err = uc.Get(ctx, sid)
	assert.ErrorIs(t, err, domain.ErrNoCheckout)
	sess, _ := sessions.Get(ctx, sid)
	assert.False(t, sess.Cart.IsEmpty())
	assert.NoError(t, uc.Close(ctx, sid))
}

func TestCheckoutUsecase_ValidationErrorReturnsView(t *testing.T) {
	uc, _, sid := newCheckoutUsecase(t, &fakeSink{}, domain.VariantCard)
	ctx := context.Background()
	_, err := uc.Open(ctx, sid)
	require.NoError(t, err)

	view, err := uc.Next(ctx, sid)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, view.CurrentStep)
	assert.Equal(t, 3, view.TotalSteps)
}

func TestCheckoutUsecase_SubmitCountsOutcomes(t *testing.T) {
	fail := true
	sink := &fakeSink{submitFn: func(ctx context.Context, order *domain.Order) (*domain.Confirmation, error) {
		if fail {
			return nil, errors.New("declined")
		}
		return &domain.Confirmation{OrderID: order.ID, Channel: "fake"}, nil
	}}
	uc, sessions, sid := newCheckoutUsecase(t, sink, domain.VariantWhatsApp)
	m := metrics.New(func() float64 { return float64(sessions.Count()) })
	uc.metrics = m
	ctx := context.Background()

	_, err := uc.Open(ctx, sid)
	require.NoError(t, err)
	_, _ = uc.UpdateCustomer(ctx, sid, validCustomer)
	_, _ = uc.UpdateDelivery(ctx, sid, validDelivery)
	_, err = uc.Next(ctx, sid)
	require.NoError(t, err)

	view, err := uc.Submit(ctx, sid)
	var sinkErr *domain.SinkError
	require.ErrorAs(t, err, &sinkErr)
	assert.False(t, view.IsComplete)
	assert.Equal(t, "Ada", view.Customer.FirstName)
	assert.Equal(t, int64(1), uc.Failed())

	fail = false
	view, err = uc.Submit(ctx, sid)
	require.NoError(t, err)
	assert.True(t, view.IsComplete)
	require.NotNil(t, view.Order)
	assert.Empty(t, view.Items)
	assert.Equal(t, "32500", view.Summary.Total.String())
	assert.Equal(t, int64(1), uc.Completed())

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var series int
	for _, mf := range families {
		if mf.GetName() == "storefront_order_submissions_total" {
			series = len(mf.GetMetric())
		}
	}
	assert.Equal(t, 2, series, "one ok and one error series")

	// A completed checkout is replaced on the next open, which needs items again.
	_, err = uc.Open(ctx, sid)
	var pre *domain.PreconditionError
	assert.ErrorAs(t, err, &pre)
}

func TestCheckoutUsecase_PreconditionNotCountedAsFailure(t *testing.T) {
	uc, _, sid := newCheckoutUsecase(t, &fakeSink{}, domain.VariantWhatsApp)
	ctx := context.Background()
	_, err := uc.Open(ctx, sid)
	require.NoError(t, err)

	_, err = uc.Submit(ctx, sid)

	assert.ErrorIs(t, err, domain.ErrNotAtReview)
	assert.Zero(t, uc.Failed())
}

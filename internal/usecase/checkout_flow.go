package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"storefront-backend/internal/domain"

	"github.com/google/uuid"
)

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// CheckoutFlow drives one checkout attempt through the variant's steps and
// submits the order to the sink at most once at a time. It reads the cart on
// every call and only mutates it by clearing it after a successful submit.
type CheckoutFlow struct {
	mu      sync.Mutex
	cart    *CartStore
	sink    domain.OrderSink
	pricing DeliveryPricing
	variant domain.CheckoutVariant
	steps   []domain.StepKind
	state   domain.CheckoutState
	order   *domain.Order
	closed  bool
	now     func() time.Time
}

// NewCheckoutFlow opens a checkout at step 1. It refuses an empty cart.
func NewCheckoutFlow(cart *CartStore, sink domain.OrderSink, pricing DeliveryPricing, variant domain.CheckoutVariant) (*CheckoutFlow, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, &domain.PreconditionError{Reason: "cart is empty"}
	}
	if !variant.IsValid() {
		return nil, &domain.PreconditionError{Reason: "unknown checkout variant " + string(variant)}
	}
	if sink == nil {
		return nil, &domain.PreconditionError{Reason: "no order sink configured"}
	}
	return &CheckoutFlow{
		cart:    cart,
		sink:    sink,
		pricing: pricing,
		variant: variant,
		steps:   variant.Steps(),
		state:   domain.CheckoutState{CurrentStep: 1},
		now:     time.Now,
	}, nil
}

func (f *CheckoutFlow) Variant() domain.CheckoutVariant {
	return f.variant
}

// State returns a copy of the form state.
func (f *CheckoutFlow) State() domain.CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// View returns the form state together with the live cart contents and price
// breakdown. After completion it carries the submitted order instead.
func (f *CheckoutFlow) View() domain.CheckoutView {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := f.cart.Snapshot()
	view := domain.CheckoutView{
		CheckoutState: f.state,
		Variant:       f.variant,
		Step:          f.currentKind(),
		TotalSteps:    len(f.steps),
		Payment:       f.maskedPayment(),
		Items:         snapshot.Items,
		Summary:       f.pricing.Quote(snapshot.TotalPrice),
	}
	if f.state.IsComplete && f.order != nil {
		view.Order = f.order
		view.Items = nil
		view.Summary = domain.PriceBreakdown{
			Currency:    f.order.Currency,
			Subtotal:    f.order.Subtotal,
			DeliveryFee: f.order.DeliveryFee,
			Tax:         f.order.Tax,
			Total:       f.order.Total,
		}
	}
	return view
}

func (f *CheckoutFlow) UpdateCustomer(customer domain.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.guardMutable(); err != nil {
		return err
	}
	f.state.Customer = trimCustomer(customer)
	return nil
}

func (f *CheckoutFlow) UpdateDelivery(delivery domain.Delivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.guardMutable(); err != nil {
		return err
	}
	f.state.Delivery = trimDelivery(delivery)
	return nil
}

// UpdatePayment is only accepted by variants that have a payment step.
func (f *CheckoutFlow) UpdatePayment(card domain.PaymentCard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.guardMutable(); err != nil {
		return err
	}
	if !f.hasStep(domain.StepPayment) {
		return domain.ErrStepNotApplicable
	}
	f.state.Payment = domain.PaymentCard{
		CardName:   strings.TrimSpace(card.CardName),
		CardNumber: digitsOnly(card.CardNumber),
		Expiry:     strings.TrimSpace(card.Expiry),
		CVV:        strings.TrimSpace(card.CVV),
	}
	return nil
}

func (f *CheckoutFlow) UpdateNotes(notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.guardMutable(); err != nil {
		return err
	}
	f.state.Notes = strings.TrimSpace(notes)
	return nil
}

// Next validates the current step and advances. A failed validation leaves
// the state untouched.
func (f *CheckoutFlow) Next() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.guardMutable(); err != nil {
		return err
	}
	if f.state.CurrentStep >= len(f.steps) {
		return domain.ErrNoNextStep
	}
	if err := f.validate(f.currentKind()); err != nil {
		return err
	}
	f.state.CurrentStep++
	return nil
}

// Back moves one step back and keeps every entered field. It is a no-op on
// the first step.
func (f *CheckoutFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.guardMutable(); err != nil {
		return err
	}
	if f.state.CurrentStep > 1 {
		f.state.CurrentStep--
	}
	return nil
}

// Submit hands the order to the sink. Only one submission can be in flight;
// a concurrent call gets ErrSubmitInProgress without reaching the sink. On
// sink failure the cart and form are kept and a *domain.SinkError is
// returned so the caller can retry. ctx bounds the sink call; no other
// timeout is applied here.
func (f *CheckoutFlow) Submit(ctx context.Context) (*domain.Confirmation, error) {
	order, err := f.begin()
	if err != nil {
		return nil, err
	}

	confirmation, err := f.sink.Submit(ctx, order)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.IsSubmitting = false
	if err != nil {
		return nil, &domain.SinkError{Channel: f.sink.Channel(), Err: err}
	}
	if confirmation == nil {
		confirmation = &domain.Confirmation{OrderID: order.ID, Channel: f.sink.Channel()}
	}
	f.state.IsComplete = true
	f.state.Confirmation = confirmation
	f.order = order
	f.cart.Clear()
	return confirmation, nil
}

// begin checks the submit preconditions, snapshots the cart into an order and
// marks the flow as submitting. It holds the cart's transaction lock so no
// cart change can land between the snapshot and IsSubmitting being set.
func (f *CheckoutFlow) begin() (*domain.Order, error) {
	f.cart.hold()
	defer f.cart.release()
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, domain.ErrNoCheckout
	}
	if f.state.IsComplete {
		return nil, domain.ErrCheckoutComplete
	}
	if f.state.IsSubmitting {
		return nil, domain.ErrSubmitInProgress
	}
	if f.currentKind() != domain.StepReview {
		return nil, domain.ErrNotAtReview
	}
	snapshot := f.cart.Snapshot()
	if snapshot.IsEmpty() {
		return nil, &domain.PreconditionError{Reason: "cart is empty"}
	}
	f.state.IsSubmitting = true
	return f.buildOrder(snapshot), nil
}

// abandon marks the flow closed so a submit racing the close cannot start.
func (f *CheckoutFlow) abandon() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.IsSubmitting {
		return domain.ErrSubmitInProgress
	}
	f.closed = true
	return nil
}

func (f *CheckoutFlow) guardMutable() error {
	if f.state.IsComplete {
		return domain.ErrCheckoutComplete
	}
	if f.state.IsSubmitting {
		return domain.ErrSubmitInProgress
	}
	return nil
}

func (f *CheckoutFlow) currentKind() domain.StepKind {
	return f.steps[f.state.CurrentStep-1]
}

func (f *CheckoutFlow) hasStep(kind domain.StepKind) bool {
	for _, s := range f.steps {
		if s == kind {
			return true
		}
	}
	return false
}

func (f *CheckoutFlow) validate(kind domain.StepKind) error {
	var missing []string
	switch kind {
	case domain.StepCustomerAndDelivery:
		c, d := f.state.Customer, f.state.Delivery
		if c.FirstName == "" {
			missing = append(missing, "firstName")
		}
		if c.LastName == "" {
			missing = append(missing, "lastName")
		}
		// Email is collected by both variants but only gates the card one.
		if f.variant == domain.VariantCard && c.Email == "" {
			missing = append(missing, "email")
		}
		if c.Phone == "" {
			missing = append(missing, "phone")
		}
		if d.Address == "" {
			missing = append(missing, "address")
		}
		if f.variant == domain.VariantCard && d.City == "" {
			missing = append(missing, "city")
		}
	case domain.StepPayment:
		p := f.state.Payment
		if p.CardName == "" {
			missing = append(missing, "cardName")
		}
		if n := len(p.CardNumber); n < 13 || n > 19 {
			missing = append(missing, "cardNumber")
		}
		if !expiryPattern.MatchString(p.Expiry) {
			missing = append(missing, "expiry")
		}
		if !cvvPattern.MatchString(p.CVV) {
			missing = append(missing, "cvv")
		}
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Step: kind, Fields: missing}
	}
	return nil
}

func (f *CheckoutFlow) buildOrder(snapshot domain.CartState) *domain.Order {
	quote := f.pricing.Quote(snapshot.TotalPrice)
	lines := make([]domain.OrderLine, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		lines = append(lines, domain.OrderLine{
			ItemID:    item.ItemID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal(),
		})
	}
	return &domain.Order{
		ID:          uuid.NewString(),
		Variant:     f.variant,
		Customer:    f.state.Customer,
		Delivery:    f.state.Delivery,
		Items:       lines,
		Currency:    quote.Currency,
		Subtotal:    quote.Subtotal,
		DeliveryFee: quote.DeliveryFee,
		Tax:         quote.Tax,
		Total:       quote.Total,
		Notes:       f.state.Notes,
		Payment:     f.maskedPayment(),
		CreatedAt:   f.now().UTC(),
	}
}

func (f *CheckoutFlow) maskedPayment() *domain.MaskedPayment {
	if !f.hasStep(domain.StepPayment) {
		return nil
	}
	p := f.state.Payment
	if p.CardName == "" && p.CardNumber == "" {
		return nil
	}
	last4 := p.CardNumber
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return &domain.MaskedPayment{CardName: p.CardName, Last4: last4, Expiry: p.Expiry}
}

func trimCustomer(c domain.Customer) domain.Customer {
	return domain.Customer{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Phone:     strings.TrimSpace(c.Phone),
	}
}

func trimDelivery(d domain.Delivery) domain.Delivery {
	return domain.Delivery{
		Address:    strings.TrimSpace(d.Address),
		City:       strings.TrimSpace(d.City),
		Region:     strings.TrimSpace(d.Region),
		PostalCode: strings.TrimSpace(d.PostalCode),
		Country:    strings.TrimSpace(d.Country),
	}
}

// digitsOnly drops the separators people type into card numbers. Anything
// else is kept so that validation can reject it.
func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, s)
}

func isSinkError(err error) bool {
	var sinkErr *domain.SinkError
	return errors.As(err, &sinkErr)
}

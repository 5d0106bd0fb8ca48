package domain

import "github.com/shopspring/decimal"

// CheckoutVariant selects the step sequence and the order sink a deployment uses.
type CheckoutVariant string

const (
	VariantCard     CheckoutVariant = "card"
	VariantWhatsApp CheckoutVariant = "whatsapp"
)

type StepKind string

const (
	StepCustomerAndDelivery StepKind = "customer_and_delivery"
	StepPayment             StepKind = "payment"
	StepReview              StepKind = "review"
)

// Steps returns the linear step sequence for the variant, or nil when the
// variant is unknown.
func (v CheckoutVariant) Steps() []StepKind {
	switch v {
	case VariantCard:
		return []StepKind{StepCustomerAndDelivery, StepPayment, StepReview}
	case VariantWhatsApp:
		return []StepKind{StepCustomerAndDelivery, StepReview}
	default:
		return nil
	}
}

func (v CheckoutVariant) IsValid() bool {
	return v.Steps() != nil
}

type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type Delivery struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// PaymentCard holds the card fields of the card variant. Only structural
// checks are applied to it.
type PaymentCard struct {
	CardName   string `json:"cardName"`
	CardNumber string `json:"cardNumber"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

type PriceBreakdown struct {
	Currency             string          `json:"currency"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	DeliveryFee          decimal.Decimal `json:"deliveryFee"`
	Tax                  decimal.Decimal `json:"tax"`
	Total                decimal.Decimal `json:"total"`
	AmountToFreeDelivery decimal.Decimal `json:"amountToFreeDelivery"`
}

type CheckoutState struct {
	CurrentStep  int           `json:"currentStep"`
	Customer     Customer      `json:"customer"`
	Delivery     Delivery      `json:"delivery"`
	Payment      PaymentCard   `json:"-"`
	Notes        string        `json:"notes"`
	IsSubmitting bool          `json:"isSubmitting"`
	IsComplete   bool          `json:"isComplete"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// CheckoutView is what the storefront renders for the current step.
type CheckoutView struct {
	CheckoutState
	Variant    CheckoutVariant `json:"variant"`
	Step       StepKind        `json:"step"`
	TotalSteps int             `json:"totalSteps"`
	Payment    *MaskedPayment  `json:"payment,omitempty"`
	Items      []LineItem      `json:"items"`
	Summary    PriceBreakdown  `json:"summary"`
	Order      *Order          `json:"order,omitempty"`
}

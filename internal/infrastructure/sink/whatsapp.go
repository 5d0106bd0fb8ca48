package sink

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"storefront-backend/internal/domain"
)

const whatsAppBaseURL = "https://wa.me/"

// WhatsAppSink renders the order as a chat message and confirms with a
// wa.me deep link that opens it addressed to the shop's number. Nothing is
// sent from the server; the customer sends the message.
type WhatsAppSink struct {
	number    string
	storeName string
}

// NewWhatsAppSink keeps only the digits of number, as wa.me expects the
// international form without "+" or separators. An empty number produces a
// link that lets the customer choose the chat.
func NewWhatsAppSink(number, storeName string) *WhatsAppSink {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	return &WhatsAppSink{number: digits, storeName: storeName}
}

func (s *WhatsAppSink) Channel() string {
	return domain.ChannelWhatsApp
}

func (s *WhatsAppSink) Submit(ctx context.Context, order *domain.Order) (*domain.Confirmation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("order %s has no items", order.ID)
	}
	return &domain.Confirmation{
		OrderID:   order.ID,
		Channel:   domain.ChannelWhatsApp,
		Reference: shortRef(order.ID),
		Link:      whatsAppBaseURL + s.number + "?text=" + url.QueryEscape(s.Message(order)),
	}, nil
}

// Message is the human-readable order text placed in the deep link.
func (s *WhatsAppSink) Message(order *domain.Order) string {
	var b strings.Builder
	title := "New order"
	if s.storeName != "" {
		title = "New order for " + s.storeName
	}
	fmt.Fprintf(&b, "%s (ref %s)\n\n", title, shortRef(order.ID))

	c := order.Customer
	fmt.Fprintf(&b, "Customer: %s %s\n", c.FirstName, c.LastName)
	fmt.Fprintf(&b, "Phone: %s\n", c.Phone)
	if c.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", c.Email)
	}

	d := order.Delivery
	addr := []string{d.Address}
	for _, part := range []string{d.City, d.Region, d.PostalCode, d.Country} {
		if part != "" {
			addr = append(addr, part)
		}
	}
	fmt.Fprintf(&b, "Deliver to: %s\n\nItems:\n", strings.Join(addr, ", "))

	for _, line := range order.Items {
		fmt.Fprintf(&b, "- %d x %s @ %s %s = %s %s\n",
			line.Quantity, line.Name,
			order.Currency, line.UnitPrice.StringFixed(2),
			order.Currency, line.LineTotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s %s\n", order.Currency, order.Subtotal.StringFixed(2))
	if order.DeliveryFee.IsZero() {
		b.WriteString("Delivery: free\n")
	} else {
		fmt.Fprintf(&b, "Delivery: %s %s\n", order.Currency, order.DeliveryFee.StringFixed(2))
	}
	if !order.Tax.IsZero() {
		fmt.Fprintf(&b, "Tax: %s %s\n", order.Currency, order.Tax.StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s %s\n", order.Currency, order.Total.StringFixed(2))

	if order.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", order.Notes)
	}
	return b.String()
}

func shortRef(orderID string) string {
	ref := strings.ToUpper(strings.ReplaceAll(orderID, "-", ""))
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return ref
}

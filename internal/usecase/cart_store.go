package usecase

import (
	"sync"

	"storefront-backend/internal/domain"

	"github.com/shopspring/decimal"
)

// CartStore holds the line items a session intends to purchase, in insertion
// order. Unknown item ids make update and remove no-ops.
type CartStore struct {
	// txMu makes check-then-mutate sequences on the cart atomic with respect
	// to checkout submission. Lock order: txMu, CheckoutFlow.mu, mu.
	txMu  sync.Mutex
	mu    sync.Mutex
	items []domain.LineItem
	open  bool
}

func NewCartStore() *CartStore {
	return &CartStore{}
}

func (c *CartStore) hold()    { c.txMu.Lock() }
func (c *CartStore) release() { c.txMu.Unlock() }

// QuantityOf returns the quantity held for itemID, or 0.
func (c *CartStore) QuantityOf(itemID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(itemID); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

// AddItem merges the candidate into an existing row with the same ItemID or
// appends it. A non-positive candidate quantity counts as 1.
func (c *CartStore) AddItem(candidate domain.LineItem) {
	qty := candidate.Quantity
	if qty <= 0 {
		qty = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(candidate.ItemID); i >= 0 {
		c.items[i].Quantity += qty
		return
	}
	candidate.Quantity = qty
	c.items = append(c.items, candidate)
}

// UpdateQuantity sets an absolute quantity. Zero or below removes the row.
func (c *CartStore) UpdateQuantity(itemID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(itemID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		c.removeAt(i)
		return
	}
	c.items[i].Quantity = quantity
}

func (c *CartStore) RemoveItem(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(itemID); i >= 0 {
		c.removeAt(i)
	}
}

func (c *CartStore) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

func (c *CartStore) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalItems()
}

func (c *CartStore) TotalPrice() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPrice()
}

func (c *CartStore) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

func (c *CartStore) Open() {
	c.mu.Lock()
	c.open = true
	c.mu.Unlock()
}

func (c *CartStore) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}

func (c *CartStore) Toggle() {
	c.mu.Lock()
	c.open = !c.open
	c.mu.Unlock()
}

func (c *CartStore) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Snapshot returns a copy of the cart with derived totals.
func (c *CartStore) Snapshot() domain.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.LineItem, len(c.items))
	copy(items, c.items)
	return domain.CartState{
		Items:      items,
		Open:       c.open,
		TotalItems: c.totalItems(),
		TotalPrice: c.totalPrice(),
	}
}

func (c *CartStore) indexOf(itemID string) int {
	for i := range c.items {
		if c.items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

func (c *CartStore) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}

func (c *CartStore) totalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c *CartStore) totalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

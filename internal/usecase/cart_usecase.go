package usecase

import (
	"context"
	"fmt"
	"strconv"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/infrastructure/metrics"
	"storefront-backend/pkg/logger"
)

// CartUsecase applies catalog lookups and quantity limits on top of a
// session's CartStore.
type CartUsecase struct {
	sessions    *SessionUsecase
	products    domain.ProductRepository
	metrics     *metrics.Metrics
	maxQuantity int
}

func NewCartUsecase(sessions *SessionUsecase, products domain.ProductRepository, m *metrics.Metrics, maxQuantity int) *CartUsecase {
	return &CartUsecase{
		sessions:    sessions,
		products:    products,
		metrics:     m,
		maxQuantity: maxQuantity,
	}
}

func (uc *CartUsecase) GetCart(ctx context.Context, sessionID string) (domain.CartState, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.CartState{}, err
	}
	return sess.Cart.Snapshot(), nil
}

// AddItem adds quantity units of a catalog product. A zero quantity means
// one unit.
func (uc *CartUsecase) AddItem(ctx context.Context, sessionID string, productID int, quantity int) (domain.CartState, error) {
	if quantity < 0 {
		return domain.CartState{}, domain.ErrInvalidQuantity
	}
	if quantity == 0 {
		quantity = 1
	}

	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return domain.CartState{}, err
	}

	itemID := strconv.Itoa(product.ID)
	state, err := uc.mutate(ctx, sessionID, func(cart *CartStore) error {
		if cart.QuantityOf(itemID)+quantity > uc.maxQuantity {
			return fmt.Errorf("%w: at most %d per item", domain.ErrQuantityTooLarge, uc.maxQuantity)
		}
		cart.AddItem(domain.LineItem{
			ItemID:    itemID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  quantity,
			ImageRef:  product.Image,
			Category:  product.Category,
		})
		return nil
	})
	if err != nil {
		return domain.CartState{}, err
	}
	uc.metrics.CartOperation("add")
	logger.WithContext(ctx).Debug().Str("item_id", itemID).Int("quantity", quantity).Msg("Cart item added")
	return state, nil
}

// UpdateQuantity sets an absolute quantity; zero or below removes the item.
func (uc *CartUsecase) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) (domain.CartState, error) {
	if quantity > uc.maxQuantity {
		return domain.CartState{}, fmt.Errorf("%w: at most %d per item", domain.ErrQuantityTooLarge, uc.maxQuantity)
	}
	state, err := uc.mutate(ctx, sessionID, func(cart *CartStore) error {
		cart.UpdateQuantity(itemID, quantity)
		return nil
	})
	if err != nil {
		return domain.CartState{}, err
	}
	uc.metrics.CartOperation("update")
	return state, nil
}

func (uc *CartUsecase) RemoveItem(ctx context.Context, sessionID, itemID string) (domain.CartState, error) {
	state, err := uc.mutate(ctx, sessionID, func(cart *CartStore) error {
		cart.RemoveItem(itemID)
		return nil
	})
	if err != nil {
		return domain.CartState{}, err
	}
	uc.metrics.CartOperation("remove")
	return state, nil
}

func (uc *CartUsecase) Clear(ctx context.Context, sessionID string) (domain.CartState, error) {
	state, err := uc.mutate(ctx, sessionID, func(cart *CartStore) error {
		cart.Clear()
		return nil
	})
	if err != nil {
		return domain.CartState{}, err
	}
	uc.metrics.CartOperation("clear")
	return state, nil
}

// SetVisibility opens, closes or toggles the cart drawer.
func (uc *CartUsecase) SetVisibility(ctx context.Context, sessionID, action string) (domain.CartState, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.CartState{}, err
	}
	switch action {
	case domain.CartActionOpen:
		sess.Cart.Open()
	case domain.CartActionClose:
		sess.Cart.Close()
	case domain.CartActionToggle:
		sess.Cart.Toggle()
	default:
		return domain.CartState{}, fmt.Errorf("unknown cart action %q", action)
	}
	return sess.Cart.Snapshot(), nil
}

// mutate runs fn on the session's cart unless an order built from that cart
// is being submitted. The check and fn run under the cart's transaction lock,
// which CheckoutFlow.Submit also takes while it snapshots the cart.
func (uc *CartUsecase) mutate(ctx context.Context, sessionID string, fn func(*CartStore) error) (domain.CartState, error) {
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return domain.CartState{}, err
	}

	sess.Cart.hold()
	defer sess.Cart.release()
	if sess.submitting() {
		return domain.CartState{}, domain.ErrSubmitInProgress
	}
	if err := fn(sess.Cart); err != nil {
		return domain.CartState{}, err
	}
	return sess.Cart.Snapshot(), nil
}

package usecase

import (
	"context"
	"sync"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/cache"
	"storefront-backend/pkg/logger"

	"github.com/google/uuid"
)

const sessionKeyPrefix = "session:"

// Session is one anonymous shopper: a cart and at most one checkout.
type Session struct {
	ID   string
	Cart *CartStore

	mu       sync.Mutex
	checkout *CheckoutFlow
}

func (s *Session) Checkout() *CheckoutFlow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout
}

func (s *Session) setCheckout(flow *CheckoutFlow) {
	s.mu.Lock()
	s.checkout = flow
	s.mu.Unlock()
}

// submitting reports whether the session's checkout has an order in flight.
func (s *Session) submitting() bool {
	flow := s.Checkout()
	return flow != nil && flow.State().IsSubmitting
}

// SessionUsecase keeps sessions in memory with a sliding expiry: every
// access pushes the deadline back by ttl.
type SessionUsecase struct {
	mu    sync.Mutex
	store cache.Store
	ttl   time.Duration
}

func NewSessionUsecase(store cache.Store, ttl time.Duration) *SessionUsecase {
	uc := &SessionUsecase{store: store, ttl: ttl}
	store.OnEvicted(func(key string, _ interface{}) {
		logger.Debug().Str("session_key", key).Msg("Session expired")
	})
	return uc
}

// NewID returns a fresh session id.
func (uc *SessionUsecase) NewID() string {
	return uuid.NewString()
}

// Ensure returns the session for id, creating an empty one when it does not
// exist or has expired.
func (uc *SessionUsecase) Ensure(ctx context.Context, id string) *Session {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	key := sessionKeyPrefix + id
	if val, found := uc.store.Touch(key, uc.ttl); found {
		return val.(*Session)
	}

	sess := &Session{ID: id, Cart: NewCartStore()}
	uc.store.Set(key, sess, uc.ttl)
	logger.WithContext(ctx).Debug().Str("session_id", id).Msg("Session created")
	return sess
}

// Get returns an existing session and refreshes its expiry.
func (uc *SessionUsecase) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}

	val, found := uc.store.Touch(sessionKeyPrefix+id, uc.ttl)
	if !found {
		return nil, domain.ErrSessionNotFound
	}
	return val.(*Session), nil
}

func (uc *SessionUsecase) Delete(id string) {
	uc.store.Delete(sessionKeyPrefix + id)
}

// Count is the number of unexpired sessions.
func (uc *SessionUsecase) Count() int {
	return uc.store.Live()
}

// Sweep drops expired sessions and their carts.
func (uc *SessionUsecase) Sweep() {
	uc.store.Sweep()
}

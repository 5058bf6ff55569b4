// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/infrastructure/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store owns the cart and keeps it in a durable slot under a fixed key.
// Every mutation is written through synchronously. When the slot fails the
// store keeps working from memory for the rest of the session.
type Store struct {
	mu         sync.Mutex
	cart       *Cart
	slot       storage.Slot
	key        string
	log        logrus.FieldLogger
	memoryOnly bool
}

// Open restores the cart stored under key. It never fails: an empty or
// unreadable slot yields an empty cart.
func Open(ctx context.Context, slot storage.Slot, key string, log logrus.FieldLogger) *Store {
	s := &Store{
		cart: &Cart{},
		slot: slot,
		key:  key,
		log:  log.WithFields(logrus.Fields{"component": "cart", "key": key}),
	}
	s.restore(ctx, true)
	return s
}

// Reload re-reads the slot, as a fresh start would. If the slot is still
// unreachable the in-memory cart is kept.
func (s *Store) Reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.restore(ctx, false)
}

// AddItem adds one unit of the product
func (s *Store) AddItem(ctx context.Context, p catalog.Product) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Add(p)
	s.persist(ctx)
	return s.cart.Items()
}

// UpdateQuantity sets the quantity of line id; zero or less removes it
func (s *Store) UpdateQuantity(ctx context.Context, id, quantity int) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.UpdateQuantity(id, quantity) {
		s.persist(ctx)
	}
	return s.cart.Items()
}

// RemoveItem deletes line id if present
func (s *Store) RemoveItem(ctx context.Context, id int) []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Remove(id) {
		s.persist(ctx)
	}
	return s.cart.Items()
}

// Clear empties the cart and deletes the slot
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	if s.memoryOnly {
		return
	}
	if err := s.slot.Delete(detach(ctx), s.key); err != nil {
		s.degrade(err)
	}
}

// Items returns a copy of the ordered lines
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Items()
}

// TotalQuantity is the sum of all quantities
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.TotalQuantity()
}

// Totals is recomputed from the current lines on every call
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Totals()
}

// MemoryOnly reports whether persistence was given up for this session
func (s *Store) MemoryOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.memoryOnly
}

func (s *Store) restore(ctx context.Context, initial bool) {
	data, err := s.slot.Load(detach(ctx), s.key)
	switch {
	case errors.Is(err, storage.ErrSlotEmpty):
		s.cart = &Cart{}
		s.memoryOnly = false
		return
	case err != nil:
		if initial {
			s.cart = &Cart{}
		}
		s.degrade(err)
		return
	}

	s.memoryOnly = false

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		// unreadable payload; it is overwritten on the next mutation
		s.log.WithError(err).Warn("Stored cart is corrupt, starting empty")
		s.cart = &Cart{}
		return
	}

	cart, dropped := NewCart(items)
	if dropped > 0 {
		s.log.WithField("dropped", dropped).Warn("Stored cart had invalid lines")
	}
	s.cart = cart
	s.log.WithField("lines", cart.Len()).Debug("Cart restored")
}

func (s *Store) persist(ctx context.Context) {
	if s.memoryOnly {
		return
	}

	items := s.cart.Items()
	data, err := json.Marshal(items)
	if err != nil {
		s.degrade(err)
		return
	}

	if err := s.slot.Save(detach(ctx), s.key, data); err != nil {
		s.degrade(err)
	}
}

// detach keeps slot I/O running when the caller goes away. A request that
// is canceled mid-write must not be mistaken for a storage failure.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (s *Store) degrade(err error) {
	if !s.memoryOnly {
		s.log.WithError(err).Warn("Cart persistence unavailable, keeping the cart in memory for this session")
	}
	s.memoryOnly = true
}

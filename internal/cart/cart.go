// Package cart holds the per-session shopping cart: an in-memory line-item
// list persisted to a durable slot after every mutation. Mutations never
// return errors to the caller; invalid input is a documented no-op and a
// failed save is logged, not surfaced.
package cart

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/AhsanAli-Soomro/ecomerce-web/internal/models"
	"github.com/AhsanAli-Soomro/ecomerce-web/internal/pricing"
)

type Store struct {
	mu    sync.Mutex
	items []models.CartItem
	slot  Slot
}

// NewStore hydrates a cart from its slot. Missing or unparseable contents
// start an empty cart; hydration never fails.
func NewStore(slot Slot) *Store {
	s := &Store{slot: slot}
	data, err := slot.Load()
	if err != nil {
		if err != ErrEmptySlot {
			slog.Warn("Cart slot unreadable, starting empty", "error", err)
		}
		return s
	}
	if err := json.Unmarshal(data, &s.items); err != nil {
		slog.Warn("Cart slot corrupt, starting empty", "error", err)
		s.items = nil
	}
	return s
}

// AddItem inserts a line item with quantity 1, snapshotting the product's
// current price, sale, name, and image. If the product is already in the
// cart only its quantity is incremented; the original snapshot stands.
func (s *Store) AddItem(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == p.ID {
			s.items[i].Quantity++
			s.persist()
			return
		}
	}
	s.items = append(s.items, models.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Sale:      p.Sale,
		Image:     p.Image,
		Quantity:  1,
	})
	s.persist()
}

// RemoveItem deletes the matching line item. Absent id is a no-op.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist()
			return
		}
	}
}

// UpdateQuantity sets a line item's quantity. Quantities below 1 are
// rejected as a no-op; removal is the only path to zero. Absent id is a
// no-op.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			s.persist()
			return
		}
	}
}

// Clear empties the cart. Used after a successful checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.persist()
}

// Items returns a copy of the current line items.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartItem(nil), s.items...)
}

// Totals computes live totals over the current items.
func (s *Store) Totals() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.CartTotals(s.items)
}

// persist overwrites the slot with the current list. Callers hold s.mu.
func (s *Store) persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		slog.Error("Failed to encode cart", "error", err)
		return
	}
	if err := s.slot.Save(data); err != nil {
		slog.Error("Failed to save cart slot", "error", err)
	}
}

// Idle stores are evicted after this long; the slot keeps the data, so the
// next access rehydrates.
const storeIdleTTL = time.Hour

// Manager owns one cart store per session key, creating each lazily from
// its slot provider. A background sweep drops stores that have gone idle.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*entry
	slots  func(name string) Slot
	ttl    time.Duration
}

type entry struct {
	store    *Store
	lastUsed time.Time
}

func NewManager(slots func(name string) Slot) *Manager {
	m := &Manager{
		stores: make(map[string]*entry),
		slots:  slots,
		ttl:    storeIdleTTL,
	}
	// Background cleanup
	go m.cleanup()
	return m
}

func (m *Manager) cleanup() {
	for {
		time.Sleep(time.Minute)
		m.evict(time.Now())
	}
}

func (m *Manager) evict(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range m.stores {
		if now.Sub(e.lastUsed) > m.ttl {
			delete(m.stores, key)
		}
	}
}

// Cart returns the store for a session key, hydrating it on first use.
func (m *Manager) Cart(key string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.stores[key]; ok {
		e.lastUsed = time.Now()
		return e.store
	}
	s := NewStore(m.slots(key))
	m.stores[key] = &entry{store: s, lastUsed: time.Now()}
	return s
}

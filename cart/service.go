// Package cart owns the session-keyed shopping cart: every read and
// mutation goes through the service, which persists the cart and notifies
// subscribers, instead of components touching storage directly.
package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cryptoclub/cryptoclub-backend-go/models"
	"github.com/cryptoclub/cryptoclub-backend-go/store"
)

// Listener is invoked after every cart mutation, replacing the in-page
// "cartUpdated" broadcast of a browser cart.
type Listener func(sessionID string)

// Service reads and mutates carts through the entity store.
type Service struct {
	carts *store.Entity
	log   *zap.Logger

	mu        sync.RWMutex
	listeners []Listener
}

// NewService binds the service to the carts entity.
func NewService(carts *store.Entity, log *zap.Logger) *Service {
	return &Service{carts: carts, log: log}
}

// Subscribe registers a listener for cart changes.
func (s *Service) Subscribe(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify(sessionID string) {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(sessionID)
	}
}

// Get returns the cart for a session, or an empty cart if none exists yet.
func (s *Service) Get(ctx context.Context, sessionID string) (models.Cart, error) {
	docs, err := s.carts.Filter(ctx, store.Criteria{"session_id": sessionID}, "", 1)
	if err != nil {
		return models.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	if len(docs) == 0 {
		return models.Cart{SessionID: sessionID, Items: []models.CartItem{}}, nil
	}

	var cart models.Cart
	if err := store.Decode(docs[0], &cart); err != nil {
		return models.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return cart, nil
}

// Add merges an item into the cart. An existing line with the same
// (product_id, size) has its quantity increased; quantity is floored at 1.
func (s *Service) Add(ctx context.Context, sessionID string, item models.CartItem) (models.Cart, error) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return models.Cart{}, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID && cart.Items[i].Size == item.Size {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	return s.save(ctx, cart)
}

// SetQuantity sets the quantity of one line, floored at 1. Unknown lines
// are left untouched.
func (s *Service) SetQuantity(ctx context.Context, sessionID, productID, size string, quantity int64) (models.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return models.Cart{}, err
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID && cart.Items[i].Size == size {
			cart.Items[i].Quantity = quantity
			return s.save(ctx, cart)
		}
	}
	return cart, nil
}

// Remove drops one line from the cart.
func (s *Service) Remove(ctx context.Context, sessionID, productID, size string) (models.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return models.Cart{}, err
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID == productID && item.Size == size {
			continue
		}
		items = append(items, item)
	}
	cart.Items = items

	return s.save(ctx, cart)
}

// Clear empties the cart, as after a completed order.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	cart.Items = []models.CartItem{}
	_, err = s.save(ctx, cart)
	return err
}

func (s *Service) save(ctx context.Context, cart models.Cart) (models.Cart, error) {
	doc, err := store.ToDocument(&cart)
	if err != nil {
		return models.Cart{}, fmt.Errorf("encode cart: %w", err)
	}
	delete(doc, "id")

	var saved store.Document
	if cart.ID == "" {
		saved, err = s.carts.Create(ctx, doc)
	} else {
		saved, err = s.carts.Update(ctx, cart.ID, doc)
	}
	if err != nil {
		return models.Cart{}, fmt.Errorf("save cart: %w", err)
	}

	var out models.Cart
	if err := store.Decode(saved, &out); err != nil {
		return models.Cart{}, fmt.Errorf("decode saved cart: %w", err)
	}
	if out.Items == nil {
		out.Items = []models.CartItem{}
	}

	s.log.Debug("cart updated",
		zap.String("session_id", cart.SessionID),
		zap.Int("items", len(out.Items)))
	s.notify(cart.SessionID)
	return out, nil
}

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/orchidbooks/storefront/internal/models"
)

var (
	ErrOutOfStock = errors.New("out of stock")
)

// Item references a product by id; the catalog source hydrates it on
// read. At most one Item exists per product id.
type Item struct {
	ProductID string `json:"product_id"`
	Quantity  uint   `json:"quantity"`
}

// State is the whole persisted value: cart rows plus the wishlist id
// set. Wishlist order is incidental insertion order.
type State struct {
	Items    []Item   `json:"items"`
	Wishlist []string `json:"wishlist"`
}

// Store applies reducer-style transitions to a user's State and writes
// the whole state back through Storage after each successful one. A
// failed save surfaces the error and leaves the persisted state as it
// was; in-memory nothing is retained between calls, so readers always
// see the last saved state.
type Store struct {
	storage Storage
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

func stateKey(userID string) string {
	return "shop:" + userID
}

func (s *Store) Get(ctx context.Context, userID string) (State, error) {
	return s.load(ctx, userID)
}

// AddToCart merges by product id, summing quantities and clamping to
// stock. A zero requested quantity counts as one. Adding a product with
// no stock changes nothing and reports ErrOutOfStock.
func (s *Store) AddToCart(ctx context.Context, userID string, p *models.Product, quantity uint) (State, error) {
	if p.Stock == 0 {
		return State{}, fmt.Errorf("product %s: %w", p.ID, ErrOutOfStock)
	}
	if quantity == 0 {
		quantity = 1
	}
	return s.transition(ctx, userID, func(st State) State {
		for i := range st.Items {
			if st.Items[i].ProductID == p.ID {
				st.Items[i].Quantity = clamp(st.Items[i].Quantity+quantity, p.Stock)
				return st
			}
		}
		st.Items = append(st.Items, Item{ProductID: p.ID, Quantity: clamp(quantity, p.Stock)})
		return st
	})
}

// UpdateQuantity replaces the row's quantity in place, clamped to
// [1, stock]. Zero or negative requests remove the row. Absent rows are
// a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, userID string, p *models.Product, quantity int) (State, error) {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, userID, p.ID)
	}
	return s.transition(ctx, userID, func(st State) State {
		for i := range st.Items {
			if st.Items[i].ProductID == p.ID {
				st.Items[i].Quantity = clamp(uint(quantity), p.Stock)
				break
			}
		}
		return st
	})
}

// RemoveFromCart is idempotent; removing an absent row is a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, userID, productID string) (State, error) {
	return s.transition(ctx, userID, func(st State) State {
		kept := st.Items[:0]
		for _, it := range st.Items {
			if it.ProductID != productID {
				kept = append(kept, it)
			}
		}
		st.Items = kept
		return st
	})
}

// ClearCart empties the cart and keeps the wishlist.
func (s *Store) ClearCart(ctx context.Context, userID string) (State, error) {
	return s.transition(ctx, userID, func(st State) State {
		st.Items = nil
		return st
	})
}

// AddToWishlist is idempotent by product id.
func (s *Store) AddToWishlist(ctx context.Context, userID, productID string) (State, error) {
	return s.transition(ctx, userID, func(st State) State {
		for _, id := range st.Wishlist {
			if id == productID {
				return st
			}
		}
		st.Wishlist = append(st.Wishlist, productID)
		return st
	})
}

func (s *Store) RemoveFromWishlist(ctx context.Context, userID, productID string) (State, error) {
	return s.transition(ctx, userID, func(st State) State {
		kept := st.Wishlist[:0]
		for _, id := range st.Wishlist {
			if id != productID {
				kept = append(kept, id)
			}
		}
		st.Wishlist = kept
		return st
	})
}

func (s *Store) transition(ctx context.Context, userID string, fn func(State) State) (State, error) {
	st, err := s.load(ctx, userID)
	if err != nil {
		return State{}, err
	}
	next := fn(st)
	if err := s.save(ctx, userID, next); err != nil {
		return State{}, err
	}
	return next, nil
}

func (s *Store) load(ctx context.Context, userID string) (State, error) {
	raw, err := s.storage.Load(ctx, stateKey(userID))
	if err != nil {
		return State{}, fmt.Errorf("load cart state: %w", err)
	}
	if raw == nil {
		return State{}, nil
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("decode cart state: %w", err)
	}
	return st, nil
}

func (s *Store) save(ctx context.Context, userID string, st State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode cart state: %w", err)
	}
	if err := s.storage.Save(ctx, stateKey(userID), raw); err != nil {
		return fmt.Errorf("save cart state: %w", err)
	}
	return nil
}

func clamp(quantity, stock uint) uint {
	if quantity > stock {
		return stock
	}
	return quantity
}

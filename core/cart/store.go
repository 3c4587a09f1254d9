package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dailyfarm/farmgate/client"
	"github.com/dailyfarm/farmgate/core/crop"
	"github.com/dailyfarm/farmgate/validate"
	"github.com/sirupsen/logrus"
)

// State of the local cart view.
type State int

const (
	Unloaded State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

var (
	// ErrNotLoaded means a line-level mutation arrived before Load.
	ErrNotLoaded = errors.New("cart not loaded")

	// ErrLineNotFound means the referenced line is not in the local view.
	ErrLineNotFound = errors.New("cart line not found")
)

// Store mediates between the frontend and the server-side cart.
//
// Every mutation is a server round-trip followed by exactly one
// authoritative re-fetch; the store never synthesizes the merged cart
// locally, so it cannot drift from upstream price and stock validation.
// A single mutex is held across each round-trip, which serializes
// mutations in call order (last write wins by call, not by response).
type Store struct {
	api *client.Client
	log logrus.FieldLogger

	mu      sync.Mutex
	state   State
	cart    Cart
	loadErr error
}

func NewStore(api *client.Client, log logrus.FieldLogger) *Store {
	return &Store{api: api, log: log}
}

// Snapshot is a point-in-time copy of the store for rendering.
type Snapshot struct {
	State State
	Cart  Cart
	Err   error
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Cart: s.cart, Err: s.loadErr}
}

// Load fetches the authoritative cart. Load errors are kept on the
// store for inline display rather than only returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := s.state
	s.state = Loading

	var c Cart
	err := s.api.Get(ctx, "/cart", nil, &c)

	if ctx.Err() != nil {
		// The caller went away; leave the store as it was.
		s.state = prior
		return fmt.Errorf("cart load cancelled: %w", ctx.Err())
	}

	if err != nil {
		s.state = Failed
		s.loadErr = err
		return err
	}

	s.cart = c
	s.state = Ready
	s.loadErr = nil
	return nil
}

// Reset drops the local view without any server call. The HTTP layer
// drops the whole store from its registry when a session ends, so this
// is for embedders that drive a long-lived store directly across a
// session change.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Unloaded
	s.cart = Cart{}
	s.loadErr = nil
}

// Add sends an add request for the given crop and re-fetches. On
// failure the local view is left untouched and the error is returned
// for the caller to surface.
func (s *Store) Add(ctx context.Context, cropID int, quantity float64) error {
	in := ItemNew{CropID: cropID, Quantity: quantity}
	if err := validate.Check(in); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.api.Post(ctx, "/cart/items", in, nil); err != nil {
		return fmt.Errorf("adding crop[%d] to cart: %w", cropID, err)
	}

	return s.refresh(ctx)
}

// UpdateQuantity sets the quantity of a line. A quantity below the
// crop's minimum orderable step is a removal: no update with a zero or
// sub-step quantity is ever sent upstream.
func (s *Store) UpdateQuantity(ctx context.Context, lineID int, quantity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := s.find(lineID)
	if err != nil {
		return err
	}

	if quantity < crop.QuantityStep(it.Crop.Unit) {
		return s.remove(ctx, lineID)
	}

	in := ItemUp{Quantity: quantity}
	if err := s.api.Put(ctx, fmt.Sprintf("/cart/items/%d", lineID), in, nil); err != nil {
		return fmt.Errorf("updating cart line[%d]: %w", lineID, err)
	}

	return s.refresh(ctx)
}

// Remove deletes a line and re-fetches.
func (s *Store) Remove(ctx context.Context, lineID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.find(lineID); err != nil {
		return err
	}

	return s.remove(ctx, lineID)
}

func (s *Store) remove(ctx context.Context, lineID int) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/cart/items/%d", lineID), nil); err != nil {
		return fmt.Errorf("removing cart line[%d]: %w", lineID, err)
	}

	return s.refresh(ctx)
}

// Clear empties the server-side cart. The upstream guarantees the
// post-condition, so the local view becomes an explicit empty cart
// without a re-fetch.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.api.Delete(ctx, "/cart", nil); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}

	if ctx.Err() != nil {
		return fmt.Errorf("cart clear done but caller gone: %w", ctx.Err())
	}

	s.cart.Items = nil
	s.cart.TotalPrice = 0
	s.state = Ready
	s.loadErr = nil
	return nil
}

// refresh re-fetches the authoritative cart after a successful
// mutation. Callers hold s.mu.
func (s *Store) refresh(ctx context.Context) error {
	var c Cart
	err := s.api.Get(ctx, "/cart", nil, &c)

	if ctx.Err() != nil {
		return fmt.Errorf("cart refresh cancelled: %w", ctx.Err())
	}

	if err != nil {
		// The mutation landed but the local view is now stale. Flag it
		// so the next render triggers a reload.
		s.state = Failed
		s.loadErr = err
		return fmt.Errorf("refreshing cart after mutation: %w", err)
	}

	s.cart = c
	s.state = Ready
	s.loadErr = nil
	return nil
}

// find looks a line up in the local view. Callers hold s.mu.
func (s *Store) find(lineID int) (Item, error) {
	if s.state != Ready {
		return Item{}, ErrNotLoaded
	}
	for _, it := range s.cart.Items {
		if it.ID == lineID {
			return it, nil
		}
	}
	return Item{}, ErrLineNotFound
}

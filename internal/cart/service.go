package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/ovenlight/storefront/internal/catalog"
	"github.com/ovenlight/storefront/internal/domain"
	"github.com/ovenlight/storefront/internal/storage"
)

// Listener observes the cart after a mutation. Listeners run
// synchronously, after the mutation and before the persistence save.
type Listener func(lines []domain.CartLine)

// Service owns the cart lines. Lines keep insertion order and hold at
// most one entry per product; a line never drops below quantity 1.
type Service struct {
	store   storage.Store
	catalog catalog.Reader

	mu        sync.Mutex
	lines     []domain.CartLine
	listeners []Listener
}

func NewService(store storage.Store, catalog catalog.Reader) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
	}
}

// Subscribe registers a view listener for every cart mutation.
func (s *Service) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Restore loads the persisted snapshot into the cart. It runs once at
// process start and does not trigger a save.
func (s *Service) Restore(ctx context.Context) {
	lines, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("cart restore failed: %v", err)
		return
	}

	s.mu.Lock()
	s.lines = lines
	snapshot := s.copyLines()
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// Add increments the quantity of an existing line, or appends a new
// line with quantity 1.
func (s *Service) Add(ctx context.Context, productID int64) {
	s.mu.Lock()
	if line := s.find(productID); line != nil {
		line.Quantity++
	} else {
		s.lines = append(s.lines, domain.CartLine{ProductID: productID, Quantity: 1})
	}
	s.afterMutation(ctx)
}

// ChangeQuantity adjusts a line by delta (+1 or -1). Unknown products
// are a silent no-op; reaching zero removes the line.
func (s *Service) ChangeQuantity(ctx context.Context, productID int64, delta int) {
	s.mu.Lock()
	line := s.find(productID)
	if line == nil {
		s.mu.Unlock()
		return
	}

	line.Quantity += delta
	if line.Quantity <= 0 {
		s.removeLocked(productID)
	}
	s.afterMutation(ctx)
}

// Remove deletes the line for productID if present.
func (s *Service) Remove(ctx context.Context, productID int64) {
	s.mu.Lock()
	if s.find(productID) == nil {
		s.mu.Unlock()
		return
	}
	s.removeLocked(productID)
	s.afterMutation(ctx)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	s.lines = nil
	s.afterMutation(ctx)
}

// Lines returns a copy of the cart in insertion order.
func (s *Service) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLines()
}

// ItemCount is the sum of quantities, used for badge display.
func (s *Service) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// Total sums price*quantity over the cart, resolving prices through
// the catalog. A line referencing an unknown product contributes 0 and
// is logged; the total never fails the caller.
func (s *Service) Total(ctx context.Context) float64 {
	lines := s.Lines()

	total := 0.0
	for _, l := range lines {
		p, err := s.catalog.GetProduct(ctx, l.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				log.Printf("cart line references unknown product %d, counting as 0", l.ProductID)
			} else {
				log.Printf("product lookup failed for %d, counting as 0: %v", l.ProductID, err)
			}
			continue
		}
		total += p.Price * float64(l.Quantity)
	}
	return total
}

// afterMutation releases the lock and runs the post-mutation chain in
// order: view listeners first, then the persistence save. Callers must
// hold s.mu.
func (s *Service) afterMutation(ctx context.Context) {
	snapshot := s.copyLines()
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}

	if err := s.store.Save(ctx, snapshot); err != nil {
		// Persistence failure never propagates to the UI.
		log.Printf("cart save failed: %v", err)
	}
}

func (s *Service) find(productID int64) *domain.CartLine {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return &s.lines[i]
		}
	}
	return nil
}

func (s *Service) removeLocked(productID int64) {
	for i, l := range s.lines {
		if l.ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return
		}
	}
}

func (s *Service) copyLines() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

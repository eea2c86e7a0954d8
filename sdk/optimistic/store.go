package optimistic

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MutationError is returned by Dispatch when the server rejected a mutation
// that had already been applied locally. The list is rolled back; Action
// holds the attempted values so the caller can reopen its edit surface.
type MutationError[T any] struct {
	Action Action[T]
	Err    error
}

func (e *MutationError[T]) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action.Type, e.Err)
}

func (e *MutationError[T]) Unwrap() error { return e.Err }

// StoreConfig wires a Store to its data source.
type StoreConfig[T any] struct {
	// Fetch returns the authoritative list.
	Fetch func(ctx context.Context) ([]T, error)
	// Mutate sends one action to the server.
	Mutate func(ctx context.Context, action Action[T]) error
	// Decorate resolves references of create and update payloads. Optional.
	Decorate Decorator[T]
}

// Store holds the displayed list of one entity: the last list fetched from
// the server with every pending action applied on top, in dispatch order.
type Store[T any, P Record[T]] struct {
	mu       sync.Mutex
	base     []T
	pending  []*pendingAction[T]
	items    []T
	fetch    func(ctx context.Context) ([]T, error)
	mutate   func(ctx context.Context, action Action[T]) error
	decorate Decorator[T]
}

// pendingAction is an already decorated action. done is set once the server
// accepted it; the next refresh drops it.
type pendingAction[T any] struct {
	action Action[T]
	done   bool
}

func NewStore[T any, P Record[T]](cfg StoreConfig[T]) *Store[T, P] {
	return &Store[T, P]{
		fetch:    cfg.Fetch,
		mutate:   cfg.Mutate,
		decorate: cfg.Decorate,
	}
}

// Items returns a copy of the displayed list.
func (s *Store[T, P]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// SetDecorator replaces the reference resolver, e.g. after the referenced
// lists were refreshed.
func (s *Store[T, P]) SetDecorator(d Decorator[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decorate = d
}

// Refresh replaces the server list. Actions still in flight stay applied.
func (s *Store[T, P]) Refresh(ctx context.Context) error {
	items, err := s.fetch(ctx)
	if err != nil {
		return fmt.Errorf("refreshing: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = items
	s.pending = slices.DeleteFunc(s.pending, func(p *pendingAction[T]) bool { return p.done })
	s.rebuild()
	return nil
}

// Dispatch applies action locally, sends it to the server and then refreshes.
// A failed send takes back this action only; other pending actions and
// refreshes that landed meanwhile are kept.
func (s *Store[T, P]) Dispatch(ctx context.Context, action Action[T]) error {
	s.mu.Lock()
	decorated := action
	if s.decorate != nil && action.Type != ActionDelete {
		if err := s.decorate(&decorated.Payload); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	next, err := Reduce[T, P](s.items, decorated, nil)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	entry := &pendingAction[T]{action: decorated}
	s.pending = append(s.pending, entry)
	s.items = next
	s.mu.Unlock()

	if err := s.mutate(ctx, action); err != nil {
		s.mu.Lock()
		s.pending = slices.DeleteFunc(s.pending, func(p *pendingAction[T]) bool { return p == entry })
		s.rebuild()
		s.mu.Unlock()
		return &MutationError[T]{Action: action, Err: err}
	}

	s.mu.Lock()
	entry.done = true
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// rebuild recomputes items from base and pending. Callers hold mu.
func (s *Store[T, P]) rebuild() {
	items := slices.Clone(s.base)
	for _, p := range s.pending {
		next, err := Reduce[T, P](items, p.action, nil)
		if err != nil {
			// Already applied once at dispatch; a failure here skips the action.
			continue
		}
		items = next
	}
	s.items = items
}

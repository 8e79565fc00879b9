// Package state holds the reconciled view-state of the lifecycle engines: an
// immutable snapshot plus a subscribe-to-changes mechanism.
package state

import (
	"sync"
)

// Store keeps the current snapshot of a value and notifies subscribers every
// time a new one is published.
//
// Snapshots are treated as immutable: publishers must hand over a fresh
// value and readers must not modify what Get returns.
//
// Example:
//
//	store := state.NewStore([]string{})
//	cancel := store.Subscribe(func(v []string) { fmt.Println(len(v)) })
//	defer cancel()
//	store.Publish([]string{"ORD-001"})
type Store[T any] struct {
	mu    sync.RWMutex
	value T

	subsMu sync.Mutex
	subs   map[uint64]func(T)
	nextID uint64
}

func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{
		value: initial,
		subs:  make(map[uint64]func(T)),
	}
}

// Get returns the current snapshot.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Publish replaces the snapshot and calls every subscriber with it, in the
// caller's goroutine. Subscribers must not block.
func (s *Store[T]) Publish(value T) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()

	for _, fn := range s.subscribers() {
		fn(value)
	}
}

// Subscribe registers fn for future snapshots and returns a function that
// removes it. The cancel function is idempotent.
func (s *Store[T]) Subscribe(fn func(T)) (cancel func()) {
	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Store[T]) Subscribers() int {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	return len(s.subs)
}

func (s *Store[T]) subscribers() []func(T) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	fns := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return fns
}

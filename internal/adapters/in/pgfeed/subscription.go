package pgfeed

import (
	"sync"

	"restaurant/internal/core/domain/model/change"
)

// subscription delivers events to its handler one at a time from an
// unbounded queue.
type subscription struct {
	id      uint64
	handler change.Handler
	detach  func(id uint64)

	mu    sync.Mutex
	queue []change.Event
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newSubscription(handler change.Handler, detach func(id uint64), id uint64) *subscription {
	return &subscription{
		id:      id,
		handler: handler,
		detach:  detach,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Unsubscribe detaches the subscription from the feed and drops any
// undelivered events.
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.detach(s.id)
		close(s.done)
	})
}

// stop ends delivery without detaching; used by the feed while it holds
// its own lock.
func (s *subscription) stop() {
	s.once.Do(func() {
		close(s.done)
	})
}

func (s *subscription) push(ev change.Event) {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscription) next() (change.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return change.Event{}, false
	}
	ev := s.queue[0]
	s.queue[0] = change.Event{}
	s.queue = s.queue[1:]
	return ev, true
}

func (s *subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		for {
			ev, ok := s.next()
			if !ok {
				break
			}
			select {
			case <-s.done:
				return
			default:
			}
			s.handler(ev)
		}
	}
}

package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"restaurant/internal/core/application/state"
	"restaurant/internal/core/domain/model/change"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/reservation"
	"restaurant/internal/core/ports"
)

// ReservationReader is the part of the reservation store the engine reads from.
type ReservationReader interface {
	ListByTenant(ctx context.Context, tenantID kernel.UUID) ([]*reservation.Reservation, error)
}

// ReservationEngine keeps the tenant's reservation set equal to the latest
// completed full query. Every change event triggers one re-query.
type ReservationEngine struct {
	reservations ReservationReader
	feed         ports.ChangeFeed
	logger       *slog.Logger
	store        *state.Store[[]*reservation.Reservation]

	mu         sync.Mutex
	tenantID   kernel.UUID
	running    bool
	generation uint64
	sub        ports.Subscription
	cancel     context.CancelFunc

	// requested numbers every re-query; applied is the number of the last
	// result written to the store.
	requested uint64
	applied   uint64
}

func NewReservationEngine(
	reservations ReservationReader,
	feed ports.ChangeFeed,
	logger *slog.Logger,
) *ReservationEngine {
	return &ReservationEngine{
		reservations: reservations,
		feed:         feed,
		logger:       logger.With("component", "reservation_engine"),
		store:        state.NewStore([]*reservation.Reservation{}),
	}
}

// Start scopes the engine to tenantID, subscribes to the reservation feed and
// loads the initial set.
func (e *ReservationEngine) Start(ctx context.Context, tenantID kernel.UUID) error {
	if tenantID.Validate() != nil {
		return ErrNotConnected
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrEngineAlreadyStarted
	}
	e.running = true
	e.generation++
	gen := e.generation
	e.tenantID = tenantID
	e.requested, e.applied = 0, 0
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e.cancel = cancel
	e.store.Publish([]*reservation.Reservation{})
	e.mu.Unlock()

	sub, err := e.feed.Subscribe(runCtx, tenantID, change.Reservations, func(ev change.Event) {
		if err := e.HandleEvent(runCtx, ev); err != nil {
			e.logger.WarnContext(runCtx, "Reservation refresh failed",
				"tenant_id", tenantID.String(),
				"type", ev.Type().String(),
				"reservation_id", ev.ID().String(),
				"error", err,
			)
		}
	})
	if err != nil {
		e.Stop()
		return fmt.Errorf("subscribe to reservation changes: %w", err)
	}

	e.mu.Lock()
	if !e.live(gen) {
		e.mu.Unlock()
		sub.Unsubscribe()
		return ErrEngineNotStarted
	}
	e.sub = sub
	e.mu.Unlock()

	if err := e.Resync(ctx); err != nil {
		e.Stop()
		return fmt.Errorf("load reservations: %w", err)
	}

	e.logger.InfoContext(ctx, "Reservation engine started", "tenant_id", tenantID.String())
	return nil
}

// Stop cancels the subscription. Calling Stop on a stopped engine does nothing.
func (e *ReservationEngine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.generation++
	sub, cancel, tenantID := e.sub, e.cancel, e.tenantID
	e.sub, e.cancel = nil, nil
	e.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	e.logger.Info("Reservation engine stopped", "tenant_id", tenantID.String())
}

// Reservations returns the current snapshot.
func (e *ReservationEngine) Reservations() []*reservation.Reservation {
	return slices.Clone(e.store.Get())
}

// Subscribe calls fn with every new snapshot. fn must not block.
func (e *ReservationEngine) Subscribe(fn func([]*reservation.Reservation)) (cancel func()) {
	return e.store.Subscribe(fn)
}

func (e *ReservationEngine) Subscribers() int {
	return e.store.Subscribers()
}

// HandleEvent re-queries the reservation set for any event of the engine's
// tenant. The event content itself is not used.
func (e *ReservationEngine) HandleEvent(ctx context.Context, ev change.Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if ev.Table() != change.Reservations {
		return nil
	}

	e.mu.Lock()
	ok := e.running && e.tenantID.IsEqual(ev.TenantID())
	e.mu.Unlock()
	if !ok {
		return nil
	}
	return e.Resync(ctx)
}

// Resync replaces the set with a fresh query result. A result that completes
// after a newer one has been applied is discarded.
func (e *ReservationEngine) Resync(ctx context.Context) error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return ErrEngineNotStarted
	}
	e.requested++
	seq, gen, tenantID := e.requested, e.generation, e.tenantID
	e.mu.Unlock()

	fetched, err := e.reservations.ListByTenant(ctx, tenantID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.live(gen) {
		return nil
	}
	if seq <= e.applied {
		e.logger.DebugContext(ctx, "Outdated reservation query discarded", "sequence", seq, "applied", e.applied)
		return nil
	}
	e.applied = seq
	e.store.Publish(slices.Clone(fetched))
	return nil
}

// live must be called with mu held.
func (e *ReservationEngine) live(gen uint64) bool {
	return e.running && e.generation == gen
}

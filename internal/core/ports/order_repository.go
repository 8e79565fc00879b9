// Package ports defines the contracts between the lifecycle core and the
// outside world: the entity store, the change feed, identity lookup and
// user-facing notifications.
package ports

import (
	"context"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
)

// OrderRepository is the tenant-scoped persistence contract for orders.
// Every method filters by tenant; an order of another tenant is reported as
// not found.
type OrderRepository interface {
	// Add persists a new order with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// ListByTenant returns the tenant's orders with items, newest first.
	ListByTenant(ctx context.Context, tenantID kernel.UUID) ([]*order.Order, error)

	// Get returns one order with its items, or an errs.ObjectNotFoundError.
	Get(ctx context.Context, tenantID kernel.UUID, id kernel.UUID) (*order.Order, error)

	// UpdateStatus writes the new status and bumps the order version.
	// It does not consult the transition graph. A stale id yields an
	// errs.ObjectNotFoundError.
	UpdateStatus(ctx context.Context, tenantID kernel.UUID, id kernel.UUID, status order.Status) error
}

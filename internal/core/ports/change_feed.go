package ports

import (
	"context"

	"restaurant/internal/core/domain/model/change"
	"restaurant/internal/core/domain/model/kernel"
)

// ChangeFeed delivers row-level change events of one table, filtered by tenant.
//
// Handlers of one subscription are called sequentially, in delivery order.
// Events of other tenants or tables are never delivered.
type ChangeFeed interface {
	Subscribe(ctx context.Context, tenantID kernel.UUID, table change.Table, handler change.Handler) (Subscription, error)
}

// Subscription is a live change feed registration.
type Subscription interface {
	// Unsubscribe stops delivery. It is safe to call more than once.
	Unsubscribe()
}

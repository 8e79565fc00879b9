package queries

import (
	"context"
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/guard"
)

var ErrGetOrderSummaryQueryIsNotConstructed = errors.New(
	"GetOrderSummaryQuery must be created via NewGetOrderSummaryQuery constructor",
)

// GetOrderSummaryQuery feeds the counters above the order list.
type GetOrderSummaryQuery struct {
	tenantID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderSummaryQuery(tenantID kernel.UUID) (GetOrderSummaryQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return GetOrderSummaryQuery{}, err
	}
	return GetOrderSummaryQuery{tenantID: tenantID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderSummaryQueryIsNotConstructed)
}

func (q GetOrderSummaryQuery) TenantID() kernel.UUID { return q.tenantID }

type GetOrderSummaryQueryHandler struct {
	snapshots OrderSnapshots
}

func NewGetOrderSummaryQueryHandler(snapshots OrderSnapshots) GetOrderSummaryQueryHandler {
	return GetOrderSummaryQueryHandler{snapshots: snapshots}
}

func (h GetOrderSummaryQueryHandler) Handle(ctx context.Context, query GetOrderSummaryQuery) (order.Summary, error) {
	if err := query.Validate(); err != nil {
		return order.Summary{}, err
	}

	orders, err := h.snapshots.Orders(ctx, query.TenantID())
	if err != nil {
		return order.Summary{}, err
	}
	return order.Summarize(orders), nil
}

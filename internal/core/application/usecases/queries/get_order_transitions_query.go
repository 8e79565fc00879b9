package queries

import (
	"context"
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/errs"
	"restaurant/internal/pkg/guard"
)

var ErrGetOrderTransitionsQueryIsNotConstructed = errors.New(
	"GetOrderTransitionsQuery must be created via NewGetOrderTransitionsQuery constructor",
)

// GetOrderTransitionsQuery asks which actions the dashboard may offer for an
// order: accept, complete or cancel, depending on its current status.
type GetOrderTransitionsQuery struct {
	tenantID kernel.UUID
	orderID  kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderTransitionsQuery(tenantID, orderID kernel.UUID) (GetOrderTransitionsQuery, error) {
	if err := errors.Join(tenantID.Validate(), orderID.Validate()); err != nil {
		return GetOrderTransitionsQuery{}, err
	}
	return GetOrderTransitionsQuery{tenantID: tenantID, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTransitionsQueryIsNotConstructed)
}

func (q GetOrderTransitionsQuery) TenantID() kernel.UUID { return q.tenantID }
func (q GetOrderTransitionsQuery) OrderID() kernel.UUID  { return q.orderID }

// GetOrderTransitionsQueryResponse lists the statuses reachable in one step.
// Next is empty for terminal orders.
type GetOrderTransitionsQueryResponse struct {
	OrderID kernel.UUID
	Status  order.Status
	Next    []order.Status
}

type GetOrderTransitionsQueryHandler struct {
	snapshots OrderSnapshots
}

func NewGetOrderTransitionsQueryHandler(snapshots OrderSnapshots) GetOrderTransitionsQueryHandler {
	return GetOrderTransitionsQueryHandler{snapshots: snapshots}
}

// Handle looks the order up in the reconciled snapshot; an order the
// dashboard has not seen yet is reported as not found.
func (h GetOrderTransitionsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTransitionsQuery,
) (GetOrderTransitionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTransitionsQueryResponse{}, err
	}

	orders, err := h.snapshots.Orders(ctx, query.TenantID())
	if err != nil {
		return GetOrderTransitionsQueryResponse{}, err
	}

	for _, o := range orders {
		if o.ID().IsEqual(query.OrderID()) {
			return GetOrderTransitionsQueryResponse{
				OrderID: o.ID(),
				Status:  o.Status(),
				Next:    o.Status().Next(),
			}, nil
		}
	}
	return GetOrderTransitionsQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
}

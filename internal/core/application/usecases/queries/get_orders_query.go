package queries

import (
	"errors"
	"strings"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

// GetOrdersQuery lists the orders of the Orders page.
//
// A status of order.Unknown disables the status filter. A non-empty search
// matches order number, customer name or table number, ignoring case.
//
// Example:
//
//	query, err := NewGetOrdersQuery(tenantID, order.Preparing, "table 5")
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetOrdersQuery struct {
	tenantID kernel.UUID
	status   order.Status
	search   string

	guard guard.ConstructorGuard
}

func NewGetOrdersQuery(tenantID kernel.UUID, status order.Status, search string) (GetOrdersQuery, error) {
	if err := tenantID.Validate(); err != nil {
		return GetOrdersQuery{}, err
	}
	if status != order.Unknown {
		if err := status.Validate(); err != nil {
			return GetOrdersQuery{}, err
		}
	}

	return GetOrdersQuery{
		tenantID: tenantID,
		status:   status,
		search:   strings.ToLower(strings.TrimSpace(search)),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

func (q GetOrdersQuery) TenantID() kernel.UUID { return q.tenantID }
func (q GetOrdersQuery) Status() order.Status  { return q.status }
func (q GetOrdersQuery) Search() string        { return q.search }

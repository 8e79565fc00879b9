package queries

import (
	"context"
	"strconv"
	"strings"

	"restaurant/internal/core/domain/model/order"
)

// GetOrdersQueryHandler filters the reconciled order snapshot. The result
// keeps the snapshot order, newest first.
type GetOrdersQueryHandler struct {
	snapshots OrderSnapshots
}

func NewGetOrdersQueryHandler(snapshots OrderSnapshots) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{snapshots: snapshots}
}

func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.snapshots.Orders(ctx, query.TenantID())
	if err != nil {
		return nil, err
	}

	result := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if query.Status() != order.Unknown && o.Status() != query.Status() {
			continue
		}
		if query.Search() != "" && !matches(o, query.Search()) {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

// matches expects search in lower case.
func matches(o *order.Order, search string) bool {
	return strings.Contains(strings.ToLower(o.Number()), search) ||
		strings.Contains(strings.ToLower(o.CustomerName()), search) ||
		strings.Contains(strconv.Itoa(o.TableNumber()), search)
}

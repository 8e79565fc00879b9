package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/reservation"

	"github.com/labstack/echo/v4"
)

const keepAliveInterval = 15 * time.Second

// latest keeps only the most recent value; a slow client skips intermediate
// snapshots instead of blocking the engine that publishes them.
func latest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Stream handles GET /api/v1/stream. It sends an "orders" and a
// "reservations" event with the full snapshot on connect and after every
// change, until the client goes away.
func (s *Server) Stream(ctx echo.Context) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	reqCtx := ctx.Request().Context()

	orders := make(chan []*order.Order, 1)
	stopOrders, err := s.watcher.WatchOrders(reqCtx, tenantID, func(list []*order.Order) {
		latest(orders, list)
	})
	if err != nil {
		return respondError(ctx, err)
	}
	defer stopOrders()

	reservations := make(chan []*reservation.Reservation, 1)
	stopReservations, err := s.watcher.WatchReservations(reqCtx, tenantID, func(list []*reservation.Reservation) {
		latest(reservations, list)
	})
	if err != nil {
		return respondError(ctx, err)
	}
	defer stopReservations()

	resp := ctx.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-reqCtx.Done():
			return nil
		case list := <-orders:
			if err := writeEvent(resp, "orders", toOrders(list)); err != nil {
				return nil
			}
		case list := <-reservations:
			if err := writeEvent(resp, "reservations", toReservations(list)); err != nil {
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(resp, ": keep-alive\n\n"); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}

func writeEvent(resp *echo.Response, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	resp.Flush()
	return nil
}

package http

import (
	"context"
	"net/http"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/reservation"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Watcher streams the reconciled snapshots of a tenant.
type Watcher interface {
	WatchOrders(ctx context.Context, tenantID kernel.UUID, fn func([]*order.Order)) (func(), error)
	WatchReservations(ctx context.Context, tenantID kernel.UUID, fn func([]*reservation.Reservation)) (func(), error)
}

var _ ServerInterface = (*Server)(nil)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	changeOrderStatusHandler       commands.ChangeOrderStatusCommandHandler
	changeReservationStatusHandler commands.ChangeReservationStatusCommandHandler
	createReservationHandler       commands.CreateReservationCommandHandler

	// Query handlers
	getOrdersHandler           queries.GetOrdersQueryHandler
	getOrderSummaryHandler     queries.GetOrderSummaryQueryHandler
	getOrderTransitionsHandler queries.GetOrderTransitionsQueryHandler
	getReservationsHandler     queries.GetReservationsQueryHandler

	watcher Watcher
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler,
	changeReservationStatusHandler commands.ChangeReservationStatusCommandHandler,
	createReservationHandler commands.CreateReservationCommandHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
	getOrderSummaryHandler queries.GetOrderSummaryQueryHandler,
	getOrderTransitionsHandler queries.GetOrderTransitionsQueryHandler,
	getReservationsHandler queries.GetReservationsQueryHandler,
	watcher Watcher,
) *Server {
	return &Server{
		changeOrderStatusHandler:       changeOrderStatusHandler,
		changeReservationStatusHandler: changeReservationStatusHandler,
		createReservationHandler:       createReservationHandler,
		getOrdersHandler:               getOrdersHandler,
		getOrderSummaryHandler:         getOrderSummaryHandler,
		getOrderTransitionsHandler:     getOrderTransitionsHandler,
		getReservationsHandler:         getReservationsHandler,
		watcher:                        watcher,
	}
}

// GetOrders handles GET /api/v1/orders - the reconciled orders, newest first.
func (s *Server) GetOrders(ctx echo.Context, params GetOrdersParams) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	status := order.Unknown
	if params.Status != nil {
		if status, err = order.ParseStatus(*params.Status); err != nil {
			return respondError(ctx, err)
		}
	}
	var search string
	if params.Q != nil {
		search = *params.Q
	}

	query, err := queries.NewGetOrdersQuery(tenantID, status, search)
	if err != nil {
		return respondError(ctx, err)
	}

	orders, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrders(orders))
}

// GetOrderSummary handles GET /api/v1/orders/summary - per-status counters.
func (s *Server) GetOrderSummary(ctx echo.Context) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetOrderSummaryQuery(tenantID)
	if err != nil {
		return respondError(ctx, err)
	}

	summary, err := s.getOrderSummaryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	counts := make(map[string]int, len(summary.Counts))
	for status, n := range summary.Counts {
		counts[status.String()] = n
	}
	return ctx.JSON(http.StatusOK, OrderSummary{
		Counts:         counts,
		OpenAmount:     summary.OpenAmount.String(),
		ItemsInKitchen: summary.ItemsInKitchen,
	})
}

// GetOrderTransitions handles GET /api/v1/orders/{id}/transitions.
func (s *Server) GetOrderTransitions(ctx echo.Context, id openapi_types.UUID) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return respondError(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid order id"))
	}

	query, err := queries.NewGetOrderTransitionsQuery(tenantID, orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	resp, err := s.getOrderTransitionsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	next := make([]string, len(resp.Next))
	for i, status := range resp.Next {
		next[i] = status.String()
	}
	return ctx.JSON(http.StatusOK, OrderTransitions{
		Id:     resp.OrderID.Bytes(),
		Status: resp.Status.String(),
		Next:   next,
	})
}

// ChangeOrderStatus handles PUT /api/v1/orders/{id}/status. The response
// carries no order: the new status reaches the dashboard through the change
// feed.
func (s *Server) ChangeOrderStatus(ctx echo.Context, id openapi_types.UUID) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body OrderStatusChange
	if err := ctx.Bind(&body); err != nil {
		return respondError(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body"))
	}
	status, err := order.ParseStatus(body.Status)
	if err != nil {
		return respondError(ctx, err)
	}
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return respondError(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid order id"))
	}

	cmd, err := commands.NewChangeOrderStatusCommand(tenantID, orderID, status)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// GetReservations handles GET /api/v1/reservations.
func (s *Server) GetReservations(ctx echo.Context, params GetReservationsParams) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	status := reservation.Unknown
	if params.Status != nil {
		if status, err = reservation.ParseStatus(*params.Status); err != nil {
			return respondError(ctx, err)
		}
	}
	query, err := queries.NewGetReservationsQuery(tenantID, status, dateOf(params.Date))
	if err != nil {
		return respondError(ctx, err)
	}

	list, err := s.getReservationsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toReservations(list))
}

// CreateReservation handles POST /api/v1/reservations - the booking form.
func (s *Server) CreateReservation(ctx echo.Context) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body NewReservation
	if err := ctx.Bind(&body); err != nil {
		return respondError(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body"))
	}

	status := reservation.Unknown
	if body.Status != nil {
		if status, err = reservation.ParseStatus(*body.Status); err != nil {
			return respondError(ctx, err)
		}
	}

	cmd, err := commands.NewCreateReservationCommand(tenantID, kernel.NewUUID(), reservation.Details{
		GuestName:   body.GuestName,
		Phone:       body.Phone,
		Email:       body.Email,
		PartySize:   body.PartySize,
		TableNumber: body.TableNumber,
		Date:        body.Date.Time,
		Time:        body.Time,
		Notes:       body.Notes,
	}, status)
	if err != nil {
		return respondError(ctx, err)
	}

	created, err := s.createReservationHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toReservation(created))
}

// ChangeReservationStatus handles PUT /api/v1/reservations/{id}/status.
// Any status may follow any other.
func (s *Server) ChangeReservationStatus(ctx echo.Context, id openapi_types.UUID) error {
	tenantID, err := tenantOf(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	var body ReservationStatusChange
	if err := ctx.Bind(&body); err != nil {
		return respondError(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid request body"))
	}
	status, err := reservation.ParseStatus(body.Status)
	if err != nil {
		return respondError(ctx, err)
	}
	reservationID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return respondError(ctx, echo.NewHTTPError(http.StatusBadRequest, "Invalid reservation id"))
	}

	cmd, err := commands.NewChangeReservationStatusCommand(tenantID, reservationID, status)
	if err != nil {
		return respondError(ctx, err)
	}

	if err := s.changeReservationStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

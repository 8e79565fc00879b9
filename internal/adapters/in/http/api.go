package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Wire types of api/openapi.yml.

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type OrderItem struct {
	Id       openapi_types.UUID `json:"id"`
	Name     string             `json:"name"`
	Quantity int                `json:"quantity"`
	Price    string             `json:"price"`
	Notes    string             `json:"notes,omitempty"`
}

type Order struct {
	Id           openapi_types.UUID `json:"id"`
	OrderNumber  string             `json:"order_number"`
	CustomerName string             `json:"customer_name"`
	TableNumber  int                `json:"table_number"`
	Items        []OrderItem        `json:"items"`
	TotalAmount  string             `json:"total_amount"`
	Status       string             `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	Version      int64              `json:"version"`
}

type OrderSummary struct {
	Counts         map[string]int `json:"counts"`
	OpenAmount     string         `json:"open_amount"`
	ItemsInKitchen int            `json:"items_in_kitchen"`
}

type OrderTransitions struct {
	Id     openapi_types.UUID `json:"id"`
	Status string             `json:"status"`
	Next   []string           `json:"next"`
}

type OrderStatusChange struct {
	Status string `json:"status"`
}

type Reservation struct {
	Id          openapi_types.UUID `json:"id"`
	GuestName   string             `json:"guest_name"`
	Phone       string             `json:"phone,omitempty"`
	Email       string             `json:"email,omitempty"`
	PartySize   int                `json:"party_size"`
	TableNumber int                `json:"table_number,omitempty"`
	Date        openapi_types.Date `json:"date"`
	Time        string             `json:"time"`
	Notes       string             `json:"notes,omitempty"`
	Status      string             `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

type NewReservation struct {
	GuestName   string             `json:"guest_name"`
	Phone       string             `json:"phone,omitempty"`
	Email       string             `json:"email,omitempty"`
	PartySize   int                `json:"party_size"`
	TableNumber int                `json:"table_number,omitempty"`
	Date        openapi_types.Date `json:"date"`
	Time        string             `json:"time"`
	Notes       string             `json:"notes,omitempty"`
	Status      *string            `json:"status,omitempty"`
}

type ReservationStatusChange struct {
	Status string `json:"status"`
}

type GetOrdersParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	Q      *string `form:"q,omitempty" json:"q,omitempty"`
}

type GetReservationsParams struct {
	Status *string             `form:"status,omitempty" json:"status,omitempty"`
	Date   *openapi_types.Date `form:"date,omitempty" json:"date,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /api/v1/orders)
	GetOrders(ctx echo.Context, params GetOrdersParams) error
	// (GET /api/v1/orders/summary)
	GetOrderSummary(ctx echo.Context) error
	// (GET /api/v1/orders/{id}/transitions)
	GetOrderTransitions(ctx echo.Context, id openapi_types.UUID) error
	// (PUT /api/v1/orders/{id}/status)
	ChangeOrderStatus(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/v1/reservations)
	GetReservations(ctx echo.Context, params GetReservationsParams) error
	// (POST /api/v1/reservations)
	CreateReservation(ctx echo.Context) error
	// (PUT /api/v1/reservations/{id}/status)
	ChangeReservationStatus(ctx echo.Context, id openapi_types.UUID) error
	// (GET /api/v1/stream)
	Stream(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetOrders(ctx echo.Context) error {
	var params GetOrdersParams

	err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "q", ctx.QueryParams(), &params.Q)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter q: %s", err))
	}

	return w.Handler.GetOrders(ctx, params)
}

func (w *ServerInterfaceWrapper) GetOrderSummary(ctx echo.Context) error {
	return w.Handler.GetOrderSummary(ctx)
}

func (w *ServerInterfaceWrapper) GetOrderTransitions(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrderTransitions(ctx, id)
}

func (w *ServerInterfaceWrapper) ChangeOrderStatus(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ChangeOrderStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) GetReservations(ctx echo.Context) error {
	var params GetReservationsParams

	err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "date", ctx.QueryParams(), &params.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter date: %s", err))
	}

	return w.Handler.GetReservations(ctx, params)
}

func (w *ServerInterfaceWrapper) CreateReservation(ctx echo.Context) error {
	return w.Handler.CreateReservation(ctx)
}

func (w *ServerInterfaceWrapper) ChangeReservationStatus(ctx echo.Context) error {
	id, err := bindID(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ChangeReservationStatus(ctx, id)
}

func (w *ServerInterfaceWrapper) Stream(ctx echo.Context) error {
	return w.Handler.Stream(ctx)
}

func bindID(ctx echo.Context) (openapi_types.UUID, error) {
	var id openapi_types.UUID

	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}
	return id, nil
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used to mount the
// handlers.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts every operation of the contract on router under
// baseURL.
func RegisterHandlers(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/orders", wrapper.GetOrders)
	router.GET(baseURL+"/orders/summary", wrapper.GetOrderSummary)
	router.GET(baseURL+"/orders/:id/transitions", wrapper.GetOrderTransitions)
	router.PUT(baseURL+"/orders/:id/status", wrapper.ChangeOrderStatus)
	router.GET(baseURL+"/reservations", wrapper.GetReservations)
	router.POST(baseURL+"/reservations", wrapper.CreateReservation)
	router.PUT(baseURL+"/reservations/:id/status", wrapper.ChangeReservationStatus)
	router.GET(baseURL+"/stream", wrapper.Stream)
}

package http

import (
	"time"

	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/reservation"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toOrder(o *order.Order) Order {
	items := make([]OrderItem, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItem{
			Id:       item.ID().Bytes(),
			Name:     item.Name(),
			Quantity: item.Quantity(),
			Price:    item.Price().String(),
			Notes:    item.Note(),
		})
	}

	return Order{
		Id:           o.ID().Bytes(),
		OrderNumber:  o.Number(),
		CustomerName: o.CustomerName(),
		TableNumber:  o.TableNumber(),
		Items:        items,
		TotalAmount:  o.Total().String(),
		Status:       o.Status().String(),
		CreatedAt:    o.CreatedAt(),
		Version:      o.Version(),
	}
}

func toOrders(orders []*order.Order) []Order {
	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = toOrder(o)
	}
	return response
}

func toReservation(r *reservation.Reservation) Reservation {
	d := r.Details()
	return Reservation{
		Id:          r.ID().Bytes(),
		GuestName:   d.GuestName,
		Phone:       d.Phone,
		Email:       d.Email,
		PartySize:   d.PartySize,
		TableNumber: d.TableNumber,
		Date:        openapi_types.Date{Time: d.Date},
		Time:        d.Time,
		Notes:       d.Notes,
		Status:      r.Status().String(),
		CreatedAt:   r.CreatedAt(),
	}
}

func toReservations(list []*reservation.Reservation) []Reservation {
	response := make([]Reservation, len(list))
	for i, r := range list {
		response[i] = toReservation(r)
	}
	return response
}

func dateOf(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

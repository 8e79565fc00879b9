package reservationrepo

import (
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/reservation"

	"github.com/google/uuid"
)

type ReservationDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID    uuid.UUID `gorm:"type:uuid;not null;index:idx_reservations_restaurant_date,priority:1"`
	GuestName       string    `gorm:"not null"`
	Phone           string    `gorm:"not null;default:''"`
	Email           string    `gorm:"not null;default:''"`
	PartySize       int       `gorm:"not null"`
	TableNumber     int       `gorm:"not null;default:0"`
	Date            time.Time `gorm:"type:date;not null;index:idx_reservations_restaurant_date,priority:2"`
	ReservationTime string    `gorm:"column:time;not null"`
	Notes           string    `gorm:"not null;default:''"`
	Status          string    `gorm:"type:text;not null"`
	CreatedAt       time.Time `gorm:"not null"`
}

func (ReservationDTO) TableName() string {
	return "reservations"
}

func fromDomain(aggregate *reservation.Reservation) ReservationDTO {
	d := aggregate.Details()
	return ReservationDTO{
		ID:              aggregate.ID().Bytes(),
		RestaurantID:    aggregate.TenantID().Bytes(),
		GuestName:       d.GuestName,
		Phone:           d.Phone,
		Email:           d.Email,
		PartySize:       d.PartySize,
		TableNumber:     d.TableNumber,
		Date:            d.Date,
		ReservationTime: d.Time,
		Notes:           d.Notes,
		Status:          aggregate.Status().String(),
		CreatedAt:       aggregate.CreatedAt(),
	}
}

func toDomain(dto ReservationDTO) (*reservation.Reservation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	tenantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	status, err := reservation.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return reservation.RestoreReservation(id, tenantID, reservation.Details{
		GuestName:   dto.GuestName,
		Phone:       dto.Phone,
		Email:       dto.Email,
		PartySize:   dto.PartySize,
		TableNumber: dto.TableNumber,
		Date:        dto.Date,
		Time:        dto.ReservationTime,
		Notes:       dto.Notes,
	}, status, dto.CreatedAt)
}

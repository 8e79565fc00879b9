package reservationrepo

import (
	"context"
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/reservation"
	"restaurant/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormReservationRepository implements ports.ReservationRepository.
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a repository on db, which may be a
// transaction.
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func (r *GormReservationRepository) Add(ctx context.Context, aggregate *reservation.Reservation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}
	return nil
}

func (r *GormReservationRepository) ListByTenant(
	ctx context.Context,
	tenantID kernel.UUID,
) ([]*reservation.Reservation, error) {
	if err := tenantID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ReservationDTO
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", tenantID.Bytes()).
		Order(`date, "time", created_at`).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	reservations := make([]*reservation.Reservation, 0, len(dtos))
	for _, dto := range dtos {
		res, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}

	return reservations, nil
}

func (r *GormReservationRepository) Get(
	ctx context.Context,
	tenantID kernel.UUID,
	id kernel.UUID,
) (*reservation.Reservation, error) {
	if err := errors.Join(tenantID.Validate(), id.Validate()); err != nil {
		return nil, err
	}

	var dto ReservationDTO
	err := r.db.WithContext(ctx).First(&dto, "restaurant_id = ? AND id = ?", tenantID.Bytes(), id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("reservation", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormReservationRepository) UpdateStatus(
	ctx context.Context,
	tenantID kernel.UUID,
	id kernel.UUID,
	status reservation.Status,
) error {
	if err := errors.Join(tenantID.Validate(), id.Validate(), status.Validate()); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ReservationDTO{}).
		Where("restaurant_id = ? AND id = ?", tenantID.Bytes(), id.Bytes()).
		Update("status", status.String())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("reservation", id.String())
	}

	return nil
}

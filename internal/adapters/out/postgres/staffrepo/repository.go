// Package staffrepo resolves the restaurant of a signed-in user from the
// restaurant_staff table.
package staffrepo

import (
	"context"
	"errors"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	RestaurantID uuid.UUID `gorm:"type:uuid;not null;index"`
	Role         string    `gorm:"not null;default:'staff'"`
}

func (StaffDTO) TableName() string {
	return "restaurant_staff"
}

type GormStaffRepository struct {
	db *gorm.DB
}

func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// TenantOf implements ports.StaffRepository.
func (r *GormStaffRepository) TenantOf(ctx context.Context, userID kernel.UUID) (kernel.UUID, error) {
	if err := userID.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	var dto StaffDTO
	err := r.db.WithContext(ctx).Select("restaurant_id").First(&dto, "user_id = ?", userID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.UUID{}, errs.NewObjectNotFoundError("restaurant staff", userID.String())
		}
		return kernel.UUID{}, err
	}

	return kernel.UUIDFromBytes(dto.RestaurantID[:])
}

// Add registers userID as staff of restaurantID.
func (r *GormStaffRepository) Add(ctx context.Context, userID, restaurantID kernel.UUID, role string) error {
	if err := errors.Join(userID.Validate(), restaurantID.Validate()); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(&StaffDTO{
		ID:           uuid.New(),
		UserID:       userID.Bytes(),
		RestaurantID: restaurantID.Bytes(),
		Role:         role,
	}).Error
}

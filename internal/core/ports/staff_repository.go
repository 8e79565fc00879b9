package ports

import (
	"context"

	"restaurant/internal/core/domain/model/kernel"
)

// StaffRepository resolves the restaurant a signed-in user works for.
type StaffRepository interface {
	// TenantOf returns the tenant id of userID, or an errs.ObjectNotFoundError
	// when the user is not a member of any restaurant staff.
	TenantOf(ctx context.Context, userID kernel.UUID) (kernel.UUID, error)
}

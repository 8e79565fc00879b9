package ports

import (
	"context"
	"time"

	"restaurant/internal/core/domain/model/kernel"
)

// Level classifies a user-facing notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a user-facing message (a toast on the dashboard).
type Notification struct {
	TenantID kernel.UUID
	Level    Level
	Message  string
	At       time.Time
}

// Notifier emits user-facing notifications. Delivery is best effort;
// implementations log their own failures.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

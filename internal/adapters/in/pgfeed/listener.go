package pgfeed

import (
	"log/slog"
	"time"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
)

// Listener is the part of *pq.Listener the Feed depends on.
type Listener interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// NewListener opens a lib/pq listener connection on dsn and logs its
// connection state changes.
func NewListener(dsn string, logger *slog.Logger) *pq.Listener {
	logger = logger.With("component", "pg-listener")

	return pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			logger.Info("Listener connected")
		case pq.ListenerEventDisconnected:
			logger.Warn("Listener disconnected", "error", err)
		case pq.ListenerEventReconnected:
			logger.Info("Listener reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Error("Listener connection attempt failed", "error", err)
		}
	})
}

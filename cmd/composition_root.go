package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"restaurant/api"
	httpin "restaurant/internal/adapters/in/http"
	"restaurant/internal/adapters/in/pgfeed"
	"restaurant/internal/adapters/in/redisfeed"
	"restaurant/internal/adapters/out/notify"
	"restaurant/internal/adapters/out/postgres"
	"restaurant/internal/adapters/out/postgres/orderrepo"
	"restaurant/internal/adapters/out/postgres/reservationrepo"
	"restaurant/internal/adapters/out/postgres/staffrepo"
	"restaurant/internal/adapters/out/rabbitmq"
	"restaurant/internal/core/application/lifecycle"
	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/ports"
	"restaurant/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const reconnectResyncTimeout = 30 * time.Second

type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	notifier ports.Notifier
	pgFeed   *pgfeed.Feed
	feed     ports.ChangeFeed
	hub      *lifecycle.Hub

	closers []func() error
}

// NewCompositionRoot wires the adapters selected by cfg. Nothing is started
// until Start is called.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
	}

	notifier, err := c.createNotifier()
	if err != nil {
		return nil, err
	}
	c.notifier = notifier

	if cfg.FeedDriver == FeedDriverPostgres || cfg.FeedBridge {
		c.pgFeed = pgfeed.New(
			pgfeed.NewListener(cfg.DSN(), logger),
			cfg.FeedChannel,
			logger,
			pgfeed.WithReconnectHandler(c.resyncAfterReconnect),
		)
		c.closers = append(c.closers, c.pgFeed.Close)
	}

	switch cfg.FeedDriver {
	case FeedDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		c.closers = append(c.closers, client.Close)
		c.feed = redisfeed.New(client, cfg.FeedChannel, logger)
	default:
		c.feed = c.pgFeed
	}

	c.hub = lifecycle.NewHub(
		orderrepo.NewGormOrderRepository(gormDB),
		reservationrepo.NewGormReservationRepository(gormDB),
		c.feed,
		c.notifier,
		logger,
	)

	return c, nil
}

func (c *CompositionRoot) createNotifier() (ports.Notifier, error) {
	notifiers := notify.Multi{notify.NewLogNotifier(c.logger)}
	if c.cfg.AMQPURL == "" {
		return notifiers, nil
	}

	client, err := rabbitmq.Dial(c.cfg.AMQPURL, c.cfg.NotificationsExchange)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, client.Close)

	return append(notifiers, rabbitmq.NewNotifier(client, c.logger)), nil
}

// Start begins listening for table changes. With the redis driver the
// postgres listener only exists when it bridges its events onto redis.
func (c *CompositionRoot) Start(ctx context.Context) error {
	if c.pgFeed == nil {
		return nil
	}

	if err := c.pgFeed.Start(ctx); err != nil {
		return fmt.Errorf("start change feed: %w", err)
	}

	if rf, ok := c.feed.(*redisfeed.Feed); ok {
		sub, err := redisfeed.Bridge(c.pgFeed, rf, c.logger)
		if err != nil {
			return fmt.Errorf("bridge change feed: %w", err)
		}
		c.closers = append(c.closers, func() error {
			sub.Unsubscribe()
			return nil
		})
	}
	return nil
}

// Close stops every tenant session and releases the connections in reverse
// order of creation.
func (c *CompositionRoot) Close() error {
	c.hub.Close()

	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Notifications may have been missed while the listener was down.
func (c *CompositionRoot) resyncAfterReconnect() {
	if c.hub == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), reconnectResyncTimeout)
	defer cancel()

	if err := c.hub.ResyncAll(ctx); err != nil {
		c.logger.ErrorContext(ctx, "Resync after reconnect failed", "error", err)
	}
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeOrderStatusCommandHandler(f, c.notifier, c.cfg.EnforceOrderTransitions)
}

func (c *CompositionRoot) CreateChangeReservationStatusCommandHandler() commands.ChangeReservationStatusCommandHandler {
	var f commands.ReservationUoWFactory = FuncReservationUoWFactory(func() commands.ReservationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewChangeReservationStatusCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateCreateReservationCommandHandler() commands.CreateReservationCommandHandler {
	var f commands.ReservationUoWFactory = FuncReservationUoWFactory(func() commands.ReservationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateReservationCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.hub)
}

func (c *CompositionRoot) CreateGetOrderSummaryQueryHandler() queries.GetOrderSummaryQueryHandler {
	return queries.NewGetOrderSummaryQueryHandler(c.hub)
}

func (c *CompositionRoot) CreateGetOrderTransitionsQueryHandler() queries.GetOrderTransitionsQueryHandler {
	return queries.NewGetOrderTransitionsQueryHandler(c.hub)
}

func (c *CompositionRoot) CreateGetReservationsQueryHandler() queries.GetReservationsQueryHandler {
	return queries.NewGetReservationsQueryHandler(c.hub)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.hub, jobs.Schedules{
		Resync:  c.cfg.ResyncSchedule,
		Evict:   c.cfg.EvictSchedule,
		IdleTTL: c.cfg.SessionIdleTTL,
	}, c.logger)
}

// CreateRouter builds the HTTP surface over the command and query handlers.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	doc, err := api.Load()
	if err != nil {
		return nil, err
	}

	server := httpin.NewServer(
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateChangeReservationStatusCommandHandler(),
		c.CreateCreateReservationCommandHandler(),
		c.CreateGetOrdersQueryHandler(),
		c.CreateGetOrderSummaryQueryHandler(),
		c.CreateGetOrderTransitionsQueryHandler(),
		c.CreateGetReservationsQueryHandler(),
		c.hub,
	)

	return httpin.NewRouter(server, httpin.RouterConfig{
		Doc:       doc,
		JWTSecret: c.cfg.JWTSecret,
		Tenants:   staffrepo.NewGormStaffRepository(c.gormDB),
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncReservationUoWFactory func() commands.ReservationUoW

func (f FuncReservationUoWFactory) Create() commands.ReservationUoW {
	return f()
}

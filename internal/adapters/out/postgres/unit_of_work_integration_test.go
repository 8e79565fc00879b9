package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "restaurant/internal/adapters/out/postgres"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/core/domain/model/reservation"
	"restaurant/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM unit of work and the
// schema migration against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	tenantID  kernel.UUID
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("integration test")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(ctx, db, "table_changes"))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_items, reservations").Error)
	suite.tenantID = kernel.NewUUID()
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(number string) *order.Order {
	item, err := order.NewItem(kernel.NewUUID(), "Margherita", 1, kernel.MustMoney("11.50"), "")
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), suite.tenantID, number, "Jamie", 3,
		[]order.Item{item}, kernel.MustMoney("11.50"), time.Now().UTC())
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) newReservation() *reservation.Reservation {
	r, err := reservation.NewReservation(kernel.NewUUID(), suite.tenantID, reservation.Details{
		GuestName: "Robin",
		Phone:     "+1 555 0101",
		PartySize: 2,
		Date:      time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC),
		Time:      "20:00",
	}, reservation.Unknown, time.Now().UTC())
	suite.Require().NoError(err)
	return r
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder("ORD-100")
	r := suite.newReservation()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.ReservationRepository().Add(ctx, r))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	_, err := reader.OrderRepository().Get(ctx, suite.tenantID, o.ID())
	suite.Require().NoError(err)
	_, err = reader.ReservationRepository().Get(ctx, suite.tenantID, r.ID())
	suite.Require().NoError(err)

	suite.ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsChanges() {
	ctx := context.Background()
	o := suite.newOrder("ORD-101")
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().UpdateStatus(ctx, suite.tenantID, o.ID(), order.Cancelled))
	suite.Require().NoError(uow.Rollback(ctx))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, suite.tenantID, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.New, stored.Status())
	suite.Equal(int64(0), stored.Version())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWithoutBegin() {
	uow := suite.factory.Create()

	suite.ErrorIs(uow.Commit(context.Background()), gorm.ErrInvalidTransaction)
	suite.ErrorIs(uow.Rollback(context.Background()), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_IsIdempotent() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestMigrate_InstallsTriggers() {
	var names []string
	err := suite.db.Raw(`SELECT tgname FROM pg_trigger WHERE tgname LIKE '%_notify_change' ORDER BY tgname`).
		Scan(&names).Error
	suite.Require().NoError(err)
	suite.Equal([]string{"orders_notify_change", "reservations_notify_change"}, names)

	// running it again replaces the triggers in place
	suite.Require().NoError(postgres_adapter.Migrate(context.Background(), suite.db, "table_changes"))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestMigrate_RejectsChannelName() {
	err := postgres_adapter.Migrate(context.Background(), suite.db, "changes'; DROP TABLE orders; --")
	suite.Require().Error(err)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

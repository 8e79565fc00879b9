package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"restaurant/internal/adapters/out/postgres/orderrepo"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"
	"restaurant/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite runs the order repository against a
// PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tenantID   kernel.UUID
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	if testing.Short() {
		suite.T().Skip("integration test")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_items").Error)

	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
	suite.tenantID = kernel.NewUUID()
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(tenantID kernel.UUID, number string, createdAt time.Time) *order.Order {
	burger, err := order.NewItem(kernel.NewUUID(), "Classic Cheeseburger", 2, kernel.MustMoney("12.99"), "No onions")
	suite.Require().NoError(err)
	fries, err := order.NewItem(kernel.NewUUID(), "Truffle Fries", 1, kernel.MustMoney("7.99"), "")
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), tenantID, number, "Alex Johnson", 5,
		[]order.Item{burger, fries}, kernel.MustMoney("33.97"), createdAt)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) add(o *order.Order) {
	suite.Require().NoError(suite.repository.Add(context.Background(), o))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_PersistsOrderWithItems() {
	ctx := context.Background()
	created := time.Date(2026, 10, 18, 12, 30, 0, 0, time.UTC)
	o := suite.newOrder(suite.tenantID, "ORD-001", created)

	suite.add(o)

	stored, err := suite.repository.Get(ctx, suite.tenantID, o.ID())
	suite.Require().NoError(err)
	suite.Equal("ORD-001", stored.Number())
	suite.Equal("Alex Johnson", stored.CustomerName())
	suite.Equal(5, stored.TableNumber())
	suite.Equal("33.97", stored.Total().String())
	suite.Equal(order.New, stored.Status())
	suite.Equal(int64(0), stored.Version())
	suite.True(created.Equal(stored.CreatedAt()))

	items := stored.Items()
	suite.Require().Len(items, 2)
	suite.Equal("Classic Cheeseburger", items[0].Name())
	suite.Equal(2, items[0].Quantity())
	suite.Equal("No onions", items[0].Note())
	suite.Equal("Truffle Fries", items[1].Name())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateNumberPerTenant() {
	suite.add(suite.newOrder(suite.tenantID, "ORD-001", time.Now()))

	err := suite.repository.Add(context.Background(), suite.newOrder(suite.tenantID, "ORD-001", time.Now()))
	suite.Require().Error(err)

	// the same number under another restaurant is fine
	suite.add(suite.newOrder(kernel.NewUUID(), "ORD-001", time.Now()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByTenant_NewestFirstAndScoped() {
	ctx := context.Background()
	base := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	suite.add(suite.newOrder(suite.tenantID, "ORD-001", base))
	suite.add(suite.newOrder(suite.tenantID, "ORD-002", base.Add(time.Minute)))
	suite.add(suite.newOrder(kernel.NewUUID(), "OTHER-1", base.Add(2*time.Minute)))

	orders, err := suite.repository.ListByTenant(ctx, suite.tenantID)
	suite.Require().NoError(err)

	suite.Require().Len(orders, 2)
	suite.Equal("ORD-002", orders[0].Number())
	suite.Equal("ORD-001", orders[1].Number())
	suite.Len(orders[0].Items(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ForeignTenantIsNotFound() {
	o := suite.newOrder(suite.tenantID, "ORD-001", time.Now())
	suite.add(o)

	_, err := suite.repository.Get(context.Background(), kernel.NewUUID(), o.ID())

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStatus_BumpsVersion() {
	ctx := context.Background()
	o := suite.newOrder(suite.tenantID, "ORD-010", time.Now())
	suite.add(o)

	suite.Require().NoError(suite.repository.UpdateStatus(ctx, suite.tenantID, o.ID(), order.Preparing))
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, suite.tenantID, o.ID(), order.Completed))

	stored, err := suite.repository.Get(ctx, suite.tenantID, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Completed, stored.Status())
	suite.Equal(int64(2), stored.Version())
	suite.Equal(o.Number(), stored.Number())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStatus_IgnoresTransitionGraph() {
	ctx := context.Background()
	o := suite.newOrder(suite.tenantID, "ORD-011", time.Now())
	suite.add(o)
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, suite.tenantID, o.ID(), order.Cancelled))

	suite.Require().NoError(suite.repository.UpdateStatus(ctx, suite.tenantID, o.ID(), order.Completed))

	stored, err := suite.repository.Get(ctx, suite.tenantID, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Completed, stored.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStatus_StaleIDOrForeignTenant() {
	ctx := context.Background()
	o := suite.newOrder(suite.tenantID, "ORD-001", time.Now())
	suite.add(o)

	err := suite.repository.UpdateStatus(ctx, suite.tenantID, kernel.NewUUID(), order.Preparing)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	err = suite.repository.UpdateStatus(ctx, kernel.NewUUID(), o.ID(), order.Preparing)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	stored, err := suite.repository.Get(ctx, suite.tenantID, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.New, stored.Status())
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}

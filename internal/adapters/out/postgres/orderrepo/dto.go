package orderrepo

import (
	"time"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO maps the orders table. Status is stored by name so change
// notifications carry the same value the API exposes.
type OrderDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_orders_restaurant_number,priority:1"`
	OrderNumber  string          `gorm:"not null;uniqueIndex:idx_orders_restaurant_number,priority:2"`
	CustomerName string          `gorm:"not null;default:''"`
	TableNumber  int             `gorm:"not null;default:0"`
	Total        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status       string          `gorm:"type:text;not null;index"`
	Version      int64           `gorm:"not null;default:0"`
	CreatedAt    time.Time       `gorm:"not null;index"`
	Items        []OrderItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO maps order_items. Position keeps the line order of the order.
type OrderItemDTO struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position int             `gorm:"not null"`
	Name     string          `gorm:"column:item_name;not null"`
	Quantity int             `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Notes    string          `gorm:"not null;default:''"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	items := aggregate.Items()
	dtoItems := make([]OrderItemDTO, 0, len(items))
	for i, item := range items {
		dtoItems = append(dtoItems, OrderItemDTO{
			ID:       item.ID().Bytes(),
			OrderID:  aggregate.ID().Bytes(),
			Position: i,
			Name:     item.Name(),
			Quantity: item.Quantity(),
			Price:    item.Price().Decimal(),
			Notes:    item.Note(),
		})
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		RestaurantID: aggregate.TenantID().Bytes(),
		OrderNumber:  aggregate.Number(),
		CustomerName: aggregate.CustomerName(),
		TableNumber:  aggregate.TableNumber(),
		Total:        aggregate.Total().Decimal(),
		Status:       aggregate.Status().String(),
		Version:      aggregate.Version(),
		CreatedAt:    aggregate.CreatedAt(),
		Items:        dtoItems,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	tenantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id, tenantID, dto.OrderNumber, dto.CustomerName, dto.TableNumber,
		items, total, dto.CreatedAt, status, dto.Version,
	)
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Item{}, err
	}

	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return order.Item{}, err
	}

	return order.NewItem(id, dto.Name, dto.Quantity, price, dto.Notes)
}

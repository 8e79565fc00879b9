package order

import (
	"fmt"
	"strings"

	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/pkg/errs"
)

// Item is one line of an order. It is an immutable value object.
type Item struct {
	id       kernel.UUID
	name     string
	quantity int
	price    kernel.Money
	note     string
}

// NewItem validates and builds an order line. quantity must be at least 1 and
// price a valid Money; note is optional free text.
func NewItem(id kernel.UUID, name string, quantity int, price kernel.Money, note string) (Item, error) {
	if err := id.Validate(); err != nil {
		return Item{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, errs.NewValueIsRequiredError("item name")
	}
	if quantity < 1 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is less than 1", quantity),
		)
	}
	if err := price.Validate(); err != nil {
		return Item{}, err
	}
	return Item{id: id, name: name, quantity: quantity, price: price, note: note}, nil
}

func (i Item) ID() kernel.UUID     { return i.id }
func (i Item) Name() string        { return i.name }
func (i Item) Quantity() int       { return i.quantity }
func (i Item) Price() kernel.Money { return i.price }
func (i Item) Note() string        { return i.note }

// Subtotal is quantity x unit price.
func (i Item) Subtotal() kernel.Money {
	return i.price.Times(i.quantity)
}

// SumItems adds up the subtotals of items.
func SumItems(items []Item) kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

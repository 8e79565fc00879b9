package order

import "restaurant/internal/core/domain/model/kernel"

// Summary aggregates a set of orders for the dashboard counters.
type Summary struct {
	Counts map[Status]int

	// OpenAmount is the value of orders still in New or Preparing.
	OpenAmount kernel.Money

	// ItemsInKitchen counts the item quantities of Preparing orders.
	ItemsInKitchen int
}

// Summarize builds a Summary; every valid status appears in Counts, possibly as 0.
func Summarize(orders []*Order) Summary {
	s := Summary{
		Counts:     make(map[Status]int, len(Statuses())),
		OpenAmount: kernel.ZeroMoney(),
	}
	for _, status := range Statuses() {
		s.Counts[status] = 0
	}
	for _, o := range orders {
		s.Counts[o.Status()]++
		if !o.Status().IsTerminal() {
			s.OpenAmount = s.OpenAmount.Add(o.Total())
		}
		if o.Status() == Preparing {
			s.ItemsInKitchen += o.ItemCount()
		}
	}
	return s
}

package entity

import (
	"encoding/json"
	"fmt"
)

// Item is one line of an Order. It has no identity outside its order.
type Item struct {
	ProductID int     `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

func (i Item) Validate() error {
	if i.ProductID <= 0 {
		return ErrProductIDMustBePos
	}
	if i.Quantity <= 0 {
		return ErrQuantityMustBePos
	}
	if i.Price <= 0 {
		return ErrPriceMustBePos
	}
	return nil
}

// Order is a synthetic purchase request. Once built it is never mutated.
type Order struct {
	customerID string
	items      []Item
}

func NewOrder(customerID string, items []Item) (*Order, error) {
	order := &Order{
		customerID: customerID,
		items:      append([]Item(nil), items...),
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

func (o *Order) Validate() error {
	if o.customerID == "" {
		return ErrCustomerIsRequired
	}
	if len(o.items) == 0 {
		return ErrItemsAreRequired
	}
	for n, it := range o.items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", n, err)
		}
	}
	return nil
}

func (o *Order) CustomerID() string {
	return o.customerID
}

// Items returns a copy so callers cannot mutate the order.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

func (o *Order) ItemCount() int {
	return len(o.items)
}

func (o *Order) Total() float64 {
	var total float64
	for _, it := range o.items {
		total += float64(it.Quantity) * it.Price
	}
	return total
}

type orderJSON struct {
	CustomerID string `json:"customerId"`
	Items      []Item `json:"items"`
}

func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(orderJSON{CustomerID: o.customerID, Items: o.items})
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var raw orderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.customerID = raw.CustomerID
	o.items = raw.Items
	return nil
}

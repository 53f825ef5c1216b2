package cart

import "pos-system/internal/models"

// Fulfillment is the order-type-dependent part of the cart context.
// Each variant carries only the fields valid for its channel, so a rider
// on a dine-in order or a table on a delivery order cannot be represented.
type Fulfillment interface {
	OrderType() models.OrderType
}

// DineIn is an order eaten on premises, optionally tied to a table
type DineIn struct {
	TableNumber *int
}

// OrderType implements Fulfillment
func (DineIn) OrderType() models.OrderType { return models.DineIn }

// TakeAway is an order picked up at the counter
type TakeAway struct{}

// OrderType implements Fulfillment
func (TakeAway) OrderType() models.OrderType { return models.TakeAway }

// Delivery is an order brought to the customer, optionally with an
// assigned rider and destination address
type Delivery struct {
	Rider   *models.Rider
	Address *string
}

// OrderType implements Fulfillment
func (Delivery) OrderType() models.OrderType { return models.Delivery }

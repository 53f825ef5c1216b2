package models

import "time"

// TicketMessage represents a kitchen ticket published on checkout
type TicketMessage struct {
	OrderNumber     string      `json:"order_number"`
	OrderType       string      `json:"order_type"`
	CustomerName    *string     `json:"customer_name,omitempty"`
	TableNumber     *int        `json:"table_number,omitempty"`
	RiderName       *string     `json:"rider_name,omitempty"`
	DeliveryAddress *string     `json:"delivery_address,omitempty"`
	Items           []OrderItem `json:"items"`
	CashierName     string      `json:"cashier_name"`
	PlacedAt        time.Time   `json:"placed_at"`
}

// ReceiptMessage represents a receipt copy published on checkout
type ReceiptMessage struct {
	OrderNumber  string      `json:"order_number"`
	OrderType    string      `json:"order_type"`
	CustomerName *string     `json:"customer_name,omitempty"`
	Items        []OrderItem `json:"items"`
	Totals       Totals      `json:"totals"`
	CashierName  string      `json:"cashier_name"`
	PlacedAt     time.Time   `json:"placed_at"`
}

// TicketFromOrder builds the kitchen ticket message for a submitted order
func TicketFromOrder(o *Order) *TicketMessage {
	return &TicketMessage{
		OrderNumber:     o.Number,
		OrderType:       string(o.Type),
		CustomerName:    o.CustomerName,
		TableNumber:     o.TableNumber,
		RiderName:       o.RiderName,
		DeliveryAddress: o.DeliveryAddress,
		Items:           o.Items,
		CashierName:     o.CashierName,
		PlacedAt:        o.CreatedAt,
	}
}

// ReceiptFromOrder builds the receipt message for a submitted order
func ReceiptFromOrder(o *Order) *ReceiptMessage {
	return &ReceiptMessage{
		OrderNumber:  o.Number,
		OrderType:    string(o.Type),
		CustomerName: o.CustomerName,
		Items:        o.Items,
		Totals:       o.Totals,
		CashierName:  o.CashierName,
		PlacedAt:     o.CreatedAt,
	}
}

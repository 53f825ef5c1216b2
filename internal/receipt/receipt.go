package receipt

import (
	"fmt"
	"strings"
	"time"

	"pos-system/internal/models"
)

const lineWidth = 40

// Renderer produces printable plain-text views of submitted orders.
// It only formats; sending the text to an actual printer is the device
// layer's problem.
type Renderer struct {
	storeName string
}

// NewRenderer creates a renderer with the store name used in headers
func NewRenderer(storeName string) *Renderer {
	return &Renderer{storeName: storeName}
}

// Receipt renders the customer receipt for a submitted order
func (r *Renderer) Receipt(msg *models.ReceiptMessage) string {
	var b strings.Builder

	writeCentered(&b, r.storeName)
	writeRule(&b)
	fmt.Fprintf(&b, "Order: %s\n", msg.OrderNumber)
	fmt.Fprintf(&b, "Type: %s\n", orderTypeLabel(msg.OrderType))
	fmt.Fprintf(&b, "Date: %s\n", msg.PlacedAt.Format(time.DateTime))
	fmt.Fprintf(&b, "Cashier: %s\n", msg.CashierName)
	if msg.CustomerName != nil {
		fmt.Fprintf(&b, "Customer: %s\n", *msg.CustomerName)
	}
	writeRule(&b)

	for _, item := range msg.Items {
		left := fmt.Sprintf("%dx %s", item.Quantity, item.Name)
		writeJustified(&b, left, fmt.Sprintf("%.2f", item.LineTotal))
	}
	writeRule(&b)

	writeJustified(&b, "Subtotal", fmt.Sprintf("%.2f", msg.Totals.Subtotal))
	if msg.Totals.DiscountAmount != 0 {
		writeJustified(&b, "Discount", fmt.Sprintf("-%.2f", msg.Totals.DiscountAmount))
	}
	if msg.Totals.TaxAmount != 0 {
		writeJustified(&b, "Tax", fmt.Sprintf("%.2f", msg.Totals.TaxAmount))
	}
	if msg.Totals.DeliveryFee != 0 {
		writeJustified(&b, "Delivery fee", fmt.Sprintf("%.2f", msg.Totals.DeliveryFee))
	}
	writeJustified(&b, "TOTAL", fmt.Sprintf("%.2f", msg.Totals.Total))
	writeRule(&b)
	writeCentered(&b, "Thank you!")

	return b.String()
}

// KitchenTicket renders the kitchen ticket for a submitted order.
// No prices: the kitchen only cares about what to make and where it goes.
func (r *Renderer) KitchenTicket(msg *models.TicketMessage) string {
	var b strings.Builder

	writeCentered(&b, "KITCHEN TICKET")
	writeRule(&b)
	fmt.Fprintf(&b, "Order: %s\n", msg.OrderNumber)
	fmt.Fprintf(&b, "Type: %s\n", orderTypeLabel(msg.OrderType))
	fmt.Fprintf(&b, "Time: %s\n", msg.PlacedAt.Format(time.TimeOnly))

	switch models.OrderType(msg.OrderType) {
	case models.DineIn:
		if msg.TableNumber != nil {
			fmt.Fprintf(&b, "Table: %d\n", *msg.TableNumber)
		}
	case models.Delivery:
		if msg.RiderName != nil {
			fmt.Fprintf(&b, "Rider: %s\n", *msg.RiderName)
		}
		if msg.DeliveryAddress != nil {
			fmt.Fprintf(&b, "Address: %s\n", *msg.DeliveryAddress)
		}
	}
	writeRule(&b)

	for _, item := range msg.Items {
		fmt.Fprintf(&b, "%dx %s\n", item.Quantity, item.Name)
	}
	writeRule(&b)

	return b.String()
}

func orderTypeLabel(orderType string) string {
	switch models.OrderType(orderType) {
	case models.DineIn:
		return "Dine-in"
	case models.TakeAway:
		return "Take-away"
	case models.Delivery:
		return "Delivery"
	}
	return orderType
}

func writeRule(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", lineWidth))
	b.WriteByte('\n')
}

func writeCentered(b *strings.Builder, s string) {
	pad := (lineWidth - len(s)) / 2
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(s)
	b.WriteByte('\n')
}

func writeJustified(b *strings.Builder, left, right string) {
	gap := lineWidth - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(left)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(right)
	b.WriteByte('\n')
}

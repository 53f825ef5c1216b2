package cart

import (
	"math"

	"pos-system/internal/models"
)

// DefaultDeliveryFee is the flat surcharge applied to delivery orders
const DefaultDeliveryFee = 30.0

// DiscountSpec is the active discount rule of a cart
type DiscountSpec struct {
	Amount float64             `json:"amount"`
	Kind   models.DiscountKind `json:"kind"`
}

// ProjectTotals derives the full pricing breakdown from cart state.
// It is the single place the totals arithmetic lives; every mutator ends
// by calling it, so totals can never drift from the ledger.
//
// A fixed discount is deliberately not clamped to the subtotal; the total
// can go negative and it is the caller's policy whether to allow that.
func ProjectTotals(lines []Line, discount DiscountSpec, taxRatePct float64, orderType models.OrderType, deliveryFee float64) models.Totals {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.LineTotal
	}
	subtotal = round2(subtotal)

	var discountAmount float64
	switch discount.Kind {
	case models.DiscountPercentage:
		discountAmount = round2(subtotal * discount.Amount / 100)
	case models.DiscountFixed:
		discountAmount = round2(discount.Amount)
	}

	taxAmount := round2((subtotal - discountAmount) * taxRatePct / 100)

	var fee float64
	if orderType == models.Delivery {
		fee = deliveryFee
	}

	return models.Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		DeliveryFee:    fee,
		Total:          round2(subtotal - discountAmount + taxAmount + fee),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

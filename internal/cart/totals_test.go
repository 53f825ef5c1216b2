package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pos-system/internal/models"
)

func TestProjectTotals(t *testing.T) {
	lines := []Line{
		{ProductID: "a", UnitPrice: 500, Quantity: 2, LineTotal: 1000},
		{ProductID: "b", UnitPrice: 300, Quantity: 1, LineTotal: 300},
	}

	tests := []struct {
		name        string
		lines       []Line
		discount    DiscountSpec
		taxRatePct  float64
		orderType   models.OrderType
		deliveryFee float64
		want        models.Totals
	}{
		{
			name:      "empty cart",
			orderType: models.DineIn,
			discount:  DiscountSpec{Kind: models.DiscountPercentage},
			want:      models.Totals{},
		},
		{
			name:        "no discount dine-in",
			lines:       lines,
			discount:    DiscountSpec{Kind: models.DiscountPercentage},
			orderType:   models.DineIn,
			deliveryFee: 30,
			want:        models.Totals{Subtotal: 1300, Total: 1300},
		},
		{
			name:        "percentage discount",
			lines:       lines,
			discount:    DiscountSpec{Amount: 10, Kind: models.DiscountPercentage},
			orderType:   models.TakeAway,
			deliveryFee: 30,
			want:        models.Totals{Subtotal: 1300, DiscountAmount: 130, Total: 1170},
		},
		{
			name:        "fixed discount with delivery fee",
			lines:       lines,
			discount:    DiscountSpec{Amount: 100, Kind: models.DiscountFixed},
			orderType:   models.Delivery,
			deliveryFee: 30,
			want:        models.Totals{Subtotal: 1300, DiscountAmount: 100, DeliveryFee: 30, Total: 1230},
		},
		{
			name:        "fixed discount exceeding subtotal goes negative",
			lines:       []Line{{ProductID: "a", UnitPrice: 50, Quantity: 1, LineTotal: 50}},
			discount:    DiscountSpec{Amount: 80, Kind: models.DiscountFixed},
			orderType:   models.TakeAway,
			deliveryFee: 30,
			want:        models.Totals{Subtotal: 50, DiscountAmount: 80, Total: -30},
		},
		{
			name:        "nonzero tax applies after discount",
			lines:       lines,
			discount:    DiscountSpec{Amount: 300, Kind: models.DiscountFixed},
			taxRatePct:  10,
			orderType:   models.Delivery,
			deliveryFee: 30,
			want:        models.Totals{Subtotal: 1300, DiscountAmount: 300, TaxAmount: 100, DeliveryFee: 30, Total: 1130},
		},
		{
			name: "fractional prices round to cents",
			lines: []Line{
				{ProductID: "a", UnitPrice: 3.33, Quantity: 3, LineTotal: 9.99},
			},
			discount:    DiscountSpec{Amount: 15, Kind: models.DiscountPercentage},
			orderType:   models.DineIn,
			deliveryFee: 30,
			want:        models.Totals{Subtotal: 9.99, DiscountAmount: 1.5, Total: 8.49},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectTotals(tt.lines, tt.discount, tt.taxRatePct, tt.orderType, tt.deliveryFee)
			assert.Equal(t, tt.want, got)
		})
	}
}

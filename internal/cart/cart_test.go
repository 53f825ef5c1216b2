package cart

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-system/internal/models"
)

func product(id, name string, price float64) models.Product {
	return models.Product{ID: id, Name: name, Price: price, Category: "mains", Active: true}
}

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func TestAddItem_RepeatedAddsIncrementQuantity(t *testing.T) {
	c := New()
	p := product("p1", "Margherita", 9.5)

	for i := 1; i <= 5; i++ {
		c.AddItem(p)

		snap := c.Snapshot()
		require.Len(t, snap.Lines, 1, "repeated adds must not duplicate the line")
		assert.Equal(t, i, snap.Lines[0].Quantity)
		assert.Equal(t, round2(float64(i)*9.5), snap.Lines[0].LineTotal)
	}
}

func TestAddItem_DistinctProductsGetOwnLines(t *testing.T) {
	c := New()
	c.AddItem(product("p1", "Margherita", 9.5))
	c.AddItem(product("p2", "Pepperoni", 11.0))
	c.AddItem(product("p1", "Margherita", 9.5))

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 2)
	assert.Equal(t, "p1", snap.Lines[0].ProductID)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, "p2", snap.Lines[1].ProductID)
	assert.Equal(t, 1, snap.Lines[1].Quantity)
	assert.Equal(t, 30.0, snap.Totals.Subtotal)
}

func TestRemoveItem_ThenAdd_YieldsFreshLine(t *testing.T) {
	c := New()
	p := product("p1", "Margherita", 9.5)
	c.AddItem(p)
	c.AddItem(p)
	c.RemoveItem("p1")
	c.AddItem(p)

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 1, snap.Lines[0].Quantity, "no residual quantity after remove")
	assert.Equal(t, 9.5, snap.Totals.Subtotal)
}

func TestRemoveItem_AbsentProductIsNoOp(t *testing.T) {
	c := New()
	c.AddItem(product("p1", "Margherita", 9.5))

	before := c.Snapshot()
	c.RemoveItem("ghost")
	assert.Equal(t, before, c.Snapshot())
}

func TestUpdateQuantity_ZeroEqualsRemove(t *testing.T) {
	for _, qty := range []int{0, -1, -10} {
		removed := New()
		removed.AddItem(product("p1", "Margherita", 9.5))
		removed.AddItem(product("p2", "Pepperoni", 11.0))
		removed.RemoveItem("p1")

		updated := New()
		updated.AddItem(product("p1", "Margherita", 9.5))
		updated.AddItem(product("p2", "Pepperoni", 11.0))
		updated.UpdateQuantity("p1", qty)

		assert.Equal(t, removed.Snapshot(), updated.Snapshot(), "UpdateQuantity(%d) must equal RemoveItem", qty)
	}
}

func TestUpdateQuantity_SetsQuantityAndLineTotal(t *testing.T) {
	c := New()
	c.AddItem(product("p1", "Margherita", 9.5))
	c.UpdateQuantity("p1", 4)

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 4, snap.Lines[0].Quantity)
	assert.Equal(t, 38.0, snap.Lines[0].LineTotal)
	assert.Equal(t, 38.0, snap.Totals.Subtotal)
}

func TestUpdateQuantity_UnknownIDIsNoOp(t *testing.T) {
	c := New()
	c.AddItem(product("p1", "Margherita", 9.5))

	before := c.Snapshot()
	c.UpdateQuantity("ghost", 3)
	assert.Equal(t, before, c.Snapshot())
}

func TestSetCustomer_DoesNotAffectTotals(t *testing.T) {
	c := New()
	c.AddItem(product("p1", "Margherita", 9.5))
	before := c.Totals()

	c.SetCustomer(&models.Customer{ID: "c1", Name: "Ada", Phone: "555-0101", Visits: 12})
	assert.Equal(t, before, c.Totals())
	assert.Equal(t, "Ada", c.Snapshot().Customer.Name)

	c.SetCustomer(nil)
	assert.Equal(t, before, c.Totals())
	assert.Nil(t, c.Snapshot().Customer)
}

func TestSetOrderType_ClearsFieldsOfOtherChannels(t *testing.T) {
	c := New()
	c.SetTableNumber(intPtr(7))
	require.Equal(t, 7, *c.Snapshot().TableNumber)

	c.SetOrderType(models.TakeAway)
	assert.Nil(t, c.Snapshot().TableNumber, "leaving dine-in must drop the table")

	c.SetOrderType(models.Delivery)
	snap := c.Snapshot()
	assert.Nil(t, snap.TableNumber, "a cleared table must not resurrect")
	assert.Nil(t, snap.Rider)
	assert.Nil(t, snap.DeliveryAddress)

	c.SetRider(&models.Rider{ID: "r1", Name: "Miko", Phone: "555-0202"})
	c.SetDeliveryAddress(strPtr("12 Elm Street, Apt 4"))
	c.SetOrderType(models.DineIn)
	snap = c.Snapshot()
	assert.Nil(t, snap.Rider, "leaving delivery must drop the rider")
	assert.Nil(t, snap.DeliveryAddress, "leaving delivery must drop the address")
	assert.Nil(t, snap.TableNumber)
}

func TestSetOrderType_SameTypeKeepsFields(t *testing.T) {
	c := New()
	c.SetTableNumber(intPtr(3))
	c.SetOrderType(models.DineIn)
	require.NotNil(t, c.Snapshot().TableNumber)
	assert.Equal(t, 3, *c.Snapshot().TableNumber)
}

func TestContextSetters_NoOpOnWrongChannel(t *testing.T) {
	c := New()

	// dine-in: rider and address have nowhere to live
	c.SetRider(&models.Rider{ID: "r1", Name: "Miko"})
	c.SetDeliveryAddress(strPtr("12 Elm Street"))
	snap := c.Snapshot()
	assert.Nil(t, snap.Rider)
	assert.Nil(t, snap.DeliveryAddress)

	// delivery: a table has nowhere to live
	c.SetOrderType(models.Delivery)
	c.SetTableNumber(intPtr(5))
	assert.Nil(t, c.Snapshot().TableNumber)
}

func TestSetDiscount_PercentageAndFixed(t *testing.T) {
	c := New()
	c.AddItem(product("p1", "Banquet", 1000))

	c.SetDiscount(10, models.DiscountPercentage)
	totals := c.Totals()
	assert.Equal(t, 1000.0, totals.Subtotal)
	assert.Equal(t, 100.0, totals.DiscountAmount)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, 900.0, totals.Total)

	c.SetDiscount(100, models.DiscountFixed)
	totals = c.Totals()
	assert.Equal(t, 100.0, totals.DiscountAmount, "fixed discount is absolute, regardless of subtotal")
	assert.Equal(t, 900.0, totals.Total)
}

func TestSetDiscount_RecomputedAfterLedgerChanges(t *testing.T) {
	c := New()
	c.AddItem(product("p1", "Banquet", 1000))
	c.SetDiscount(10, models.DiscountPercentage)
	require.Equal(t, 100.0, c.Totals().DiscountAmount)

	// removing the item must not leave a stale discount behind
	c.RemoveItem("p1")
	totals := c.Totals()
	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.DiscountAmount)
	assert.Equal(t, 0.0, totals.Total)
}

func TestSetDiscount_FixedIsNotClampedToSubtotal(t *testing.T) {
	c := New()
	c.AddItem(product("p1", "Espresso", 50))
	c.SetDiscount(80, models.DiscountFixed)

	totals := c.Totals()
	assert.Equal(t, 80.0, totals.DiscountAmount)
	assert.Equal(t, -30.0, totals.Total, "clamping is caller policy, not engine behavior")
}

func TestDeliveryFee_AppliedOnlyForDelivery(t *testing.T) {
	c := New()
	c.AddItem(product("p1", "Margherita", 100))

	for _, orderType := range []models.OrderType{models.DineIn, models.TakeAway} {
		c.SetOrderType(orderType)
		totals := c.Totals()
		assert.Equal(t, 0.0, totals.DeliveryFee, "no fee for %s", orderType)
		assert.Equal(t, 100.0, totals.Total)
	}

	c.SetOrderType(models.Delivery)
	totals := c.Totals()
	assert.Equal(t, DefaultDeliveryFee, totals.DeliveryFee)
	assert.Equal(t, 130.0, totals.Total, "fee lands in the same operation as the switch")

	c.SetOrderType(models.TakeAway)
	totals = c.Totals()
	assert.Equal(t, 0.0, totals.DeliveryFee)
	assert.Equal(t, 100.0, totals.Total, "fee leaves in the same operation as the switch")
}

func TestTaxRate_GenericFormula(t *testing.T) {
	c := NewWithRates(10, DefaultDeliveryFee)
	c.AddItem(product("p1", "Banquet", 1000))
	c.SetDiscount(100, models.DiscountFixed)

	totals := c.Totals()
	assert.Equal(t, 90.0, totals.TaxAmount, "tax applies to subtotal minus discount")
	assert.Equal(t, 990.0, totals.Total)
}

func TestEndToEndScenario(t *testing.T) {
	c := New()

	a := product("a", "Family Platter", 500)
	c.AddItem(a)
	c.AddItem(a)
	c.AddItem(product("b", "House Salad", 300))
	require.Equal(t, 1300.0, c.Totals().Subtotal)

	c.SetDiscount(10, models.DiscountPercentage)
	totals := c.Totals()
	assert.Equal(t, 130.0, totals.DiscountAmount)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, 1170.0, totals.Total)

	c.SetOrderType(models.Delivery)
	totals = c.Totals()
	assert.Equal(t, 30.0, totals.DeliveryFee)
	assert.Equal(t, 1200.0, totals.Total)

	c.Clear()
	snap := c.Snapshot()
	assert.Empty(t, snap.Lines)
	assert.Nil(t, snap.Customer)
	assert.Equal(t, models.DineIn, snap.OrderType)
	assert.Equal(t, DiscountSpec{Kind: models.DiscountPercentage}, snap.Discount)
	assert.Equal(t, models.Totals{}, snap.Totals)
}

func TestClear_ResetsAllState(t *testing.T) {
	c := New()
	c.AddItem(product("p1", "Margherita", 9.5))
	c.SetCustomer(&models.Customer{ID: "c1", Name: "Ada"})
	c.SetOrderType(models.Delivery)
	c.SetRider(&models.Rider{ID: "r1", Name: "Miko"})
	c.SetDeliveryAddress(strPtr("12 Elm Street, Apt 4"))
	c.SetDiscount(5, models.DiscountFixed)

	c.Clear()

	assert.Equal(t, New().Snapshot(), c.Snapshot())
}

func TestLoad_MatchesIncrementalPath(t *testing.T) {
	incremental := New()
	incremental.AddItem(product("p1", "Margherita", 9.5))
	incremental.AddItem(product("p1", "Margherita", 9.5))
	incremental.AddItem(product("p2", "Pepperoni", 11.0))
	incremental.SetCustomer(&models.Customer{ID: "c1", Name: "Ada", Phone: "555-0101"})
	incremental.SetOrderType(models.Delivery)
	incremental.SetRider(&models.Rider{ID: "r1", Name: "Miko"})
	incremental.SetDeliveryAddress(strPtr("12 Elm Street, Apt 4"))
	incremental.SetDiscount(10, models.DiscountPercentage)

	loaded := New()
	loaded.Load(incremental.Snapshot())

	assert.Equal(t, incremental.Snapshot(), loaded.Snapshot(), "load path and incremental path must not drift")
}

func TestLoad_RecomputesStaleLineTotals(t *testing.T) {
	c := New()
	c.Load(Snapshot{
		OrderType: models.TakeAway,
		Lines: []Line{
			{ProductID: "p1", Name: "Margherita", UnitPrice: 9.5, Quantity: 2, LineTotal: 999},
		},
		Discount: DiscountSpec{Kind: models.DiscountPercentage},
	})

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 19.0, snap.Lines[0].LineTotal, "stored line totals are recomputed, not trusted")
	assert.Equal(t, 19.0, snap.Totals.Subtotal)
}

func TestLoad_SupportsFollowUpMutations(t *testing.T) {
	c := New()
	c.Load(Snapshot{
		OrderType: models.DineIn,
		Lines: []Line{
			{ProductID: "p1", Name: "Margherita", UnitPrice: 9.5, Quantity: 2},
			{ProductID: "p2", Name: "Pepperoni", UnitPrice: 11.0, Quantity: 1},
		},
		Discount: DiscountSpec{Kind: models.DiscountPercentage},
	})

	// the rebuilt index must route follow-up edits to the right lines
	c.AddItem(product("p2", "Pepperoni", 11.0))
	c.UpdateQuantity("p1", 1)

	snap := c.Snapshot()
	require.Len(t, snap.Lines, 2)
	assert.Equal(t, 1, snap.Lines[0].Quantity)
	assert.Equal(t, 2, snap.Lines[1].Quantity)
	assert.Equal(t, 31.5, snap.Totals.Subtotal)
}

func TestObservers_AlwaysSeeConsistentTotals(t *testing.T) {
	c := New()
	calls := 0
	unsubscribe := c.Subscribe(func(snap Snapshot) {
		calls++
		var sum float64
		for _, line := range snap.Lines {
			sum += line.LineTotal
		}
		assert.Equal(t, round2(sum), snap.Totals.Subtotal, "observer saw totals out of step with the ledger")
	})

	c.AddItem(product("p1", "Margherita", 9.5))
	c.AddItem(product("p2", "Pepperoni", 11.0))
	c.SetDiscount(10, models.DiscountPercentage)
	c.SetOrderType(models.Delivery)
	c.RemoveItem("p1")
	c.Clear()
	require.Equal(t, 6, calls)

	unsubscribe()
	c.AddItem(product("p1", "Margherita", 9.5))
	assert.Equal(t, 6, calls, "unsubscribed observer must not be notified")
}

func TestSubtotalInvariant_RandomOperationSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	catalog := []models.Product{
		product("p1", "Margherita", 9.5),
		product("p2", "Pepperoni", 11.0),
		product("p3", "Tiramisu", 6.25),
		product("p4", "Espresso", 2.4),
	}

	c := New()
	for i := 0; i < 500; i++ {
		p := catalog[rng.Intn(len(catalog))]
		switch rng.Intn(6) {
		case 0, 1, 2:
			c.AddItem(p)
		case 3:
			c.RemoveItem(p.ID)
		case 4:
			c.UpdateQuantity(p.ID, rng.Intn(8)-1)
		case 5:
			c.SetDiscount(float64(rng.Intn(30)), models.DiscountPercentage)
		}

		snap := c.Snapshot()
		var sum float64
		for _, line := range snap.Lines {
			require.GreaterOrEqual(t, line.Quantity, 1, "op %d: quantities below 1 must not exist", i)
			require.Equal(t, round2(float64(line.Quantity)*line.UnitPrice), line.LineTotal, "op %d", i)
			sum += line.LineTotal
		}
		require.Equal(t, round2(sum), snap.Totals.Subtotal, "op %d: subtotal invariant broken", i)
		require.Equal(t,
			ProjectTotals(snap.Lines, snap.Discount, 0, snap.OrderType, DefaultDeliveryFee),
			snap.Totals,
			"op %d: stored totals drifted from projection", i)
	}
}

func TestProgrammerErrors_FailFast(t *testing.T) {
	c := New()

	assert.Panics(t, func() {
		c.AddItem(product("p1", "Broken", -1))
	}, "negative unit price must not be silently priced")

	assert.Panics(t, func() {
		c.SetDiscount(10, models.DiscountKind("loyalty"))
	}, "unknown discount kind is a programming error")

	assert.Panics(t, func() {
		c.SetOrderType(models.OrderType("drive_through"))
	}, "order type is a closed enum")
}

func TestSnapshot_IsDetachedFromCartState(t *testing.T) {
	c := New()
	c.AddItem(product("p1", "Margherita", 9.5))
	c.SetCustomer(&models.Customer{ID: "c1", Name: "Ada"})

	snap := c.Snapshot()
	snap.Lines[0].Quantity = 99
	snap.Customer.Name = "Mallory"

	fresh := c.Snapshot()
	assert.Equal(t, 1, fresh.Lines[0].Quantity)
	assert.Equal(t, "Ada", fresh.Customer.Name)
}

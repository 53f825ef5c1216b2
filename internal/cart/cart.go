package cart

import (
	"fmt"

	"pos-system/internal/models"
)

// Line is one product entry in the cart ledger
type Line struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// Snapshot is a consistent, read-only view of the whole cart. Observers
// and collaborators (order submission, receipts, held-cart storage) only
// ever see the cart through snapshots.
type Snapshot struct {
	Lines           []Line            `json:"lines"`
	Customer        *models.Customer  `json:"customer,omitempty"`
	OrderType       models.OrderType  `json:"order_type"`
	TableNumber     *int              `json:"table_number,omitempty"`
	Rider           *models.Rider     `json:"rider,omitempty"`
	DeliveryAddress *string           `json:"delivery_address,omitempty"`
	Discount        DiscountSpec      `json:"discount"`
	Totals          models.Totals     `json:"totals"`
}

// Observer receives the cart snapshot after every mutation
type Observer func(Snapshot)

type subscription struct {
	id int
	fn Observer
}

// Cart is the order cart state machine. It owns all order-in-progress
// state and is the sole source of truth for totals: every mutator ends by
// re-projecting Totals from the ledger and notifying observers, so no
// observer can see line items and totals out of step.
//
// A Cart is a single-actor container: one cashier station per instance,
// no internal locking. Construct one per active till or order session.
type Cart struct {
	lines       []Line
	index       map[string]int
	customer    *models.Customer
	fulfillment Fulfillment
	discount    DiscountSpec
	taxRatePct  float64
	deliveryFee float64
	totals      models.Totals

	subs   []subscription
	nextID int
}

// New creates an empty cart with a zero tax rate and the default
// delivery fee. New orders start as dine-in.
func New() *Cart {
	return NewWithRates(0, DefaultDeliveryFee)
}

// NewWithRates creates an empty cart with explicit pricing knobs
func NewWithRates(taxRatePct, deliveryFee float64) *Cart {
	c := &Cart{
		taxRatePct:  taxRatePct,
		deliveryFee: deliveryFee,
	}
	c.reset()
	return c
}

func (c *Cart) reset() {
	c.lines = nil
	c.index = make(map[string]int)
	c.customer = nil
	c.fulfillment = DineIn{}
	c.discount = DiscountSpec{Kind: models.DiscountPercentage}
	c.totals = ProjectTotals(nil, c.discount, c.taxRatePct, models.DineIn, c.deliveryFee)
}

// AddItem adds one unit of the product to the ledger. A product already
// present has its quantity incremented instead of gaining a second line.
// Panics on a negative unit price: price validation is the catalog's job
// and a negative price reaching the engine is a programming error.
func (c *Cart) AddItem(p models.Product) {
	if p.Price < 0 {
		panic(fmt.Sprintf("cart: product %s has negative unit price %v", p.ID, p.Price))
	}

	if i, ok := c.index[p.ID]; ok {
		c.lines[i].Quantity++
		c.lines[i].LineTotal = round2(float64(c.lines[i].Quantity) * c.lines[i].UnitPrice)
	} else {
		c.index[p.ID] = len(c.lines)
		c.lines = append(c.lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  1,
			LineTotal: round2(p.Price),
		})
	}
	c.project()
}

// RemoveItem deletes the line for the given product id. Removing an
// absent product is a no-op.
func (c *Cart) RemoveItem(productID string) {
	i, ok := c.index[productID]
	if ok {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		delete(c.index, productID)
		for j := i; j < len(c.lines); j++ {
			c.index[c.lines[j].ProductID] = j
		}
	}
	c.project()
}

// UpdateQuantity sets the line's quantity. A quantity of zero or below
// removes the line, exactly like RemoveItem. Unknown ids are a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if i, ok := c.index[productID]; ok {
		c.lines[i].Quantity = quantity
		c.lines[i].LineTotal = round2(float64(quantity) * c.lines[i].UnitPrice)
	}
	c.project()
}

// SetCustomer replaces the associated customer. Pricing is blind to the
// customer; this only travels with the snapshot for display and CRM.
func (c *Cart) SetCustomer(customer *models.Customer) {
	c.customer = customer
	c.project()
}

// SetOrderType switches the fulfillment channel. The previous channel's
// fields do not survive the switch: leaving dine-in drops the table,
// leaving delivery drops the rider and address. Switching to the current
// type keeps the existing fields.
func (c *Cart) SetOrderType(t models.OrderType) {
	if t == c.fulfillment.OrderType() {
		c.project()
		return
	}
	switch t {
	case models.DineIn:
		c.fulfillment = DineIn{}
	case models.TakeAway:
		c.fulfillment = TakeAway{}
	case models.Delivery:
		c.fulfillment = Delivery{}
	default:
		panic(fmt.Sprintf("cart: unknown order type %q", t))
	}
	c.project()
}

// SetTableNumber assigns a table to a dine-in cart. On any other
// fulfillment channel the table has no home and the call is a no-op.
func (c *Cart) SetTableNumber(n *int) {
	if _, ok := c.fulfillment.(DineIn); ok {
		c.fulfillment = DineIn{TableNumber: n}
	}
	c.project()
}

// SetRider assigns a rider to a delivery cart; no-op on other channels
func (c *Cart) SetRider(r *models.Rider) {
	if d, ok := c.fulfillment.(Delivery); ok {
		d.Rider = r
		c.fulfillment = d
	}
	c.project()
}

// SetDeliveryAddress sets the destination of a delivery cart; no-op on
// other channels
func (c *Cart) SetDeliveryAddress(addr *string) {
	if d, ok := c.fulfillment.(Delivery); ok {
		d.Address = addr
		c.fulfillment = d
	}
	c.project()
}

// SetDiscount replaces the discount spec and re-derives the discount
// from the current subtotal. Switching kind does not reset the amount.
// Panics on an unrecognized kind: the two kinds are a closed enum and
// anything else is a programming error upstream.
func (c *Cart) SetDiscount(amount float64, kind models.DiscountKind) {
	if !kind.Valid() {
		panic(fmt.Sprintf("cart: unknown discount kind %q", kind))
	}
	c.discount = DiscountSpec{Amount: amount, Kind: kind}
	c.project()
}

// Clear resets the cart to its initial empty state. Used after a
// successful checkout or an explicit clear action.
func (c *Cart) Clear() {
	c.reset()
	c.notify()
}

// Load replaces the ledger and order context wholesale from an external
// snapshot, then re-projects totals through the same routine as every
// incremental mutation. This is the resume/edit path; line totals are
// recomputed from quantity and unit price rather than trusted.
func (c *Cart) Load(snap Snapshot) {
	c.lines = make([]Line, len(snap.Lines))
	c.index = make(map[string]int, len(snap.Lines))
	for i, line := range snap.Lines {
		line.LineTotal = round2(float64(line.Quantity) * line.UnitPrice)
		c.lines[i] = line
		c.index[line.ProductID] = i
	}

	c.customer = snap.Customer
	switch snap.OrderType {
	case models.TakeAway:
		c.fulfillment = TakeAway{}
	case models.Delivery:
		c.fulfillment = Delivery{Rider: snap.Rider, Address: snap.DeliveryAddress}
	default:
		c.fulfillment = DineIn{TableNumber: snap.TableNumber}
	}
	c.discount = snap.Discount
	if !c.discount.Kind.Valid() {
		c.discount.Kind = models.DiscountPercentage
	}
	c.project()
}

// Totals returns the current derived totals
func (c *Cart) Totals() models.Totals {
	return c.totals
}

// OrderType returns the current fulfillment channel
func (c *Cart) OrderType() models.OrderType {
	return c.fulfillment.OrderType()
}

// Snapshot returns a consistent read-only copy of the cart state
func (c *Cart) Snapshot() Snapshot {
	snap := Snapshot{
		Lines:     make([]Line, len(c.lines)),
		OrderType: c.fulfillment.OrderType(),
		Discount:  c.discount,
		Totals:    c.totals,
	}
	copy(snap.Lines, c.lines)

	if c.customer != nil {
		cust := *c.customer
		snap.Customer = &cust
	}

	switch f := c.fulfillment.(type) {
	case DineIn:
		if f.TableNumber != nil {
			n := *f.TableNumber
			snap.TableNumber = &n
		}
	case Delivery:
		if f.Rider != nil {
			r := *f.Rider
			snap.Rider = &r
		}
		if f.Address != nil {
			a := *f.Address
			snap.DeliveryAddress = &a
		}
	}

	return snap
}

// Subscribe registers an observer that is called with a fresh snapshot
// after every mutation. The returned function removes the subscription.
func (c *Cart) Subscribe(fn Observer) (unsubscribe func()) {
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscription{id: id, fn: fn})

	return func() {
		for i, sub := range c.subs {
			if sub.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// project recomputes totals from current state and notifies observers.
// Every mutator funnels through here; nothing patches totals in place.
func (c *Cart) project() {
	c.totals = ProjectTotals(c.lines, c.discount, c.taxRatePct, c.fulfillment.OrderType(), c.deliveryFee)
	c.notify()
}

func (c *Cart) notify() {
	if len(c.subs) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, sub := range c.subs {
		sub.fn(snap)
	}
}

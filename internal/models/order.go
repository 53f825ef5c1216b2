package models

import (
	"fmt"
	"regexp"
	"time"
)

// OrderType represents the fulfillment channel of an order
type OrderType string

const (
	DineIn   OrderType = "dine_in"
	TakeAway OrderType = "take_away"
	Delivery OrderType = "delivery"
)

// Valid reports whether t is one of the recognized order types
func (t OrderType) Valid() bool {
	switch t {
	case DineIn, TakeAway, Delivery:
		return true
	}
	return false
}

// DiscountKind represents how a discount magnitude is interpreted
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// Valid reports whether k is one of the recognized discount kinds
func (k DiscountKind) Valid() bool {
	return k == DiscountPercentage || k == DiscountFixed
}

// OrderStatus represents the status of a persisted order
type OrderStatus string

const (
	StatusOpen      OrderStatus = "open"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// Totals is the derived pricing breakdown of a cart or order
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	DeliveryFee    float64 `json:"delivery_fee"`
	Total          float64 `json:"total"`
}

// OrderItem represents a persisted order line
type OrderItem struct {
	ID        int     `json:"id,omitempty" db:"id"`
	OrderID   int     `json:"order_id,omitempty" db:"order_id"`
	ProductID string  `json:"product_id" db:"product_id"`
	Name      string  `json:"name" db:"name"`
	Quantity  int     `json:"quantity" db:"quantity"`
	UnitPrice float64 `json:"unit_price" db:"unit_price"`
	LineTotal float64 `json:"line_total" db:"line_total"`
}

// Order represents a persisted customer order
type Order struct {
	ID              int          `json:"id,omitempty" db:"id"`
	CreatedAt       time.Time    `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at,omitempty" db:"updated_at"`
	Number          string       `json:"order_number" db:"number"`
	Type            OrderType    `json:"order_type" db:"type"`
	CustomerID      *string      `json:"customer_id,omitempty" db:"customer_id"`
	CustomerName    *string      `json:"customer_name,omitempty" db:"customer_name"`
	TableNumber     *int         `json:"table_number,omitempty" db:"table_number"`
	RiderID         *string      `json:"rider_id,omitempty" db:"rider_id"`
	RiderName       *string      `json:"rider_name,omitempty" db:"rider_name"`
	DeliveryAddress *string      `json:"delivery_address,omitempty" db:"delivery_address"`
	Items           []OrderItem  `json:"items"`
	DiscountValue   float64      `json:"discount_value" db:"discount_value"`
	DiscountKind    DiscountKind `json:"discount_kind" db:"discount_kind"`
	TaxRatePct      float64      `json:"tax_rate_pct" db:"tax_rate_pct"`
	Totals          Totals       `json:"totals"`
	Status          OrderStatus  `json:"status" db:"status"`
	CashierName     string       `json:"cashier_name" db:"cashier_name"`
	CompletedAt     *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
}

// AddItemRequest is the body for adding one unit of a product to a cart
type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

// Validate validates the add item request
func (r *AddItemRequest) Validate() error {
	if r.ProductID == "" {
		return fmt.Errorf("product_id is required")
	}
	return nil
}

// UpdateQuantityRequest is the body for setting a line's quantity.
// Zero or negative quantities remove the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetOrderTypeRequest is the body for switching the fulfillment channel
type SetOrderTypeRequest struct {
	OrderType string `json:"order_type"`
}

// Validate validates the set order type request
func (r *SetOrderTypeRequest) Validate() error {
	if !OrderType(r.OrderType).Valid() {
		return fmt.Errorf("order_type must be one of: dine_in, take_away, delivery")
	}
	return nil
}

// SetTableRequest is the body for assigning a table to a dine-in cart
type SetTableRequest struct {
	TableNumber *int `json:"table_number"`
}

// Validate validates the set table request
func (r *SetTableRequest) Validate() error {
	if r.TableNumber != nil && (*r.TableNumber < 1 || *r.TableNumber > 100) {
		return fmt.Errorf("table_number must be between 1 and 100")
	}
	return nil
}

// SetCustomerRequest is the body for associating a customer with a cart
type SetCustomerRequest struct {
	CustomerID *string `json:"customer_id"`
}

// SetRiderRequest is the body for assigning a rider to a delivery cart
type SetRiderRequest struct {
	RiderID *string `json:"rider_id"`
}

// SetAddressRequest is the body for setting a delivery address
type SetAddressRequest struct {
	Address string `json:"address"`
}

// SetDiscountRequest is the body for replacing the cart's discount spec
type SetDiscountRequest struct {
	Amount float64 `json:"amount"`
	Kind   string  `json:"kind"`
}

// Validate validates the set discount request
func (r *SetDiscountRequest) Validate() error {
	if !DiscountKind(r.Kind).Valid() {
		return fmt.Errorf("kind must be one of: percentage, fixed")
	}
	if r.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	if DiscountKind(r.Kind) == DiscountPercentage && r.Amount > 100 {
		return fmt.Errorf("percentage amount must not exceed 100")
	}
	return nil
}

// CheckoutRequest is the body for submitting the current cart as an order
type CheckoutRequest struct {
	CashierName string `json:"cashier_name"`
}

// Validate validates the checkout request
func (r *CheckoutRequest) Validate() error {
	return validateCashierName(r.CashierName)
}

// CheckoutResponse is returned after an order has been submitted
type CheckoutResponse struct {
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	Totals      Totals `json:"totals"`
}

// validateCashierName validates the cashier name field
func validateCashierName(name string) error {
	if len(name) == 0 {
		return fmt.Errorf("cashier_name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("cashier_name must not exceed 100 characters")
	}

	// Allow letters, spaces, hyphens, and apostrophes
	validNamePattern := regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
	if !validNamePattern.MatchString(name) {
		return fmt.Errorf("cashier_name contains invalid characters")
	}

	return nil
}

// GenerateOrderNumber generates a unique order number in format ORD_YYYYMMDD_NNN
func GenerateOrderNumber(date time.Time, sequence int) string {
	return fmt.Sprintf("ORD_%s_%03d", date.Format("20060102"), sequence)
}

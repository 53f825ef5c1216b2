package pos

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"pos-system/internal/cart"
	"pos-system/internal/config"
	"pos-system/internal/logger"
	"pos-system/internal/models"
	"pos-system/internal/session"
)

var (
	// ErrCartNotFound is returned for unknown cart session ids
	ErrCartNotFound = errors.New("cart not found")
	// ErrEmptyCart is returned when checkout is attempted on an empty cart
	ErrEmptyCart = errors.New("cart is empty")
)

// ProductSource supplies catalog records for add-item requests
type ProductSource interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// CustomerDirectory resolves customer and rider associations
type CustomerDirectory interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	GetRider(ctx context.Context, id string) (*models.Rider, error)
	RecordVisit(ctx context.Context, id string) error
}

// OrderStore persists submitted orders and serves them back for editing
type OrderStore interface {
	NextSequence(ctx context.Context, date time.Time) (int, error)
	SubmitOrder(ctx context.Context, order *models.Order) error
	GetOrderByNumber(ctx context.Context, number string) (*models.Order, error)
}

// TicketPublisher publishes kitchen tickets and receipt copies
type TicketPublisher interface {
	PublishTicket(ctx context.Context, ticket interface{}, orderType string) error
	PublishReceipt(ctx context.Context, receipt interface{}) error
}

// HeldCartStore parks and resumes cart snapshots
type HeldCartStore interface {
	Hold(ctx context.Context, id, label string, snap cart.Snapshot) error
	Resume(ctx context.Context, id string) (*session.HeldCart, error)
	List(ctx context.Context) ([]session.HeldCart, error)
}

// Service owns the active cart sessions and orchestrates the engine's
// collaborators: catalog, customer directory, order store, held-cart
// store and ticket publisher. One cart per till session; the registry
// lock only guards the session map, never a cart's internals.
type Service struct {
	catalog   ProductSource
	directory CustomerDirectory
	orders    OrderStore
	publisher TicketPublisher
	held      HeldCartStore
	logger    *logger.Logger
	pricing   config.PricingConfig

	mu    sync.Mutex
	carts map[string]*cart.Cart
}

// NewService creates the POS service
func NewService(catalog ProductSource, directory CustomerDirectory, orders OrderStore,
	publisher TicketPublisher, held HeldCartStore, log *logger.Logger, pricing config.PricingConfig) *Service {
	return &Service{
		catalog:   catalog,
		directory: directory,
		orders:    orders,
		publisher: publisher,
		held:      held,
		logger:    log,
		pricing:   pricing,
		carts:     make(map[string]*cart.Cart),
	}
}

// CreateCart opens a new till session and returns its id
func (s *Service) CreateCart() (string, cart.Snapshot) {
	id := uuid.NewString()
	c := cart.NewWithRates(s.pricing.TaxRatePct, s.pricing.DeliveryFee)

	s.mu.Lock()
	s.carts[id] = c
	s.mu.Unlock()

	return id, c.Snapshot()
}

// CloseCart drops a till session
func (s *Service) CloseCart(id string) {
	s.mu.Lock()
	delete(s.carts, id)
	s.mu.Unlock()
}

func (s *Service) getCart(id string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[id]
	if !ok {
		return nil, ErrCartNotFound
	}
	return c, nil
}

// GetSnapshot returns the current state of a cart session
func (s *Service) GetSnapshot(cartID string) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	return c.Snapshot(), nil
}

// AddItem resolves the product and adds one unit of it to the cart
func (s *Service) AddItem(ctx context.Context, cartID, productID string) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return cart.Snapshot{}, fmt.Errorf("failed to resolve product: %w", err)
	}

	c.AddItem(*product)
	return c.Snapshot(), nil
}

// UpdateQuantity sets a line's quantity; zero or below removes the line
func (s *Service) UpdateQuantity(cartID, productID string, quantity int) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	c.UpdateQuantity(productID, quantity)
	return c.Snapshot(), nil
}

// RemoveItem removes a line from the cart
func (s *Service) RemoveItem(cartID, productID string) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	c.RemoveItem(productID)
	return c.Snapshot(), nil
}

// SetCustomer associates a customer with the cart, or clears it on nil
func (s *Service) SetCustomer(ctx context.Context, cartID string, customerID *string) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	if customerID == nil {
		c.SetCustomer(nil)
		return c.Snapshot(), nil
	}

	customer, err := s.directory.GetCustomer(ctx, *customerID)
	if err != nil {
		return cart.Snapshot{}, fmt.Errorf("failed to resolve customer: %w", err)
	}
	c.SetCustomer(customer)
	return c.Snapshot(), nil
}

// SetOrderType switches the cart's fulfillment channel
func (s *Service) SetOrderType(cartID string, orderType models.OrderType) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	c.SetOrderType(orderType)
	return c.Snapshot(), nil
}

// SetTable assigns a table to a dine-in cart
func (s *Service) SetTable(cartID string, tableNumber *int) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	c.SetTableNumber(tableNumber)
	return c.Snapshot(), nil
}

// SetRider assigns a rider to a delivery cart, or clears it on nil
func (s *Service) SetRider(ctx context.Context, cartID string, riderID *string) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	if riderID == nil {
		c.SetRider(nil)
		return c.Snapshot(), nil
	}

	rider, err := s.directory.GetRider(ctx, *riderID)
	if err != nil {
		return cart.Snapshot{}, fmt.Errorf("failed to resolve rider: %w", err)
	}
	c.SetRider(rider)
	return c.Snapshot(), nil
}

// SetAddress sets the delivery address of a delivery cart
func (s *Service) SetAddress(cartID string, address *string) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	c.SetDeliveryAddress(address)
	return c.Snapshot(), nil
}

// SetDiscount replaces the cart's discount spec
func (s *Service) SetDiscount(cartID string, amount float64, kind models.DiscountKind) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	c.SetDiscount(amount, kind)
	return c.Snapshot(), nil
}

// ClearCart resets the cart to empty
func (s *Service) ClearCart(cartID string) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}
	c.Clear()
	return c.Snapshot(), nil
}

// Checkout persists the cart as an order, publishes the kitchen ticket
// and receipt copy, and clears the cart on success
func (s *Service) Checkout(ctx context.Context, cartID, cashierName, requestID string) (*models.CheckoutResponse, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return nil, err
	}

	snap := c.Snapshot()
	if len(snap.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now().UTC()
	sequence, err := s.orders.NextSequence(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get next order sequence: %w", err)
	}

	order := orderFromSnapshot(snap, s.pricing.TaxRatePct)
	order.Number = models.GenerateOrderNumber(now, sequence)
	order.Status = models.StatusOpen
	order.CashierName = cashierName

	if err := s.orders.SubmitOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if snap.Customer != nil {
		if err := s.directory.RecordVisit(ctx, snap.Customer.ID); err != nil {
			s.logger.Error("visit_record_failed", "Failed to record customer visit", requestID, err,
				map[string]interface{}{"customer_id": snap.Customer.ID})
		}
	}

	if err := s.publisher.PublishTicket(ctx, models.TicketFromOrder(order), string(order.Type)); err != nil {
		return nil, fmt.Errorf("failed to publish kitchen ticket: %w", err)
	}

	// receipt copies are best effort; the order already stands
	if err := s.publisher.PublishReceipt(ctx, models.ReceiptFromOrder(order)); err != nil {
		s.logger.Error("receipt_publish_failed", "Failed to publish receipt copy", requestID, err,
			map[string]interface{}{"order_number": order.Number})
	}

	c.Clear()

	s.logger.Info("order_submitted", fmt.Sprintf("Order %s submitted", order.Number), requestID,
		map[string]interface{}{
			"order_number": order.Number,
			"order_type":   order.Type,
			"total":        order.Totals.Total,
		})

	return &models.CheckoutResponse{
		OrderNumber: order.Number,
		Status:      string(order.Status),
		Totals:      order.Totals,
	}, nil
}

// HoldCart parks the cart snapshot in the held-cart store and clears
// the till for the next order
func (s *Service) HoldCart(ctx context.Context, cartID, label string) (string, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return "", err
	}

	snap := c.Snapshot()
	if len(snap.Lines) == 0 {
		return "", ErrEmptyCart
	}

	holdID := uuid.NewString()
	if err := s.held.Hold(ctx, holdID, label, snap); err != nil {
		return "", fmt.Errorf("failed to hold cart: %w", err)
	}

	c.Clear()
	return holdID, nil
}

// ResumeCart restores a held snapshot into the till's cart
func (s *Service) ResumeCart(ctx context.Context, cartID, holdID string) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	held, err := s.held.Resume(ctx, holdID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	c.Load(held.Snapshot)
	return c.Snapshot(), nil
}

// ListHeldCarts returns all currently parked carts
func (s *Service) ListHeldCarts(ctx context.Context) ([]session.HeldCart, error) {
	return s.held.List(ctx)
}

// LoadOrder replaces the cart with a persisted order's contents so an
// ongoing order can be edited. Totals are re-derived through the same
// projection as the incremental path.
func (s *Service) LoadOrder(ctx context.Context, cartID, orderNumber string) (cart.Snapshot, error) {
	c, err := s.getCart(cartID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	order, err := s.orders.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return cart.Snapshot{}, fmt.Errorf("failed to load order: %w", err)
	}

	c.Load(snapshotFromOrder(order))
	return c.Snapshot(), nil
}

// ListProducts returns the catalog for menu display
func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.catalog.ListProducts(ctx)
}

// ListCustomers returns the customer directory
func (s *Service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.directory.ListCustomers(ctx)
}

// orderFromSnapshot builds the persistable order record from cart state
func orderFromSnapshot(snap cart.Snapshot, taxRatePct float64) *models.Order {
	order := &models.Order{
		Type:            snap.OrderType,
		TableNumber:     snap.TableNumber,
		DeliveryAddress: snap.DeliveryAddress,
		DiscountValue:   snap.Discount.Amount,
		DiscountKind:    snap.Discount.Kind,
		TaxRatePct:      taxRatePct,
		Totals:          snap.Totals,
		CreatedAt:       time.Now().UTC(),
	}

	if snap.Customer != nil {
		order.CustomerID = &snap.Customer.ID
		order.CustomerName = &snap.Customer.Name
	}
	if snap.Rider != nil {
		order.RiderID = &snap.Rider.ID
		order.RiderName = &snap.Rider.Name
	}

	order.Items = make([]models.OrderItem, len(snap.Lines))
	for i, line := range snap.Lines {
		order.Items[i] = models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		}
	}
	return order
}

// snapshotFromOrder rebuilds a cart snapshot from a persisted order
func snapshotFromOrder(order *models.Order) cart.Snapshot {
	snap := cart.Snapshot{
		OrderType:       order.Type,
		TableNumber:     order.TableNumber,
		DeliveryAddress: order.DeliveryAddress,
		Discount: cart.DiscountSpec{
			Amount: order.DiscountValue,
			Kind:   order.DiscountKind,
		},
	}

	if order.CustomerID != nil {
		customer := models.Customer{ID: *order.CustomerID}
		if order.CustomerName != nil {
			customer.Name = *order.CustomerName
		}
		snap.Customer = &customer
	}
	if order.RiderID != nil {
		rider := models.Rider{ID: *order.RiderID}
		if order.RiderName != nil {
			rider.Name = *order.RiderName
		}
		snap.Rider = &rider
	}

	snap.Lines = make([]cart.Line, len(order.Items))
	for i, item := range order.Items {
		snap.Lines[i] = cart.Line{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}
	}
	return snap
}

package pos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pos-system/internal/database"
	"pos-system/internal/models"
)

// ErrOrderNotFound is returned when an order number is unknown
var ErrOrderNotFound = errors.New("order not found")

// Repository persists submitted orders in PostgreSQL
type Repository struct {
	db *database.DB
}

// NewRepository creates the order repository
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// NextSequence returns the next order sequence number for the given day
func (r *Repository) NextSequence(ctx context.Context, date time.Time) (int, error) {
	pattern := fmt.Sprintf("ORD_%s_%%", date.Format("20060102"))

	var sequence int
	err := r.db.QueryRow(ctx, database.GetNextOrderNumberSQL, pattern).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to query order sequence: %w", err)
	}
	return sequence, nil
}

// SubmitOrder inserts the order, its items and the initial status row in
// one transaction, filling in the generated id and timestamp
func (r *Repository) SubmitOrder(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		order.Number, order.Type, order.CustomerID, order.CustomerName,
		order.TableNumber, order.RiderID, order.RiderName, order.DeliveryAddress,
		order.Totals.Subtotal, order.DiscountValue, order.DiscountKind,
		order.Totals.DiscountAmount, order.TaxRatePct, order.Totals.TaxAmount,
		order.Totals.DeliveryFee, order.Totals.Total, order.Status, order.CashierName,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		_, err = tx.Exec(ctx, database.InsertOrderItemSQL,
			order.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.LineTotal)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	_, err = tx.Exec(ctx, database.InsertOrderStatusLogSQL, order.ID, order.Status, order.CashierName)
	if err != nil {
		return fmt.Errorf("failed to insert status log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// GetOrderByNumber fetches an order with its items for editing
func (r *Repository) GetOrderByNumber(ctx context.Context, number string) (*models.Order, error) {
	var o models.Order
	err := r.db.QueryRow(ctx, database.GetOrderByNumberSQL, number).Scan(
		&o.ID, &o.Number, &o.Type, &o.CustomerID, &o.CustomerName, &o.TableNumber,
		&o.RiderID, &o.RiderName, &o.DeliveryAddress, &o.Totals.Subtotal,
		&o.DiscountValue, &o.DiscountKind, &o.Totals.DiscountAmount, &o.TaxRatePct,
		&o.Totals.TaxAmount, &o.Totals.DeliveryFee, &o.Totals.Total, &o.Status,
		&o.CashierName, &o.CreatedAt, &o.UpdatedAt, &o.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	rows, err := r.db.Query(ctx, database.GetOrderItemsSQL, o.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

package database

// Catalog queries
const (
	ListProductsSQL = `
		SELECT id, name, price, category, image_url, active, created_at
		FROM products
		WHERE active = true
		ORDER BY category, name`

	GetProductSQL = `
		SELECT id, name, price, category, image_url, active, created_at
		FROM products WHERE id = $1`
)

// Customer and rider queries
const (
	ListCustomersSQL = `
		SELECT id, name, phone, visits, last_visit, created_at
		FROM customers
		ORDER BY name`

	GetCustomerSQL = `
		SELECT id, name, phone, visits, last_visit, created_at
		FROM customers WHERE id = $1`

	RecordCustomerVisitSQL = `
		UPDATE customers SET visits = visits + 1, last_visit = NOW()
		WHERE id = $1`

	GetRiderSQL = `
		SELECT id, name, phone, active, created_at
		FROM riders WHERE id = $1`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (number, type, customer_id, customer_name, table_number,
			rider_id, rider_name, delivery_address, subtotal, discount_value,
			discount_kind, discount_amount, tax_rate_pct, tax_amount, delivery_fee,
			total, status, cashier_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`

	InsertOrderStatusLogSQL = `
		INSERT INTO order_status_log (order_id, status, changed_by)
		VALUES ($1, $2, $3)`

	GetOrderByNumberSQL = `
		SELECT id, number, type, customer_id, customer_name, table_number,
			rider_id, rider_name, delivery_address, subtotal, discount_value,
			discount_kind, discount_amount, tax_rate_pct, tax_amount, delivery_fee,
			total, status, cashier_name, created_at, updated_at, completed_at
		FROM orders WHERE number = $1`

	GetOrderItemsSQL = `
		SELECT id, order_id, product_id, name, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY id ASC`

	GetNextOrderNumberSQL = `
		SELECT COALESCE(MAX(CAST(SUBSTRING(number FROM 'ORD_[0-9]{8}_([0-9]{3})') AS INTEGER)), 0) + 1
		FROM orders
		WHERE number LIKE $1`
)

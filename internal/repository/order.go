package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easygroceries/grocery-api/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (customer_id, order_date, total_amount, shipping_address)
		VALUES ($1, $2, $3, $4)
		RETURNING order_id`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, discounted_price)
		VALUES ($1, $2, $3, $4)`

	getOrderByIDSQL = `SELECT order_id, customer_id, order_date, total_amount, shipping_address
		FROM orders WHERE order_id = $1`

	listPhysicalItemsSQL = `SELECT p.product_name, p.product_desc, oi.quantity
		FROM order_items oi
		JOIN products p ON p.product_id = oi.product_id
		WHERE oi.order_id = $1 AND p.is_physical
		ORDER BY oi.order_item_id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts the order row and returns the assigned order ID. Items are
// not written here; see CreateItems.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, insertOrderSQL,
		o.CustomerID, o.OrderDate, o.TotalAmount, o.ShippingAddress,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert order")
	}
	return id, nil
}

// CreateItems inserts all order items in a single batch round trip.
func (r *OrderRepository) CreateItems(ctx context.Context, items []order.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(insertOrderItemSQL, it.OrderID, it.ProductID, it.Quantity, it.DiscountedPrice)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer func() { _ = br.Close() }()

	for range items {
		if _, err := br.Exec(); err != nil {
			return errors.Wrap(err, "insert order item")
		}
	}
	return nil
}

// GetByID returns a single order by its identifier. The Items slice is not
// populated; item access goes through ListPhysicalItems.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	err := r.pool.QueryRow(ctx, getOrderByIDSQL, id).Scan(
		&o.ID, &o.CustomerID, &o.OrderDate, &o.TotalAmount, &o.ShippingAddress,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %d", id)
	}
	return &o, nil
}

// ListPhysicalItems returns the order's items joined to their products,
// keeping physical products only.
func (r *OrderRepository) ListPhysicalItems(ctx context.Context, orderID int64) ([]order.ShippingSlipItem, error) {
	rows, err := r.pool.Query(ctx, listPhysicalItemsSQL, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "list items for order %d", orderID)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.ShippingSlipItem, error) {
		var it order.ShippingSlipItem
		err := row.Scan(&it.ProductName, &it.Description, &it.Quantity)
		return it, err
	})
}

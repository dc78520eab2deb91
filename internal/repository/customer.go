package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easygroceries/grocery-api/internal/domain/customer"
)

const (
	getCustomerIDByEmailSQL = `SELECT customer_id FROM customers WHERE email_address = $1`

	insertCustomerSQL = `INSERT INTO customers (customer_name, email_address, customer_address)
		VALUES ($1, NULLIF($2, ''), $3)
		RETURNING customer_id`

	listCustomersSQL = `SELECT customer_id, customer_name, email_address, customer_address, is_active, created_date
		FROM customers WHERE is_active`

	getCustomerByIDSQL = `SELECT customer_id, customer_name, email_address, customer_address, is_active, created_date
		FROM customers WHERE is_active AND customer_id = $1`
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Add inserts a customer and returns the assigned ID. When a customer with
// the same email already exists, the existing ID is returned instead. A
// concurrent insert losing the race on the unique email index falls back to
// looking the winner up.
func (r *CustomerRepository) Add(ctx context.Context, c *customer.Customer) (int64, error) {
	if c.Email != "" {
		id, err := r.findIDByEmail(ctx, c.Email)
		if err != nil {
			return 0, err
		}
		if id > 0 {
			return id, nil
		}
	}

	var id int64
	err := r.pool.QueryRow(ctx, insertCustomerSQL, c.Name, c.Email, c.Address).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return r.findIDByEmail(ctx, c.Email)
		}
		return 0, errors.Wrap(err, "insert customer")
	}
	return id, nil
}

// findIDByEmail returns the ID of the customer with the given email, or 0
// when no such customer exists.
func (r *CustomerRepository) findIDByEmail(ctx context.Context, email string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, getCustomerIDByEmailSQL, email).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "find customer by email %q", email)
	}
	return id, nil
}

// List returns all active customers.
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	rows, err := r.pool.Query(ctx, listCustomersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	return pgx.CollectRows(rows, scanCustomer)
}

// GetByID returns a single active customer by its identifier.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	rows, err := r.pool.Query(ctx, getCustomerByIDSQL, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get customer %d", id)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCustomer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get customer %d", id)
	}
	return &c, nil
}

func scanCustomer(row pgx.CollectableRow) (customer.Customer, error) {
	var (
		c     customer.Customer
		email *string
		addr  *string
	)
	err := row.Scan(&c.ID, &c.Name, &email, &addr, &c.IsActive, &c.CreatedAt)
	if email != nil {
		c.Email = *email
	}
	if addr != nil {
		c.Address = *addr
	}
	return c, err
}

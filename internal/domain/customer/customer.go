package customer

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested customer does not exist.
var ErrNotFound = errors.New("customer not found")

// Customer represents a shopper known to the store.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Address   string
	IsActive  bool
	CreatedAt time.Time
}

// Repository defines persistence operations for customers.
//
// Add is idempotent by email: when a customer with the same email address
// already exists, the existing customer's ID is returned instead of
// inserting a duplicate.
type Repository interface {
	Add(ctx context.Context, c *Customer) (int64, error)
	List(ctx context.Context) ([]Customer, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
}

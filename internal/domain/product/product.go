package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. Physical
// products appear on shipping slips; digital ones do not.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	IsPhysical  bool
	IsActive    bool
	CreatedAt   time.Time
}

// Repository defines persistence operations for the product catalog.
//
// Update reports ErrNotFound when no row matches the product's ID.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Add(ctx context.Context, p *Product) (int64, error)
	Update(ctx context.Context, p *Product) error
}

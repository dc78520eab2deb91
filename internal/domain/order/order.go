package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested order does not exist.
var ErrNotFound = errors.New("order not found")

// Order represents a completed checkout. Orders are written once and never
// modified afterwards.
type Order struct {
	ID              int64
	CustomerID      int64
	OrderDate       time.Time
	TotalAmount     decimal.Decimal
	ShippingAddress string
	Items           []OrderItem
}

// OrderItem is a single priced line of an order. ProductName is a
// denormalized copy of the product's name, carried for response building.
type OrderItem struct {
	ID              int64
	OrderID         int64
	ProductID       int64
	Quantity        int
	DiscountedPrice decimal.Decimal
	ProductName     string
}

// ShippingSlip is a read-only packing list for the physical goods of an
// order. Digital products never appear on it.
type ShippingSlip struct {
	OrderID         int64              `json:"orderId"`
	CustomerName    string             `json:"customerName"`
	ShippingAddress string             `json:"shippingAddress"`
	OrderDate       time.Time          `json:"orderDate"`
	Items           []ShippingSlipItem `json:"items"`
}

// ShippingSlipItem is one physical product line on a shipping slip.
type ShippingSlipItem struct {
	ProductName string `json:"productName"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// Repository defines persistence operations for orders and their items.
type Repository interface {
	// Create inserts the order row and returns the assigned order ID.
	// Items are persisted separately via CreateItems.
	Create(ctx context.Context, o *Order) (int64, error)
	// CreateItems inserts all order items in one batch.
	CreateItems(ctx context.Context, items []OrderItem) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	// ListPhysicalItems returns the order's items joined to their products,
	// filtered to physical products only.
	ListPhysicalItems(ctx context.Context, orderID int64) ([]ShippingSlipItem, error)
}

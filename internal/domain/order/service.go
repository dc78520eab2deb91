package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/easygroceries/grocery-api/internal/domain/customer"
	"github.com/easygroceries/grocery-api/internal/domain/product"
)

// Loyalty membership pricing. Membership applies a flat discount to every
// basket line and adds a fixed fee to the order total.
var (
	loyaltyMembershipPrice = decimal.RequireFromString("5.00")
	loyaltyDiscountRate    = decimal.RequireFromString("0.20")
)

// loyaltyLineName is the item line appended to responses when loyalty
// membership is part of the order.
const loyaltyLineName = "EasyGroceries loyalty membership"

// ErrNilRequest is returned when ProcessOrder is called without a request.
var ErrNilRequest = errors.New("checkout request required")

// ProductNotFoundError indicates a basket item references a product that
// does not exist.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// BasketItem is a (product, quantity) pair submitted at checkout.
type BasketItem struct {
	ProductID int64
	Quantity  int
}

// CustomerDetails carries the customer fields submitted at checkout.
type CustomerDetails struct {
	Name  string
	Email string
}

// CheckoutRequest holds the input for processing an order.
type CheckoutRequest struct {
	BasketItems              []BasketItem
	IncludeLoyaltyMembership bool
	ShippingAddress          string
	Customer                 *CustomerDetails
}

// ItemLine is a named line of the order response.
type ItemLine struct {
	Name     string
	Quantity int
}

// OrderResponse summarizes a processed order for the caller.
type OrderResponse struct {
	CustomerID  int64
	OrderNumber int64
	ItemLines   []ItemLine
	Total       decimal.Decimal
}

// CheckoutResult bundles the order response with the generated shipping slip.
type CheckoutResult struct {
	OrderResponse *OrderResponse
	ShippingSlip  *ShippingSlip
}

// Service encapsulates the checkout workflow and shipping slip generation.
type Service struct {
	customers customer.Repository
	products  product.Repository
	orders    Repository
}

// NewService creates an order Service with the required repositories.
func NewService(
	customers customer.Repository,
	products product.Repository,
	orders Repository,
) *Service {
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
	}
}

// ProcessOrder runs the full checkout workflow: it resolves the customer by
// email, prices every basket line, persists the order and its items, and
// returns the order response together with the shipping slip.
//
// The writes are sequential and not wrapped in a transaction: a failure
// partway through leaves earlier writes in place (the customer record
// persists even when a later basket item references a missing product).
func (s *Service) ProcessOrder(ctx context.Context, req *CheckoutRequest) (*CheckoutResult, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	// Resolve the customer. The shipping address is stored as the customer
	// address; the store returns the existing ID for a known email.
	cust := &customer.Customer{Address: req.ShippingAddress}
	if req.Customer != nil {
		cust.Name = req.Customer.Name
		cust.Email = req.Customer.Email
	}
	customerID, err := s.customers.Add(ctx, cust)
	if err != nil {
		return nil, errors.Wrap(err, "add customer")
	}

	// Price each basket line. The discount applies to the unit price, before
	// the quantity multiplication and summation.
	total := decimal.Zero
	items := make([]OrderItem, 0, len(req.BasketItems))
	for _, bi := range req.BasketItems {
		p, err := s.products.GetByID(ctx, bi.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, &ProductNotFoundError{ProductID: bi.ProductID}
			}
			return nil, errors.Wrapf(err, "get product %d", bi.ProductID)
		}

		discounted := p.Price
		if req.IncludeLoyaltyMembership {
			discounted = discounted.Mul(decimal.NewFromInt(1).Sub(loyaltyDiscountRate))
		}
		total = total.Add(discounted.Mul(decimal.NewFromInt(int64(bi.Quantity))))

		items = append(items, OrderItem{
			ProductID:       p.ID,
			Quantity:        bi.Quantity,
			DiscountedPrice: discounted,
			ProductName:     p.Name,
		})
	}

	// The membership fee applies even to an empty basket.
	if req.IncludeLoyaltyMembership {
		total = total.Add(loyaltyMembershipPrice)
	}

	o := &Order{
		CustomerID:      customerID,
		OrderDate:       time.Now().UTC(),
		TotalAmount:     total,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
	}
	orderID, err := s.orders.Create(ctx, o)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	for i := range items {
		items[i].OrderID = orderID
	}
	if err := s.orders.CreateItems(ctx, items); err != nil {
		return nil, errors.Wrapf(err, "create items for order %d", orderID)
	}

	lines := make([]ItemLine, 0, len(items)+1)
	for _, it := range items {
		name := it.ProductName
		if name == "" {
			name = "Unknown Product"
		}
		lines = append(lines, ItemLine{Name: name, Quantity: it.Quantity})
	}
	if req.IncludeLoyaltyMembership {
		lines = append(lines, ItemLine{Name: loyaltyLineName, Quantity: 1})
	}

	slip, err := s.GenerateShippingSlip(ctx, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "generate shipping slip for order %d", orderID)
	}

	return &CheckoutResult{
		OrderResponse: &OrderResponse{
			CustomerID:  customerID,
			OrderNumber: orderID,
			ItemLines:   lines,
			Total:       total,
		},
		ShippingSlip: slip,
	}, nil
}

// GenerateShippingSlip builds the packing list for an order: the order and
// its customer must both exist, and only physical products make it onto the
// item list.
func (s *Service) GenerateShippingSlip(ctx context.Context, orderID int64) (*ShippingSlip, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d", orderID)
	}

	cust, err := s.customers.GetByID(ctx, o.CustomerID)
	if err != nil {
		return nil, errors.Wrapf(err, "get customer %d", o.CustomerID)
	}

	items, err := s.orders.ListPhysicalItems(ctx, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "list physical items for order %d", orderID)
	}

	name := cust.Name
	if name == "" {
		name = "N/A"
	}
	address := cust.Address
	if address == "" {
		address = "N/A"
	}

	return &ShippingSlip{
		OrderID:         orderID,
		CustomerName:    name,
		ShippingAddress: address,
		OrderDate:       o.OrderDate,
		Items:           items,
	}, nil
}

// GetShippingSlip returns the shipping slip for an order. It is a plain
// pass-through to GenerateShippingSlip, kept as the query-surface entry
// point.
func (s *Service) GetShippingSlip(ctx context.Context, orderID int64) (*ShippingSlip, error) {
	return s.GenerateShippingSlip(ctx, orderID)
}

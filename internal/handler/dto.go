package handler

import (
	"github.com/shopspring/decimal"

	"github.com/easygroceries/grocery-api/internal/domain/customer"
	"github.com/easygroceries/grocery-api/internal/domain/order"
	"github.com/easygroceries/grocery-api/internal/domain/product"
)

// Money crosses the API boundary as JSON numbers; internally everything is
// decimal. Conversion happens only here.

// CustomerDTO is the API view of a customer.
type CustomerDTO struct {
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name"`
	Email      string `json:"email" validate:"omitempty,email"`
	Address    string `json:"address"`
}

// ProductDTO is the API view of a product.
type ProductDTO struct {
	ProductID   int64   `json:"productId"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	IsPhysical  bool    `json:"isPhysical"`
}

// BasketItemDTO is one (product, quantity) pair of a checkout request.
type BasketItemDTO struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int   `json:"quantity"`
}

// CheckoutRequestDTO is the body of POST /api/orders/checkout.
type CheckoutRequestDTO struct {
	BasketItems              []BasketItemDTO `json:"basketItems" validate:"omitempty,dive"`
	IncludeLoyaltyMembership bool            `json:"includeLoyaltyMembership"`
	ShippingAddress          string          `json:"shippingAddress"`
	Customer                 *CustomerDTO    `json:"customer" validate:"omitempty"`
}

// ItemLineDTO is one named line of an order response.
type ItemLineDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// OrderResponseDTO summarizes a processed order.
type OrderResponseDTO struct {
	CustomerID  int64         `json:"customerId"`
	OrderNumber int64         `json:"orderNumber"`
	ItemLines   []ItemLineDTO `json:"itemLines"`
	Total       float64       `json:"total"`
}

// CheckoutResponseDTO is the body returned by a successful checkout.
type CheckoutResponseDTO struct {
	OrderResponse *OrderResponseDTO   `json:"orderResponse"`
	ShippingSlip  *order.ShippingSlip `json:"shippingSlip"`
}

func toCustomerDTO(c *customer.Customer) CustomerDTO {
	return CustomerDTO{
		CustomerID: c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Address:    c.Address,
	}
}

func toProductDTO(p *product.Product) ProductDTO {
	return ProductDTO{
		ProductID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		IsPhysical:  p.IsPhysical,
	}
}

func (d *ProductDTO) toDomain() *product.Product {
	return &product.Product{
		ID:          d.ProductID,
		Name:        d.Name,
		Description: d.Description,
		Price:       decimal.NewFromFloat(d.Price),
		IsPhysical:  d.IsPhysical,
	}
}

func (d *CheckoutRequestDTO) toDomain() *order.CheckoutRequest {
	req := &order.CheckoutRequest{
		IncludeLoyaltyMembership: d.IncludeLoyaltyMembership,
		ShippingAddress:          d.ShippingAddress,
	}
	for _, bi := range d.BasketItems {
		req.BasketItems = append(req.BasketItems, order.BasketItem{
			ProductID: bi.ProductID,
			Quantity:  bi.Quantity,
		})
	}
	if d.Customer != nil {
		req.Customer = &order.CustomerDetails{
			Name:  d.Customer.Name,
			Email: d.Customer.Email,
		}
	}
	return req
}

func toCheckoutResponseDTO(res *order.CheckoutResult) CheckoutResponseDTO {
	resp := &OrderResponseDTO{
		CustomerID:  res.OrderResponse.CustomerID,
		OrderNumber: res.OrderResponse.OrderNumber,
		ItemLines:   make([]ItemLineDTO, 0, len(res.OrderResponse.ItemLines)),
		Total:       res.OrderResponse.Total.InexactFloat64(),
	}
	for _, line := range res.OrderResponse.ItemLines {
		resp.ItemLines = append(resp.ItemLines, ItemLineDTO{
			Name:     line.Name,
			Quantity: line.Quantity,
		})
	}
	return CheckoutResponseDTO{
		OrderResponse: resp,
		ShippingSlip:  res.ShippingSlip,
	}
}

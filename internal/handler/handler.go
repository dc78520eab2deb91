// Package handler implements the HTTP surface of the commerce API on top of
// the domain repositories and the checkout service.
package handler

import (
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/easygroceries/grocery-api/internal/domain/customer"
	"github.com/easygroceries/grocery-api/internal/domain/order"
	"github.com/easygroceries/grocery-api/internal/domain/product"
	"github.com/easygroceries/grocery-api/internal/validation"
)

// Handler holds the dependencies shared by all route handlers. CRUD routes
// talk to the repositories directly; checkout goes through the order service.
type Handler struct {
	customers customer.Repository
	products  product.Repository
	orders    *order.Service
	validate  *validatorv10.Validate
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	customers customer.Repository,
	products product.Repository,
	orders *order.Service,
) *Handler {
	return &Handler{
		customers: customers,
		products:  products,
		orders:    orders,
		validate:  validation.New(),
	}
}

// Routes registers all API routes on the given engine.
func (h *Handler) Routes(r *gin.Engine) {
	api := r.Group("/api")

	customers := api.Group("/customers")
	customers.POST("/addnew", h.AddNewCustomer)
	customers.GET("/getall", h.GetAllCustomers)
	customers.GET("/getbyid/:id", h.GetCustomerByID)

	products := api.Group("/products")
	products.GET("/productslist", h.ProductsList)
	products.GET("/getbyid/:id", h.GetProductByID)
	products.POST("/addnew", h.AddNewProduct)
	products.PUT("/update", h.UpdateProduct)

	orders := api.Group("/orders")
	orders.POST("/checkout", h.Checkout)
	orders.GET("/getshippingslip/:orderid", h.GetShippingSlip)
}

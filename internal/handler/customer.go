package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/easygroceries/grocery-api/internal/domain/customer"
	"github.com/easygroceries/grocery-api/internal/validation"
)

// AddNewCustomer handles POST /api/customers/addnew. Adding is idempotent by
// email: a repeated add with a known email returns the existing customer.
func (h *Handler) AddNewCustomer(c *gin.Context) {
	var dto CustomerDTO
	if err := validation.BindAndValidate(c, &dto, h.validate); err != nil {
		return
	}

	id, err := h.customers.Add(c.Request.Context(), &customer.Customer{
		Name:    dto.Name,
		Email:   dto.Email,
		Address: dto.Address,
	})
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal server error: %s", err.Error())
		return
	}

	created, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal server error: %s", err.Error())
		return
	}
	c.JSON(http.StatusOK, toCustomerDTO(created))
}

// GetAllCustomers handles GET /api/customers/getall.
func (h *Handler) GetAllCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal server error: %s", err.Error())
		return
	}

	dtos := make([]CustomerDTO, 0, len(customers))
	for i := range customers {
		dtos = append(dtos, toCustomerDTO(&customers[i]))
	}
	c.JSON(http.StatusOK, dtos)
}

// GetCustomerByID handles GET /api/customers/getbyid/:id.
func (h *Handler) GetCustomerByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid request.")
		return
	}

	cust, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			c.String(http.StatusNotFound, "Customer with ID %d not found.", id)
			return
		}
		c.String(http.StatusInternalServerError, "Internal server error: %s", err.Error())
		return
	}
	c.JSON(http.StatusOK, toCustomerDTO(cust))
}

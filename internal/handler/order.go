package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/easygroceries/grocery-api/internal/domain/customer"
	"github.com/easygroceries/grocery-api/internal/domain/order"
	"github.com/easygroceries/grocery-api/internal/validation"
)

// Checkout handles POST /api/orders/checkout.
func (h *Handler) Checkout(c *gin.Context) {
	var dto CheckoutRequestDTO
	if err := validation.BindAndValidate(c, &dto, h.validate); err != nil {
		return
	}

	res, err := h.orders.ProcessOrder(c.Request.Context(), dto.toDomain())
	if err != nil {
		c.String(http.StatusInternalServerError, "Error processing order: %s", err.Error())
		return
	}
	c.JSON(http.StatusOK, toCheckoutResponseDTO(res))
}

// GetShippingSlip handles GET /api/orders/getshippingslip/:orderid.
//
// A miss responds 200 with a null body rather than 404. Existing clients
// depend on this contract, so it is kept as is.
func (h *Handler) GetShippingSlip(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("orderid"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid request.")
		return
	}

	slip, err := h.orders.GetShippingSlip(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) || errors.Is(err, customer.ErrNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.String(http.StatusInternalServerError, "Error processing order: %s", err.Error())
		return
	}
	c.JSON(http.StatusOK, slip)
}

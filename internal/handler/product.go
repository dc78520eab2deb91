package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/easygroceries/grocery-api/internal/domain/product"
	"github.com/easygroceries/grocery-api/internal/validation"
)

// ProductsList handles GET /api/products/productslist.
func (h *Handler) ProductsList(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal server error: %s", err.Error())
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, toProductDTO(&products[i]))
	}
	c.JSON(http.StatusOK, dtos)
}

// GetProductByID handles GET /api/products/getbyid/:id.
func (h *Handler) GetProductByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid request.")
		return
	}

	p, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.String(http.StatusNotFound, "Product with ID %d not found.", id)
			return
		}
		c.String(http.StatusInternalServerError, "Internal server error: %s", err.Error())
		return
	}
	c.JSON(http.StatusOK, toProductDTO(p))
}

// AddNewProduct handles POST /api/products/addnew.
func (h *Handler) AddNewProduct(c *gin.Context) {
	var dto ProductDTO
	if err := validation.BindAndValidate(c, &dto, h.validate); err != nil {
		return
	}

	p := dto.toDomain()
	id, err := h.products.Add(c.Request.Context(), p)
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal server error: %s", err.Error())
		return
	}

	p.ID = id
	c.JSON(http.StatusOK, toProductDTO(p))
}

// UpdateProduct handles PUT /api/products/update. An update targeting an
// unknown product ID responds 200 with a null body rather than 404.
func (h *Handler) UpdateProduct(c *gin.Context) {
	var dto ProductDTO
	if err := validation.BindAndValidate(c, &dto, h.validate); err != nil {
		return
	}

	p := dto.toDomain()
	if err := h.products.Update(c.Request.Context(), p); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.String(http.StatusInternalServerError, "Internal server error: %s", err.Error())
		return
	}
	c.JSON(http.StatusOK, toProductDTO(p))
}

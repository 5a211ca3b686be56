package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"autostock/internal/service"
)

// ProductHandler handles catalog read endpoints.
type ProductHandler struct {
	inventory service.InventoryService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(inventory service.InventoryService) *ProductHandler {
	return &ProductHandler{inventory: inventory}
}

// List handles GET /api/v1/products with optional search and pagination.
func (h *ProductHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	search := c.Query("search")

	result, err := h.inventory.ListProducts(c.Request.Context(), search, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, result.Products, PagMeta{
		Total:  result.Total,
		Offset: result.Offset,
		Limit:  result.Limit,
	})
}

// Get handles GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid product id")
		return
	}

	product, err := h.inventory.GetProduct(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, product)
}

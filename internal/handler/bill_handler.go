package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"autostock/internal/billexport"
	"autostock/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BillHandler handles vendor and vendor-bill endpoints.
type BillHandler struct {
	inventory service.InventoryService
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(inventory service.InventoryService) *BillHandler {
	return &BillHandler{inventory: inventory}
}

// ListVendors handles GET /api/v1/vendors
func (h *BillHandler) ListVendors(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	vendors, total, err := h.inventory.ListVendors(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, vendors, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListBills handles GET /api/v1/bills with optional vendor_id filter.
func (h *BillHandler) ListBills(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var vendorID *uuid.UUID
	if raw := c.Query("vendor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid vendor id")
			return
		}
		vendorID = &id
	}

	result, err := h.inventory.ListBills(c.Request.Context(), vendorID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, result.Bills, PagMeta{
		Total:  result.Total,
		Offset: result.Offset,
		Limit:  result.Limit,
	})
}

// GetBill handles GET /api/v1/bills/:id
func (h *BillHandler) GetBill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill id")
		return
	}

	detail, err := h.inventory.GetBill(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, detail)
}

// Export handles GET /api/v1/bills/export, streaming the full bill register
// as an xlsx workbook.
func (h *BillHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.inventory.ExportBillRegister(c.Request.Context(), &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := billexport.BuildFilename("bill_register")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

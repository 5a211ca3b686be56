package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autostock/internal/domain"
	"autostock/internal/handler"
	"autostock/internal/service"
	"autostock/mocks"
)

func TestProductHandler_List(t *testing.T) {
	inventory := new(mocks.MockInventoryService)
	h := handler.NewProductHandler(inventory)

	inventory.On("ListProducts", mock.Anything, "brake", 0, 20).
		Return(&service.ProductListResult{
			Products: []domain.Product{{ID: uuid.New(), Name: "Brake Pad", CurrentStock: decimal.NewFromInt(10)}},
			Total:    1,
			Offset:   0,
			Limit:    20,
		}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/products?search=brake", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	inventory.AssertExpectations(t)
}

func TestProductHandler_Get_InvalidID(t *testing.T) {
	h := handler.NewProductHandler(new(mocks.MockInventoryService))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	inventory := new(mocks.MockInventoryService)
	h := handler.NewProductHandler(inventory)

	id := uuid.New()
	inventory.On("GetProduct", mock.Anything, id).Return(nil, domain.ErrProductNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/products/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBillHandler_ListBills_VendorFilter(t *testing.T) {
	inventory := new(mocks.MockInventoryService)
	h := handler.NewBillHandler(inventory)

	vendorID := uuid.New()
	inventory.On("ListBills", mock.Anything, &vendorID, 0, 20).
		Return(&service.BillListResult{
			Bills:  []domain.VendorBill{{ID: uuid.New(), VendorID: vendorID, BillNumber: "INV-001"}},
			Total:  1,
			Offset: 0,
			Limit:  20,
		}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills?vendor_id="+vendorID.String(), nil)

	h.ListBills(c)

	assert.Equal(t, http.StatusOK, w.Code)
	inventory.AssertExpectations(t)
}

func TestBillHandler_Export(t *testing.T) {
	inventory := new(mocks.MockInventoryService)
	h := handler.NewBillHandler(inventory)

	inventory.On("ExportBillRegister", mock.Anything, mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills/export", nil)

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
}

package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"autostock/internal/config"
	"autostock/internal/domain"
	"autostock/internal/service"
	"autostock/mocks"
)

type inventoryMocks struct {
	products  *mocks.MockProductRepo
	vendors   *mocks.MockVendorRepo
	bills     *mocks.MockVendorBillRepo
	billItems *mocks.MockBillItemRepo
	storage   *mocks.MockObjectStorage
}

func newInventoryService() (service.InventoryService, *inventoryMocks) {
	m := &inventoryMocks{
		products:  new(mocks.MockProductRepo),
		vendors:   new(mocks.MockVendorRepo),
		bills:     new(mocks.MockVendorBillRepo),
		billItems: new(mocks.MockBillItemRepo),
		storage:   new(mocks.MockObjectStorage),
	}
	cfg := config.S3Config{Bucket: "test-bucket", PresignExpiry: 3600}
	svc := service.NewInventoryService(m.products, m.vendors, m.bills, m.billItems, m.storage, cfg)
	return svc, m
}

func TestInventoryService_ListProducts_ClampsPaging(t *testing.T) {
	svc, m := newInventoryService()

	m.products.On("List", mock.Anything, "brake", 0, 20).
		Return([]domain.Product{{ID: uuid.New(), Name: "Brake Pad"}}, 1, nil)

	result, err := svc.ListProducts(context.Background(), "brake", -5, 500)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 0, result.Offset)
	assert.Equal(t, 20, result.Limit)
	m.products.AssertExpectations(t)
}

func TestInventoryService_GetBill_WithPhoto(t *testing.T) {
	svc, m := newInventoryService()
	billID := uuid.New()
	photoKey := "bills/vendor_x_bill_y.jpg"

	m.bills.On("GetByID", mock.Anything, billID).
		Return(&domain.VendorBill{ID: billID, BillNumber: "INV-001", PhotoKey: &photoKey}, nil)
	m.billItems.On("ListByBill", mock.Anything, billID).
		Return([]domain.BillItem{{ID: uuid.New(), VendorBillID: billID, Quantity: decimal.NewFromInt(5)}}, nil)
	m.storage.On("GetPresignedURL", mock.Anything, "test-bucket", photoKey, int64(3600)).
		Return("https://signed.example/photo", nil)

	detail, err := svc.GetBill(context.Background(), billID)

	require.NoError(t, err)
	assert.Equal(t, "INV-001", detail.Bill.BillNumber)
	assert.Len(t, detail.Items, 1)
	assert.Equal(t, "https://signed.example/photo", detail.PhotoURL)
}

func TestInventoryService_GetBill_PresignFailureIsNotFatal(t *testing.T) {
	svc, m := newInventoryService()
	billID := uuid.New()
	photoKey := "bills/gone.jpg"

	m.bills.On("GetByID", mock.Anything, billID).
		Return(&domain.VendorBill{ID: billID, PhotoKey: &photoKey}, nil)
	m.billItems.On("ListByBill", mock.Anything, billID).Return([]domain.BillItem{}, nil)
	m.storage.On("GetPresignedURL", mock.Anything, "test-bucket", photoKey, int64(3600)).
		Return("", errors.New("presign failed"))

	detail, err := svc.GetBill(context.Background(), billID)

	require.NoError(t, err)
	assert.Empty(t, detail.PhotoURL)
}

func TestInventoryService_GetBill_NotFound(t *testing.T) {
	svc, m := newInventoryService()
	billID := uuid.New()

	m.bills.On("GetByID", mock.Anything, billID).Return(nil, domain.ErrBillNotFound)

	_, err := svc.GetBill(context.Background(), billID)

	assert.ErrorIs(t, err, domain.ErrBillNotFound)
}

func TestInventoryService_ExportBillRegister(t *testing.T) {
	svc, m := newInventoryService()
	vendorID := uuid.New()

	m.bills.On("List", mock.Anything, 0, 100).Return([]domain.VendorBill{
		{ID: uuid.New(), VendorID: vendorID, BillNumber: "INV-001", TotalAmount: decimal.NewFromInt(708)},
	}, 1, nil)
	m.vendors.On("List", mock.Anything, 0, 100).Return([]domain.Vendor{
		{ID: vendorID, Name: "Sharma Auto Parts"},
	}, 1, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportBillRegister(context.Background(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Bill Register")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Sharma Auto Parts", rows[1][0])
	assert.Equal(t, "INV-001", rows[1][1])
}

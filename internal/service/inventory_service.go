package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"autostock/internal/billexport"
	"autostock/internal/config"
	"autostock/internal/domain"
	"autostock/internal/port"
)

// ProductListResult is a page of catalog products.
type ProductListResult struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
	Offset   int              `json:"offset"`
	Limit    int              `json:"limit"`
}

// BillListResult is a page of vendor bills.
type BillListResult struct {
	Bills  []domain.VendorBill `json:"bills"`
	Total  int                 `json:"total"`
	Offset int                 `json:"offset"`
	Limit  int                 `json:"limit"`
}

// BillDetail is a bill header with its line items and a short-lived photo URL.
type BillDetail struct {
	Bill     domain.VendorBill `json:"bill"`
	Items    []domain.BillItem `json:"items"`
	PhotoURL string            `json:"photo_url,omitempty"`
}

// InventoryService exposes read access to the catalog and the bill register.
type InventoryService interface {
	ListProducts(ctx context.Context, search string, offset, limit int) (*ProductListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListVendors(ctx context.Context, offset, limit int) ([]domain.Vendor, int, error)
	ListBills(ctx context.Context, vendorID *uuid.UUID, offset, limit int) (*BillListResult, error)
	GetBill(ctx context.Context, id uuid.UUID) (*BillDetail, error)
	ExportBillRegister(ctx context.Context, w io.Writer) error
}

type inventoryService struct {
	products  port.ProductRepository
	vendors   port.VendorRepository
	bills     port.VendorBillRepository
	billItems port.BillItemRepository
	storage   port.ObjectStorage
	s3cfg     config.S3Config
}

// NewInventoryService creates a new InventoryService implementation.
func NewInventoryService(
	products port.ProductRepository,
	vendors port.VendorRepository,
	bills port.VendorBillRepository,
	billItems port.BillItemRepository,
	storage port.ObjectStorage,
	s3cfg config.S3Config,
) InventoryService {
	return &inventoryService{
		products:  products,
		vendors:   vendors,
		bills:     bills,
		billItems: billItems,
		storage:   storage,
		s3cfg:     s3cfg,
	}
}

func (s *inventoryService) ListProducts(ctx context.Context, search string, offset, limit int) (*ProductListResult, error) {
	offset, limit = clampPage(offset, limit)
	products, total, err := s.products.List(ctx, search, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("inventory.ListProducts: %w", err)
	}
	return &ProductListResult{Products: products, Total: total, Offset: offset, Limit: limit}, nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *inventoryService) ListVendors(ctx context.Context, offset, limit int) ([]domain.Vendor, int, error) {
	offset, limit = clampPage(offset, limit)
	return s.vendors.List(ctx, offset, limit)
}

func (s *inventoryService) ListBills(ctx context.Context, vendorID *uuid.UUID, offset, limit int) (*BillListResult, error) {
	offset, limit = clampPage(offset, limit)

	var (
		bills []domain.VendorBill
		total int
		err   error
	)
	if vendorID != nil {
		bills, total, err = s.bills.ListByVendor(ctx, *vendorID, offset, limit)
	} else {
		bills, total, err = s.bills.List(ctx, offset, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("inventory.ListBills: %w", err)
	}
	return &BillListResult{Bills: bills, Total: total, Offset: offset, Limit: limit}, nil
}

func (s *inventoryService) GetBill(ctx context.Context, id uuid.UUID) (*BillDetail, error) {
	bill, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.billItems.ListByBill(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("inventory.GetBill items: %w", err)
	}

	detail := &BillDetail{Bill: *bill, Items: items}
	if bill.PhotoKey != nil {
		url, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, *bill.PhotoKey, s.s3cfg.PresignExpiry)
		if err == nil {
			detail.PhotoURL = url
		}
		// A presign failure only costs the photo link, not the bill.
	}
	return detail, nil
}

// ExportBillRegister streams the full bill register as an xlsx workbook,
// paging through the store so the whole table never sits in one query.
func (s *inventoryService) ExportBillRegister(ctx context.Context, w io.Writer) error {
	const pageSize = 100

	var bills []domain.VendorBill
	for offset := 0; ; offset += pageSize {
		page, total, err := s.bills.List(ctx, offset, pageSize)
		if err != nil {
			return fmt.Errorf("inventory.ExportBillRegister bills: %w", err)
		}
		bills = append(bills, page...)
		if offset+pageSize >= total || len(page) == 0 {
			break
		}
	}

	vendorNames := make(map[uuid.UUID]string)
	for offset := 0; ; offset += pageSize {
		page, total, err := s.vendors.List(ctx, offset, pageSize)
		if err != nil {
			return fmt.Errorf("inventory.ExportBillRegister vendors: %w", err)
		}
		for _, v := range page {
			vendorNames[v.ID] = v.Name
		}
		if offset+pageSize >= total || len(page) == 0 {
			break
		}
	}

	return billexport.WriteRegister(w, bills, vendorNames)
}

func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return offset, limit
}

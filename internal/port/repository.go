package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"autostock/internal/domain"
)

// VendorRepository defines the contract for vendor persistence.
// Vendors are looked up first by GSTIN, then by case-insensitive name.
type VendorRepository interface {
	Create(ctx context.Context, vendor *domain.Vendor) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vendor, error)
	GetByGSTIN(ctx context.Context, gstin string) (*domain.Vendor, error)
	GetByName(ctx context.Context, name string) (*domain.Vendor, error)
	List(ctx context.Context, offset, limit int) ([]domain.Vendor, int, error)
}

// ProductRepository defines the contract for catalog persistence.
// FindByNames is the single bulk lookup the duplicate resolver relies on:
// one round trip for the whole batch, matched case-insensitively.
type ProductRepository interface {
	CreateBatch(ctx context.Context, products []*domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByNames(ctx context.Context, names []string) ([]domain.Product, error)
	// AddStock adds quantity to current_stock and overwrites purchase_rate
	// with the latest observed rate. The addition happens in the store so a
	// stale read can never overwrite stock destructively.
	AddStock(ctx context.Context, id uuid.UUID, quantity, purchaseRate decimal.Decimal) error
	// RemoveStock is the compensating action for AddStock; it floors at zero.
	RemoveStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error
	List(ctx context.Context, search string, offset, limit int) ([]domain.Product, int, error)
}

// VendorBillRepository defines the contract for bill header persistence.
// Create must surface a (vendor_id, bill_number) uniqueness violation as
// domain.ErrDuplicateBill so the orchestrator can hard-stop.
type VendorBillRepository interface {
	Create(ctx context.Context, bill *domain.VendorBill) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VendorBill, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, offset, limit int) ([]domain.VendorBill, int, error)
	List(ctx context.Context, offset, limit int) ([]domain.VendorBill, int, error)
	SetPhotoKey(ctx context.Context, id uuid.UUID, photoKey string) error
}

// BillItemRepository defines the contract for bill line-item persistence.
type BillItemRepository interface {
	CreateBatch(ctx context.Context, items []*domain.BillItem) error
	ListByBill(ctx context.Context, billID uuid.UUID) ([]domain.BillItem, error)
}

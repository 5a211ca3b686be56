package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vendor is a supplier the shop purchases from. Identity is the GSTIN when
// known, otherwise the case-insensitive name.
type Vendor struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	GSTIN     *string   `db:"gstin" json:"gstin,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// VendorBill is the header record for one physical vendor invoice.
// (vendor_id, bill_number) is unique; a second ingestion of the same paper
// invoice must fail, never upsert.
type VendorBill struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	VendorID      uuid.UUID       `db:"vendor_id" json:"vendor_id"`
	BillNumber    string          `db:"bill_number" json:"bill_number"`
	BillDate      string          `db:"bill_date" json:"bill_date"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaymentStatus PaymentStatus   `db:"payment_status" json:"payment_status"`
	PhotoKey      *string         `db:"photo_key" json:"photo_key,omitempty"`
	Notes         string          `db:"notes" json:"notes"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// Product is a long-lived catalog entity. The ingestion pipeline only ever
// creates products or adds to current_stock; decrements happen elsewhere.
type Product struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	Name               string          `db:"name" json:"name"`
	PartNumber         *string         `db:"part_number" json:"part_number,omitempty"`
	PurchaseRate       decimal.Decimal `db:"purchase_rate" json:"purchase_rate"`
	SellingRate        decimal.Decimal `db:"selling_rate" json:"selling_rate"`
	GSTPercentage      decimal.Decimal `db:"gst_percentage" json:"gst_percentage"`
	DiscountPercentage decimal.Decimal `db:"discount_percentage" json:"discount_percentage"`
	CurrentStock       decimal.Decimal `db:"current_stock" json:"current_stock"`
	MinimumStock       decimal.Decimal `db:"minimum_stock" json:"minimum_stock"`
	Unit               string          `db:"unit" json:"unit"`
	HSNCode            string          `db:"hsn_code" json:"hsn_code"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// BillItem is one line of a VendorBill. ProductID is nullable: a line whose
// product materialization failed is still recorded against the bill.
type BillItem struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	VendorBillID  uuid.UUID       `db:"vendor_bill_id" json:"vendor_bill_id"`
	ProductID     *uuid.UUID      `db:"product_id" json:"product_id,omitempty"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	PurchaseRate  decimal.Decimal `db:"purchase_rate" json:"purchase_rate"`
	GSTPercentage decimal.Decimal `db:"gst_percentage" json:"gst_percentage"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

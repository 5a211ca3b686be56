package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"autostock/internal/domain"
	"autostock/internal/port"
)

// FailureKind classifies an entry in the commit report.
type FailureKind string

const (
	FailureValidation    FailureKind = "validation_failure"
	FailureVendor        FailureKind = "vendor_commit_error"
	FailureBill          FailureKind = "bill_commit_error"
	FailureDuplicateBill FailureKind = "duplicate_bill_error"
	FailureProduct       FailureKind = "product_commit_error"
	FailureBillItem      FailureKind = "bill_item_commit_error"
	FailureAttachment    FailureKind = "attachment_error"
)

// CommitError is one per-entity failure captured into the report.
type CommitError struct {
	Kind    FailureKind `json:"kind"`
	Entity  string      `json:"entity"`
	Message string      `json:"message"`
}

// CommitDetail records the outcome for a single product.
type CommitDetail struct {
	Name     string          `json:"name"`
	Action   string          `json:"action"` // created, updated, compensated
	OldStock decimal.Decimal `json:"old_stock"`
	Added    decimal.Decimal `json:"added"`
	NewStock decimal.Decimal `json:"new_stock"`
}

// CommitReport is the aggregate outcome of one ingestion commit. The
// orchestrator never returns an error; every failure lands here so the
// caller always sees the complete picture.
type CommitReport struct {
	VendorID      *uuid.UUID     `json:"vendor_id,omitempty"`
	VendorName    string         `json:"vendor_name,omitempty"`
	VendorCreated bool           `json:"vendor_created"`
	BillID        *uuid.UUID     `json:"bill_id,omitempty"`
	BillNumber    string         `json:"bill_number,omitempty"`
	BillCreated   bool           `json:"bill_created"`
	Created       int            `json:"created"`
	Updated       int            `json:"updated"`
	Details       []CommitDetail `json:"details"`
	Errors        []CommitError  `json:"errors"`
	Warnings      []string       `json:"warnings,omitempty"`
	PhotoUploaded bool           `json:"photo_uploaded"`
}

// Failed reports whether any fatal error was recorded.
func (r *CommitReport) Failed() bool {
	for _, e := range r.Errors {
		switch e.Kind {
		case FailureValidation, FailureVendor, FailureBill, FailureDuplicateBill:
			return true
		}
	}
	return false
}

func (r *CommitReport) addError(kind FailureKind, entity, format string, args ...interface{}) {
	r.Errors = append(r.Errors, CommitError{Kind: kind, Entity: entity, Message: fmt.Sprintf(format, args...)})
}

// PhotoAttachment is the scanned invoice image attached to the bill.
type PhotoAttachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CommitInput is everything the orchestrator needs for one ingestion.
type CommitInput struct {
	Items   []ResolvedLineItem
	Vendor  VendorDraft
	Invoice InvoiceDraft
	Photo   *PhotoAttachment
}

// Committer performs the ordered multi-entity commit:
// vendor find-or-create, bill header, product materialization, bill items,
// photo attachment. There is no atomic transaction across these entities;
// the store's uniqueness constraint on (vendor_id, bill_number) is the only
// concurrency guard, and a failed bill-item insert is compensated by
// decrementing the stock that was already added.
type Committer struct {
	vendors   port.VendorRepository
	bills     port.VendorBillRepository
	products  port.ProductRepository
	billItems port.BillItemRepository
	storage   port.ObjectStorage
	bucket    string
}

// NewCommitter creates a Committer over the catalog and attachment stores.
func NewCommitter(
	vendors port.VendorRepository,
	bills port.VendorBillRepository,
	products port.ProductRepository,
	billItems port.BillItemRepository,
	storage port.ObjectStorage,
	bucket string,
) *Committer {
	return &Committer{
		vendors:   vendors,
		bills:     bills,
		products:  products,
		billItems: billItems,
		storage:   storage,
		bucket:    bucket,
	}
}

// Commit runs the ingestion. A failure resolving the vendor or creating the
// bill aborts everything downstream; a duplicate bill number is a hard stop
// so the same paper invoice is never double-ingested. Individual product
// failures never abort sibling products. Photo upload is best-effort.
func (c *Committer) Commit(ctx context.Context, input CommitInput) *CommitReport {
	report := &CommitReport{}

	extracted := make([]ExtractedLineItem, len(input.Items))
	for i, item := range input.Items {
		extracted[i] = item.ExtractedLineItem
	}
	if batch := ValidateBatch(extracted); !batch.AllValid {
		for _, item := range batch.Items {
			for _, msg := range item.Errors {
				report.addError(FailureValidation, fmt.Sprintf("item[%d]", item.Index), "%s", msg)
			}
		}
		return report
	}

	// Step 1: vendor resolution. No vendor identity at all is not a failure;
	// the batch is then ingested without a bill header.
	var vendorID *uuid.UUID
	if input.Vendor.Name != "" {
		id, created, err := c.resolveVendor(ctx, input.Vendor)
		if err != nil {
			report.addError(FailureVendor, "vendor", "resolving vendor %q: %v", input.Vendor.Name, err)
			return report
		}
		vendorID = &id
		report.VendorID = &id
		report.VendorName = input.Vendor.Name
		report.VendorCreated = created
	}

	// Step 2: bill header. A duplicate (vendor_id, bill_number) stops the
	// whole ingestion before any stock is touched.
	var billID *uuid.UUID
	if vendorID != nil && input.Invoice.BillNumber != "" {
		bill, err := c.createBill(ctx, *vendorID, input.Invoice)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicateBill) {
				report.addError(FailureDuplicateBill, "vendor_bill",
					"bill number %q already exists for this vendor", input.Invoice.BillNumber)
			} else {
				report.addError(FailureBill, "vendor_bill", "creating bill: %v", err)
			}
			return report
		}
		billID = &bill.ID
		report.BillID = &bill.ID
		report.BillNumber = bill.BillNumber
		report.BillCreated = true
	}

	// Step 3: product materialization.
	productIDByName := c.materializeProducts(ctx, input.Items, report)

	// Step 4: bill items, with compensation if the insert fails after stock
	// was already incremented.
	if billID != nil {
		c.insertBillItems(ctx, *billID, input.Items, productIDByName, report)
	}

	// Step 5: photo attachment, best-effort.
	if billID != nil && input.Photo != nil {
		c.attachPhoto(ctx, *vendorID, *billID, input.Photo, report)
	}

	log.Printf("ingest.Committer: commit done vendor_created=%t bill_created=%t created=%d updated=%d errors=%d",
		report.VendorCreated, report.BillCreated, report.Created, report.Updated, len(report.Errors))
	return report
}

func (c *Committer) resolveVendor(ctx context.Context, draft VendorDraft) (uuid.UUID, bool, error) {
	if draft.GSTIN != "" {
		v, err := c.vendors.GetByGSTIN(ctx, draft.GSTIN)
		if err == nil {
			return v.ID, false, nil
		}
		if !errors.Is(err, domain.ErrVendorNotFound) {
			return uuid.Nil, false, err
		}
	}

	v, err := c.vendors.GetByName(ctx, draft.Name)
	if err == nil {
		return v.ID, false, nil
	}
	if !errors.Is(err, domain.ErrVendorNotFound) {
		return uuid.Nil, false, err
	}

	vendor := &domain.Vendor{ID: uuid.New(), Name: draft.Name}
	if draft.GSTIN != "" {
		gstin := draft.GSTIN
		vendor.GSTIN = &gstin
	}
	if err := c.vendors.Create(ctx, vendor); err != nil {
		return uuid.Nil, false, err
	}
	return vendor.ID, true, nil
}

func (c *Committer) createBill(ctx context.Context, vendorID uuid.UUID, draft InvoiceDraft) (*domain.VendorBill, error) {
	billDate := draft.BillDate
	if billDate == "" {
		billDate = time.Now().UTC().Format("2006-01-02")
	}
	bill := &domain.VendorBill{
		ID:            uuid.New(),
		VendorID:      vendorID,
		BillNumber:    draft.BillNumber,
		BillDate:      billDate,
		TotalAmount:   decimal.NewFromFloat(draft.TotalAmount),
		PaymentStatus: domain.PaymentStatusUnpaid,
		Notes:         "Created from invoice scanner",
	}
	if err := c.bills.Create(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// materializeProducts inserts new products in one batch and fans out the
// existing-product stock updates concurrently. The duplicate resolver has
// already partitioned items by identity, so the two sets never touch the
// same row. Returns product ids keyed by item name for bill-item linking.
func (c *Committer) materializeProducts(ctx context.Context, items []ResolvedLineItem, report *CommitReport) map[string]uuid.UUID {
	var newItems, existingItems []ResolvedLineItem
	for _, item := range items {
		if item.IsDuplicate {
			// Commit payloads come straight from the client, so a duplicate
			// flag without a matched id cannot be trusted as either kind.
			if item.MatchedProductID == nil {
				report.addError(FailureProduct, item.Name, "duplicate item has no matched product id")
				continue
			}
			existingItems = append(existingItems, item)
		} else {
			newItems = append(newItems, item)
		}
	}

	productIDByName := make(map[string]uuid.UUID, len(items))

	if len(newItems) > 0 {
		rows := make([]*domain.Product, 0, len(newItems))
		for _, item := range newItems {
			p := &domain.Product{
				ID:                 uuid.New(),
				Name:               item.Name,
				PurchaseRate:       decimal.NewFromFloat(item.PurchaseRate),
				SellingRate:        decimal.NewFromFloat(item.SellingRate),
				GSTPercentage:      decimal.NewFromFloat(item.GSTPercentage),
				DiscountPercentage: decimal.NewFromFloat(item.DiscountPercentage),
				CurrentStock:       decimal.NewFromFloat(item.Quantity),
				MinimumStock:       decimal.Zero,
				Unit:               item.Unit,
				HSNCode:            item.HSNCode,
			}
			if item.PartNumber != "" {
				pn := item.PartNumber
				p.PartNumber = &pn
			}
			rows = append(rows, p)
		}
		if err := c.products.CreateBatch(ctx, rows); err != nil {
			for _, item := range newItems {
				report.addError(FailureProduct, item.Name, "creating product: %v", err)
			}
		} else {
			for _, p := range rows {
				productIDByName[p.Name] = p.ID
				report.Created++
				report.Details = append(report.Details, CommitDetail{
					Name:     p.Name,
					Action:   "created",
					Added:    p.CurrentStock,
					NewStock: p.CurrentStock,
				})
			}
		}
	}

	// Existing-product updates target distinct rows, so they can run as a
	// fan-out; results are joined before bill items are written.
	if len(existingItems) > 0 {
		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)
		for _, item := range existingItems {
			wg.Add(1)
			go func(item ResolvedLineItem) {
				defer wg.Done()
				qty := decimal.NewFromFloat(item.Quantity)
				rate := decimal.NewFromFloat(item.PurchaseRate)
				err := c.products.AddStock(ctx, *item.MatchedProductID, qty, rate)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					report.addError(FailureProduct, item.Name, "updating stock: %v", err)
					return
				}
				productIDByName[item.Name] = *item.MatchedProductID
				report.Updated++
				report.Details = append(report.Details, CommitDetail{
					Name:     item.Name,
					Action:   "updated",
					OldStock: item.MatchedStock,
					Added:    qty,
					NewStock: item.MatchedStock.Add(qty),
				})
			}(item)
		}
		wg.Wait()
	}

	return productIDByName
}

func (c *Committer) insertBillItems(ctx context.Context, billID uuid.UUID, items []ResolvedLineItem, productIDByName map[string]uuid.UUID, report *CommitReport) {
	rows := make([]*domain.BillItem, 0, len(items))
	for _, item := range items {
		qty := decimal.NewFromFloat(item.Quantity)
		rate := decimal.NewFromFloat(item.PurchaseRate)
		gst := decimal.NewFromFloat(item.GSTPercentage)

		row := &domain.BillItem{
			ID:            uuid.New(),
			VendorBillID:  billID,
			Quantity:      qty,
			PurchaseRate:  rate,
			GSTPercentage: gst,
			TotalAmount:   lineTotal(qty, rate, gst),
		}
		if id, ok := productIDByName[item.Name]; ok {
			pid := id
			row.ProductID = &pid
		}
		rows = append(rows, row)
	}

	if err := c.billItems.CreateBatch(ctx, rows); err != nil {
		report.addError(FailureBillItem, "bill_items", "inserting bill items: %v", err)
		c.compensateStock(ctx, items, report)
	}
}

// lineTotal recomputes quantity × rate × (1 + gst/100). The draft's own
// total is never trusted.
func lineTotal(qty, rate, gst decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(gst.Div(decimal.NewFromInt(100)))
	return qty.Mul(rate).Mul(factor)
}

// compensateStock backs out the stock increments of this ingestion after a
// failed bill-item insert, so a half-committed bill does not inflate
// inventory. Decrements floor at zero in the store.
func (c *Committer) compensateStock(ctx context.Context, items []ResolvedLineItem, report *CommitReport) {
	for _, item := range items {
		if !item.IsDuplicate || item.MatchedProductID == nil {
			continue
		}
		qty := decimal.NewFromFloat(item.Quantity)
		if err := c.products.RemoveStock(ctx, *item.MatchedProductID, qty); err != nil {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("compensating stock for %q failed: %v", item.Name, err))
			continue
		}
		report.Details = append(report.Details, CommitDetail{
			Name:     item.Name,
			Action:   "compensated",
			Added:    qty.Neg(),
			NewStock: item.MatchedStock,
		})
	}
}

func (c *Committer) attachPhoto(ctx context.Context, vendorID, billID uuid.UUID, photo *PhotoAttachment, report *CommitReport) {
	ext := filepath.Ext(photo.FileName)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("bills/vendor_%s_bill_%s_%d%s", vendorID, billID, time.Now().UnixMilli(), strings.ToLower(ext))

	_, err := c.storage.Upload(ctx, port.UploadInput{
		Bucket:      c.bucket,
		Key:         key,
		Body:        bytes.NewReader(photo.Data),
		ContentType: photo.ContentType,
		Size:        int64(len(photo.Data)),
	})
	if err != nil {
		report.Errors = append(report.Errors, CommitError{
			Kind: FailureAttachment, Entity: "photo", Message: fmt.Sprintf("uploading photo: %v", err)})
		report.Warnings = append(report.Warnings, "invoice photo was not attached")
		return
	}
	if err := c.bills.SetPhotoKey(ctx, billID, key); err != nil {
		report.Errors = append(report.Errors, CommitError{
			Kind: FailureAttachment, Entity: "photo", Message: fmt.Sprintf("linking photo to bill: %v", err)})
		report.Warnings = append(report.Warnings, "invoice photo uploaded but not linked")
		return
	}
	report.PhotoUploaded = true
}

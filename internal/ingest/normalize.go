package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Normalization defaults for fields the model omitted or mangled.
const (
	defaultProductName = "Unknown Product"
	defaultUnit        = "pcs"
	defaultHSNCode     = "0000"
	defaultConfidence  = 0.7
	defaultQuantity    = 1
)

// VendorDraft is the vendor identity as extracted, before resolution against
// the vendor table.
type VendorDraft struct {
	Name  string `json:"name"`
	GSTIN string `json:"gstin"`
}

// InvoiceDraft is the bill header as extracted.
type InvoiceDraft struct {
	BillNumber  string  `json:"bill_number"`
	BillDate    string  `json:"bill_date"`
	TotalAmount float64 `json:"total_amount"`
}

// ExtractedLineItem is one normalized product row from the invoice. It is
// transient: produced here, consumed by the orchestrator, then discarded.
type ExtractedLineItem struct {
	Name               string  `json:"name"`
	PartNumber         string  `json:"part_number"`
	Quantity           float64 `json:"quantity"`
	Unit               string  `json:"unit"`
	PurchaseRate       float64 `json:"purchase_rate"`
	SellingRate        float64 `json:"selling_rate"`
	GSTPercentage      float64 `json:"gst_percentage"`
	DiscountPercentage float64 `json:"discount_percentage"`
	HSNCode            string  `json:"hsn_code"`
	Confidence         float64 `json:"confidence"`
	Edited             bool    `json:"edited"`
}

// Draft is the full normalized extraction result.
type Draft struct {
	Vendor  VendorDraft         `json:"vendor"`
	Invoice InvoiceDraft        `json:"invoice"`
	Items   []ExtractedLineItem `json:"items"`
}

// Synonym key lists, in priority order. The extraction prompt asks for the
// first spelling but models drift toward whatever the invoice itself used.
var (
	nameKeys     = []string{"name", "product_name"}
	quantityKeys = []string{"quantity", "qty"}
	priceKeys    = []string{"price", "rate", "unit_price"}
	sellingKeys  = []string{"selling_rate", "mrp"}
	gstKeys      = []string{"gst_percentage", "tax"}
	discountKeys = []string{"discount", "discount_percentage"}
	hsnKeys      = []string{"hsn_code", "hsn"}
)

// Normalize maps the loosely-shaped parsed object onto the canonical draft
// schema, coercing types and filling gaps with documented defaults. It never
// drops or rejects a product entry; rejection is the validator's job.
func Normalize(obj json.RawMessage) (*Draft, error) {
	var payload struct {
		Vendor   map[string]interface{}   `json:"vendor"`
		Invoice  map[string]interface{}   `json:"invoice"`
		Products []map[string]interface{} `json:"products"`
	}
	if err := json.Unmarshal(obj, &payload); err != nil {
		return nil, fmt.Errorf("decoding extracted object: %w", err)
	}

	draft := &Draft{
		Vendor: VendorDraft{
			Name:  firstString(payload.Vendor, "name"),
			GSTIN: firstString(payload.Vendor, "gstin"),
		},
		Invoice: InvoiceDraft{
			BillNumber:  firstString(payload.Invoice, "bill number", "bill_number"),
			BillDate:    firstString(payload.Invoice, "bill date", "bill_date"),
			TotalAmount: firstNumber(payload.Invoice, []string{"total amount", "total_amount"}, 0),
		},
	}

	for _, p := range payload.Products {
		item := ExtractedLineItem{
			Name:               firstString(p, nameKeys...),
			PartNumber:         firstString(p, "part_number"),
			Quantity:           firstNumber(p, quantityKeys, defaultQuantity),
			Unit:               firstString(p, "unit"),
			PurchaseRate:       firstNumber(p, priceKeys, 0),
			SellingRate:        firstNumber(p, sellingKeys, 0),
			GSTPercentage:      firstNumber(p, gstKeys, 0),
			DiscountPercentage: firstNumber(p, discountKeys, 0),
			HSNCode:            firstString(p, hsnKeys...),
			Confidence:         firstNumber(p, []string{"confidence"}, defaultConfidence),
		}
		if item.Name == "" {
			item.Name = defaultProductName
		}
		if item.Unit == "" {
			item.Unit = defaultUnit
		}
		if item.HSNCode == "" {
			item.HSNCode = defaultHSNCode
		}
		draft.Items = append(draft.Items, item)
	}

	return draft, nil
}

// firstString returns the first non-empty string value among keys.
func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// firstNumber returns the first value among keys that coerces to a number,
// or fallback when every candidate is absent or non-numeric. Zero is treated
// as absent so a synonym key can still supply the real value.
func firstNumber(m map[string]interface{}, keys []string, fallback float64) float64 {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if n, ok := toNumber(v); ok && n != 0 {
				return n
			}
		}
	}
	return fallback
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

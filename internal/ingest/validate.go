package ingest

import "strings"

// ItemValidation is the validation outcome for a single line item. Every
// violation is reported; nothing short-circuits.
type ItemValidation struct {
	Index  int      `json:"index"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// BatchValidation aggregates item results. AllValid is the conjunction of
// all item validities; the orchestrator refuses to commit otherwise.
type BatchValidation struct {
	AllValid    bool             `json:"all_valid"`
	TotalErrors int              `json:"total_errors"`
	Items       []ItemValidation `json:"items"`
}

// ValidateItem checks the per-line invariants: name present after trimming,
// quantity strictly positive, price non-negative.
func ValidateItem(item ExtractedLineItem) ItemValidation {
	var errs []string
	if strings.TrimSpace(item.Name) == "" {
		errs = append(errs, "name is required")
	}
	if item.Quantity <= 0 {
		errs = append(errs, "quantity must be greater than 0")
	}
	if item.PurchaseRate < 0 {
		errs = append(errs, "price must not be negative")
	}
	return ItemValidation{Valid: len(errs) == 0, Errors: errs}
}

// ValidateBatch validates every item. An empty batch is valid.
func ValidateBatch(items []ExtractedLineItem) BatchValidation {
	batch := BatchValidation{AllValid: true, Items: make([]ItemValidation, 0, len(items))}
	for i, item := range items {
		r := ValidateItem(item)
		r.Index = i
		if !r.Valid {
			batch.AllValid = false
			batch.TotalErrors += len(r.Errors)
		}
		batch.Items = append(batch.Items, r)
	}
	return batch
}

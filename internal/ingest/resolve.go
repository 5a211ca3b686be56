package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"autostock/internal/port"
)

// ResolvedLineItem is an extracted item tagged with its catalog match.
type ResolvedLineItem struct {
	ExtractedLineItem
	IsDuplicate      bool            `json:"is_duplicate"`
	MatchedProductID *uuid.UUID      `json:"matched_product_id,omitempty"`
	MatchedStock     decimal.Decimal `json:"matched_current_stock"`
	MatchedRate      decimal.Decimal `json:"matched_purchase_rate"`
	// AmbiguousMatch is set when more than one catalog row collapses to the
	// same lowercased name. The first row returned still wins, but callers
	// should surface the ambiguity instead of trusting the pick.
	AmbiguousMatch bool `json:"ambiguous_match,omitempty"`
}

// Resolver classifies extracted items as new products or restocks of
// existing ones.
type Resolver struct {
	products port.ProductRepository
}

// NewResolver creates a Resolver backed by the given catalog repository.
func NewResolver(products port.ProductRepository) *Resolver {
	return &Resolver{products: products}
}

// Resolve batch-matches item names against the catalog in a single round
// trip. Matching is exact after lowercasing; no fuzzy matching.
func (r *Resolver) Resolve(ctx context.Context, items []ExtractedLineItem) ([]ResolvedLineItem, error) {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, strings.TrimSpace(item.Name))
	}

	matches, err := r.products.FindByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("bulk catalog lookup: %w", err)
	}

	byName := make(map[string]int, len(matches))
	ambiguous := make(map[string]bool)
	for i := range matches {
		key := strings.ToLower(matches[i].Name)
		if _, seen := byName[key]; seen {
			ambiguous[key] = true
			log.Printf("ingest.Resolver: ambiguous catalog match for %q, keeping first", matches[i].Name)
			continue
		}
		byName[key] = i
	}

	resolved := make([]ResolvedLineItem, 0, len(items))
	for _, item := range items {
		out := ResolvedLineItem{ExtractedLineItem: item}
		key := strings.ToLower(strings.TrimSpace(item.Name))
		if idx, ok := byName[key]; ok {
			p := matches[idx]
			id := p.ID
			out.IsDuplicate = true
			out.MatchedProductID = &id
			out.MatchedStock = p.CurrentStock
			out.MatchedRate = p.PurchaseRate
			out.AmbiguousMatch = ambiguous[key]
		}
		resolved = append(resolved, out)
	}
	return resolved, nil
}

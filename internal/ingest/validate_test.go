package ingest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autostock/internal/ingest"
)

func TestValidateItem_Valid(t *testing.T) {
	result := ingest.ValidateItem(ingest.ExtractedLineItem{
		Name:         "Brake Pad",
		Quantity:     5,
		PurchaseRate: 120,
	})

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateItem_BlankName(t *testing.T) {
	result := ingest.ValidateItem(ingest.ExtractedLineItem{
		Name:     "   ",
		Quantity: 1,
	})

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "name is required")
}

func TestValidateItem_ZeroQuantity(t *testing.T) {
	result := ingest.ValidateItem(ingest.ExtractedLineItem{
		Name:     "Oil Filter",
		Quantity: 0,
	})

	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "quantity")
}

func TestValidateItem_NegativePrice(t *testing.T) {
	result := ingest.ValidateItem(ingest.ExtractedLineItem{
		Name:         "Oil Filter",
		Quantity:     2,
		PurchaseRate: -10,
	})

	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors, "price must not be negative")
}

func TestValidateItem_ReportsAllViolations(t *testing.T) {
	result := ingest.ValidateItem(ingest.ExtractedLineItem{
		Name:         "",
		Quantity:     -1,
		PurchaseRate: -5,
	})

	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 3)
}

func TestValidateBatch_EmptyIsValid(t *testing.T) {
	batch := ingest.ValidateBatch(nil)

	assert.True(t, batch.AllValid)
	assert.Zero(t, batch.TotalErrors)
	assert.Empty(t, batch.Items)
}

func TestValidateBatch_MixedItems(t *testing.T) {
	batch := ingest.ValidateBatch([]ingest.ExtractedLineItem{
		{Name: "Brake Pad", Quantity: 5, PurchaseRate: 120},
		{Name: "", Quantity: 0},
	})

	assert.False(t, batch.AllValid)
	assert.Equal(t, 2, batch.TotalErrors)
	require.Len(t, batch.Items, 2)
	assert.True(t, batch.Items[0].Valid)
	assert.Equal(t, 0, batch.Items[0].Index)
	assert.False(t, batch.Items[1].Valid)
	assert.Equal(t, 1, batch.Items[1].Index)
}

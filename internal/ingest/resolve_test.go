package ingest_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autostock/internal/domain"
	"autostock/internal/ingest"
	"autostock/mocks"
)

func TestResolve_CaseInsensitiveMatch(t *testing.T) {
	products := new(mocks.MockProductRepo)
	existing := domain.Product{
		ID:           uuid.New(),
		Name:         "Brake Pad",
		CurrentStock: decimal.NewFromInt(10),
		PurchaseRate: decimal.NewFromInt(110),
	}
	products.On("FindByNames", mock.Anything, []string{"brake pad", "Gear Cable"}).
		Return([]domain.Product{existing}, nil)

	resolver := ingest.NewResolver(products)
	resolved, err := resolver.Resolve(context.Background(), []ingest.ExtractedLineItem{
		{Name: "brake pad", Quantity: 5},
		{Name: "Gear Cable", Quantity: 2},
	})

	require.NoError(t, err)
	require.Len(t, resolved, 2)

	assert.True(t, resolved[0].IsDuplicate)
	require.NotNil(t, resolved[0].MatchedProductID)
	assert.Equal(t, existing.ID, *resolved[0].MatchedProductID)
	assert.True(t, resolved[0].MatchedStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, resolved[0].MatchedRate.Equal(decimal.NewFromInt(110)))

	assert.False(t, resolved[1].IsDuplicate)
	assert.Nil(t, resolved[1].MatchedProductID)

	products.AssertExpectations(t)
}

func TestResolve_AmbiguousMatchFlagged(t *testing.T) {
	products := new(mocks.MockProductRepo)
	first := domain.Product{ID: uuid.New(), Name: "Brake Pad", CurrentStock: decimal.NewFromInt(3)}
	second := domain.Product{ID: uuid.New(), Name: "BRAKE PAD", CurrentStock: decimal.NewFromInt(7)}
	products.On("FindByNames", mock.Anything, []string{"brake pad"}).
		Return([]domain.Product{first, second}, nil)

	resolver := ingest.NewResolver(products)
	resolved, err := resolver.Resolve(context.Background(), []ingest.ExtractedLineItem{
		{Name: "brake pad", Quantity: 1},
	})

	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].IsDuplicate)
	assert.True(t, resolved[0].AmbiguousMatch)
	assert.Equal(t, first.ID, *resolved[0].MatchedProductID)
}

func TestResolve_EmptyBatch(t *testing.T) {
	products := new(mocks.MockProductRepo)
	products.On("FindByNames", mock.Anything, []string{}).Return([]domain.Product{}, nil)

	resolver := ingest.NewResolver(products)
	resolved, err := resolver.Resolve(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestResolve_TrimsNamesBeforeLookup(t *testing.T) {
	products := new(mocks.MockProductRepo)
	existing := domain.Product{ID: uuid.New(), Name: "Oil Filter"}
	products.On("FindByNames", mock.Anything, []string{"Oil Filter"}).
		Return([]domain.Product{existing}, nil)

	resolver := ingest.NewResolver(products)
	resolved, err := resolver.Resolve(context.Background(), []ingest.ExtractedLineItem{
		{Name: "  Oil Filter  "},
	})

	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].IsDuplicate)
}

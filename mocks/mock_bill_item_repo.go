package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"autostock/internal/domain"
)

// MockBillItemRepo is a mock implementation of port.BillItemRepository.
type MockBillItemRepo struct {
	mock.Mock
}

func (m *MockBillItemRepo) CreateBatch(ctx context.Context, items []*domain.BillItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockBillItemRepo) ListByBill(ctx context.Context, billID uuid.UUID) ([]domain.BillItem, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillItem), args.Error(1)
}

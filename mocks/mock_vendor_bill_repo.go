package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"autostock/internal/domain"
)

// MockVendorBillRepo is a mock implementation of port.VendorBillRepository.
type MockVendorBillRepo struct {
	mock.Mock
}

func (m *MockVendorBillRepo) Create(ctx context.Context, bill *domain.VendorBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockVendorBillRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VendorBill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorBill), args.Error(1)
}

func (m *MockVendorBillRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID, offset, limit int) ([]domain.VendorBill, int, error) {
	args := m.Called(ctx, vendorID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.VendorBill), args.Int(1), args.Error(2)
}

func (m *MockVendorBillRepo) List(ctx context.Context, offset, limit int) ([]domain.VendorBill, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.VendorBill), args.Int(1), args.Error(2)
}

func (m *MockVendorBillRepo) SetPhotoKey(ctx context.Context, id uuid.UUID, photoKey string) error {
	args := m.Called(ctx, id, photoKey)
	return args.Error(0)
}

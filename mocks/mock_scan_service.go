package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"autostock/internal/ingest"
	"autostock/internal/service"
)

// MockScanService is a mock implementation of service.ScanService.
type MockScanService struct {
	mock.Mock
}

func (m *MockScanService) Preview(ctx context.Context, input service.PreviewInput) (*service.PreviewOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PreviewOutput), args.Error(1)
}

func (m *MockScanService) Commit(ctx context.Context, req service.CommitRequest) *ingest.CommitReport {
	args := m.Called(ctx, req)
	return args.Get(0).(*ingest.CommitReport)
}

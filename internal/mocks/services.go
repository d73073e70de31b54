package mocks

import (
	"context"
	"net/http"

	"github.com/live-learn-hub-api/internal/service"
)

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamInsightsFunc func(ctx context.Context, w http.ResponseWriter, format string) error
	Counts             map[string]int
	CountError         error
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{
		Counts: map[string]int{
			"users":      0,
			"categories": 0,
			"insights":   0,
		},
	}
}

func (m *MockExportService) StreamInsights(ctx context.Context, w http.ResponseWriter, format string) error {
	if m.StreamInsightsFunc != nil {
		return m.StreamInsightsFunc(ctx, w, format)
	}
	return nil
}

func (m *MockExportService) GetCount(ctx context.Context, resource string) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	return m.Counts[resource], nil
}

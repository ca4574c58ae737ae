package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"facturaval/internal/domain"
	"facturaval/internal/port"
)

// MockFragmentExtractor is a mock implementation of port.FragmentExtractor.
type MockFragmentExtractor struct {
	mock.Mock
}

func (m *MockFragmentExtractor) Extract(ctx context.Context, input port.ExtractInput) ([]domain.RawField, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawField), args.Error(1)
}

package mocks

import (
	"context"

	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"

	"github.com/stretchr/testify/mock"
)

// MockChartSource is a testify mock of ports.ChartSource
type MockChartSource struct {
	mock.Mock
}

func (m *MockChartSource) ListNodes(ctx context.Context) ([]*entities.ChartNode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ChartNode), args.Error(1)
}

func (m *MockChartSource) GetNode(ctx context.Context, id valueobjects.NodeID) (*entities.ChartNode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChartNode), args.Error(1)
}

// MockImageResolver is a testify mock of ports.ImageResolver
type MockImageResolver struct {
	mock.Mock
}

func (m *MockImageResolver) Resolve(ref string) string {
	args := m.Called(ref)
	return args.String(0)
}

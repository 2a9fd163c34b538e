package handlers

import (
	"context"
	"errors"
	"testing"

	"lineage/application/queries"
	"lineage/domain/core/valueobjects"
	pkgerrors "lineage/pkg/errors"
	"lineage/tests/fixtures"
	"lineage/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFactory(source *mocks.MockChartSource) *ViewFactory {
	return NewViewFactory(source, nil, nil, nil, zap.NewNop())
}

func TestGetChartHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	source := new(mocks.MockChartSource)
	source.On("ListNodes", mock.Anything).Return(fixtures.NewRoots(25), nil)
	handler := NewGetChartHandler(newFactory(source), zap.NewNop())

	// Act
	result, err := handler.Handle(ctx, queries.GetChartQuery{Page: 3})

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Len(t, result.Trees, 5)
	assert.Equal(t, 25, result.RootCount)
	assert.Equal(t, 25, result.NodeCount)
	assert.Equal(t, 3, result.Pagination.Page)
	assert.False(t, result.Pagination.HasNext)
	source.AssertExpectations(t)
}

func TestGetChartHandler_Handle_ShowAll(t *testing.T) {
	source := new(mocks.MockChartSource)
	source.On("ListNodes", mock.Anything).Return(fixtures.NewRoots(25), nil)
	handler := NewGetChartHandler(newFactory(source), zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetChartQuery{Page: 1, ShowAll: true})

	require.NoError(t, err)
	assert.Len(t, result.Trees, 25)
	assert.True(t, result.Pagination.ShowAll)
}

func TestGetChartHandler_Handle_PageOutOfRangeIsClamped(t *testing.T) {
	source := new(mocks.MockChartSource)
	source.On("ListNodes", mock.Anything).Return(fixtures.NewRoots(12), nil)
	handler := NewGetChartHandler(newFactory(source), zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetChartQuery{Page: 40})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Pagination.Page)
	assert.Len(t, result.Trees, 2)
}

func TestGetChartHandler_Handle_InvalidPage(t *testing.T) {
	source := new(mocks.MockChartSource)
	handler := NewGetChartHandler(newFactory(source), zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetChartQuery{Page: 0})

	assert.Error(t, err)
	assert.Nil(t, result)
	source.AssertNotCalled(t, "ListNodes", mock.Anything)
}

func TestGetChartHandler_Handle_SourceError(t *testing.T) {
	source := new(mocks.MockChartSource)
	source.On("ListNodes", mock.Anything).Return(nil, errors.New("upstream down"))
	handler := NewGetChartHandler(newFactory(source), zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetChartQuery{Page: 1})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
	assert.Nil(t, result)
}

func TestGetNodeDetailHandler_Handle_FromSnapshot(t *testing.T) {
	// Arrange
	source := new(mocks.MockChartSource)
	source.On("ListNodes", mock.Anything).Return(fixtures.NewSampleLineage(), nil)
	handler := NewGetNodeDetailHandler(newFactory(source), source, nil, zap.NewNop())

	// Act
	result, err := handler.Handle(context.Background(), queries.GetNodeDetailQuery{NodeID: 1})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "A", result.Node.Name)
	assert.Len(t, result.Students, 2)
	source.AssertNotCalled(t, "GetNode", mock.Anything, mock.Anything)
}

func TestGetNodeDetailHandler_Handle_DeepLinkFallsBackToGetNode(t *testing.T) {
	// Arrange
	source := new(mocks.MockChartSource)
	source.On("ListNodes", mock.Anything).Return(fixtures.NewSampleLineage(), nil)
	hidden := fixtures.NewNodeBuilder(50).WithName("Hidden").WithTeacher(1, "A").Build()
	source.On("GetNode", mock.Anything, valueobjects.NodeID(50)).Return(hidden, nil)
	handler := NewGetNodeDetailHandler(newFactory(source), source, nil, zap.NewNop())

	// Act
	result, err := handler.Handle(context.Background(), queries.GetNodeDetailQuery{NodeID: 50})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Hidden", result.Node.Name)
	require.Len(t, result.Parents, 1)
	assert.True(t, result.Parents[0].Known)
	source.AssertExpectations(t)
}

func TestGetNodeDetailHandler_Handle_NotFound(t *testing.T) {
	source := new(mocks.MockChartSource)
	source.On("ListNodes", mock.Anything).Return(fixtures.NewSampleLineage(), nil)
	source.On("GetNode", mock.Anything, valueobjects.NodeID(77)).Return(nil, pkgerrors.NewNotFoundError("chart node 77"))
	handler := NewGetNodeDetailHandler(newFactory(source), source, nil, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.GetNodeDetailQuery{NodeID: 77})

	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Nil(t, result)
}

func TestGetNodeDetailHandler_Handle_ZeroID(t *testing.T) {
	source := new(mocks.MockChartSource)
	handler := NewGetNodeDetailHandler(newFactory(source), source, nil, zap.NewNop())

	_, err := handler.Handle(context.Background(), queries.GetNodeDetailQuery{})

	assert.True(t, pkgerrors.IsValidation(err))
}

func TestListRootsHandler_Handle(t *testing.T) {
	// Arrange
	source := new(mocks.MockChartSource)
	nodes := append(fixtures.NewSampleLineage(), fixtures.NewNodeBuilder(9).WithName("Solo").Build())
	source.On("ListNodes", mock.Anything).Return(nodes, nil)
	handler := NewListRootsHandler(newFactory(source), nil, zap.NewNop())

	// Act
	result, err := handler.Handle(context.Background(), queries.ListRootsQuery{Page: 1})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, 1, result.Pagination.TotalPages)
	assert.Equal(t, "A", result.Roots[0].Name)
	assert.Equal(t, 2, result.Roots[0].StudentCount)
	assert.Equal(t, "Solo", result.Roots[1].Name)
	assert.Equal(t, 0, result.Roots[1].StudentCount)
}

func TestListRootsHandler_Handle_Paginates(t *testing.T) {
	source := new(mocks.MockChartSource)
	source.On("ListNodes", mock.Anything).Return(fixtures.NewRoots(23), nil)
	handler := NewListRootsHandler(newFactory(source), nil, zap.NewNop())

	result, err := handler.Handle(context.Background(), queries.ListRootsQuery{Page: 3})

	require.NoError(t, err)
	assert.Len(t, result.Roots, 3)
	assert.Equal(t, 23, result.TotalCount)
	assert.Equal(t, valueobjects.NodeID(21), result.Roots[0].ID)
}

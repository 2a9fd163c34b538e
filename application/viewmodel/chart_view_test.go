package viewmodel

import (
	"context"
	"errors"
	"testing"

	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"
	"lineage/domain/services"
	"lineage/tests/fixtures"
	"lineage/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// blockingSource releases ListNodes only when the test says so
type blockingSource struct {
	started chan struct{}
	release chan struct{}
	nodes   []*entities.ChartNode
}

func (s *blockingSource) ListNodes(ctx context.Context) ([]*entities.ChartNode, error) {
	close(s.started)
	<-s.release
	return s.nodes, nil
}

func (s *blockingSource) GetNode(ctx context.Context, id valueobjects.NodeID) (*entities.ChartNode, error) {
	return nil, errors.New("not implemented")
}

func TestChartView_LoadSuccess(t *testing.T) {
	// Arrange
	source := new(mocks.MockChartSource)
	source.On("ListNodes", mock.Anything).Return(fixtures.NewSampleLineage(), nil)
	view := NewChartView(source, nil, WithLogger(zap.NewNop()))

	// Act
	err := view.Load(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StateLoaded, view.State())
	assert.Len(t, view.Roots(), 1)
	trees := view.Trees()
	require.Len(t, trees, 1)
	assert.Equal(t, 5, trees[0].Count())
	source.AssertExpectations(t)
}

func TestChartView_LoadFailure(t *testing.T) {
	// Arrange
	source := new(mocks.MockChartSource)
	source.On("ListNodes", mock.Anything).Return(nil, errors.New("connection refused"))
	view := NewChartView(source, nil)

	// Act
	err := view.Load(context.Background())

	// Assert
	assert.Error(t, err)
	assert.Equal(t, StateFailed, view.State())
	assert.EqualError(t, view.Err(), "connection refused")
	assert.Empty(t, view.Roots())
	assert.Empty(t, view.Trees())
}

func TestChartView_DiscardsLoadAfterClose(t *testing.T) {
	// Arrange
	source := &blockingSource{
		started: make(chan struct{}),
		release: make(chan struct{}),
		nodes:   fixtures.NewSampleLineage(),
	}
	view := NewChartView(source, nil)
	done := make(chan error, 1)

	// Act
	go func() { done <- view.Load(context.Background()) }()
	<-source.started
	view.Close()
	close(source.release)
	err := <-done

	// Assert
	assert.ErrorIs(t, err, ErrViewClosed)
	assert.Equal(t, StateLoading, view.State())
	assert.Nil(t, view.Lineage())
}

func TestChartView_LoadAfterCloseIsRejected(t *testing.T) {
	source := new(mocks.MockChartSource)
	view := NewChartView(source, nil)
	view.Close()

	err := view.Load(context.Background())

	assert.ErrorIs(t, err, ErrViewClosed)
	source.AssertNotCalled(t, "ListNodes", mock.Anything)
}

func TestChartView_ViewsDoNotShareState(t *testing.T) {
	nodes := fixtures.NewRoots(25)
	first := NewChartView(nil, nil)
	second := NewChartView(nil, nil)
	first.LoadNodes(nodes)
	second.LoadNodes(nodes)

	first.Next()
	first.ShowAll()

	assert.NotEqual(t, first.ID(), second.ID())
	assert.Len(t, first.VisibleRoots(), 25)
	assert.Len(t, second.VisibleRoots(), 10)
	assert.Equal(t, 1, second.Pagination().Page)
}

func TestChartView_PaginationOnlyAffectsRoots(t *testing.T) {
	// Arrange: 25 roots, the first has a student
	nodes := fixtures.NewRoots(25)
	nodes = append(nodes, fixtures.NewNodeBuilder(100).WithTeacher(1, "Person 1").Build())
	view := NewChartView(nil, nil)
	view.LoadNodes(nodes)

	// Act & Assert
	trees := view.Trees()
	require.Len(t, trees, 10)
	assert.Equal(t, 2, trees[0].Count())

	view.Next()
	view.Next()
	assert.Len(t, view.VisibleRoots(), 5)
	assert.False(t, view.Next())
	assert.Equal(t, 3, view.Pagination().Page)

	view.ShowLess()
	assert.Equal(t, 1, view.Pagination().Page)

	view.GoToPage(50)
	assert.Equal(t, 3, view.Pagination().Page)
	assert.True(t, view.Previous())
}

func TestChartView_TwentyThreeRootsShowAllAndBack(t *testing.T) {
	// Arrange
	view := NewChartView(nil, nil)
	view.LoadNodes(fixtures.NewRoots(23))
	first := view.VisibleRoots()

	// Act & Assert
	require.Len(t, first, 10)
	require.True(t, view.Next())
	require.True(t, view.Next())
	last := view.VisibleRoots()
	assert.Len(t, last, 3)
	assert.False(t, view.Next())
	assert.Equal(t, last, view.VisibleRoots())

	view.ShowAll()
	view.ShowAll()
	assert.Len(t, view.VisibleRoots(), 23)

	view.ShowLess()
	assert.Equal(t, first, view.VisibleRoots())
}

func TestChartView_SelectOpensInspectorWithoutChangingLayout(t *testing.T) {
	// Arrange
	view := NewChartView(nil, nil)
	view.LoadNodes(fixtures.NewSampleLineage())
	before := view.Trees()

	// Act
	err := view.Select(4)

	// Assert
	require.NoError(t, err)
	detail, ok := view.Detail()
	require.True(t, ok)
	assert.Equal(t, "D", detail.Node.Name)
	assert.Len(t, detail.Parents, 2)
	assert.Equal(t, before, view.Trees())

	view.CloseInspector()
	_, ok = view.Detail()
	assert.False(t, ok)
}

func TestChartView_SelectUnknownOrUnloaded(t *testing.T) {
	view := NewChartView(nil, nil)
	assert.Error(t, view.Select(1))

	view.LoadNodes(fixtures.NewSampleLineage())
	assert.Error(t, view.Select(999))
}

func TestChartView_ReportsTruncations(t *testing.T) {
	var events []services.TruncationEvent
	observer := services.TruncationObserverFunc(func(e services.TruncationEvent) {
		events = append(events, e)
	})
	view := NewChartView(nil, nil, WithObserver(observer))
	view.LoadNodes(fixtures.NewChain(8))

	view.Trees()

	require.Len(t, events, 1)
	assert.Equal(t, services.TruncatedByDepth, events[0].Reason)
}

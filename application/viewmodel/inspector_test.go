package viewmodel

import (
	"testing"

	"lineage/domain/config"
	"lineage/domain/core/aggregates"
	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"
	"lineage/tests/fixtures"
	"lineage/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspector_OpenCloseLifecycle(t *testing.T) {
	// Arrange
	lineage := aggregates.NewLineage(fixtures.NewSampleLineage())
	inspector := NewInspector(lineage, nil, nil)
	a, _ := lineage.Node(1)
	b, _ := lineage.Node(2)

	// Assert closed
	assert.False(t, inspector.IsOpen())
	_, ok := inspector.Detail()
	assert.False(t, ok)

	// Act: open then replace selection
	inspector.Open(a)
	inspector.Open(b)

	// Assert
	require.True(t, inspector.IsOpen())
	assert.Equal(t, b, inspector.Selected())

	inspector.Close()
	assert.False(t, inspector.IsOpen())
	assert.Nil(t, inspector.Selected())
}

func TestBuildNodeDetail_ParentsAndStudents(t *testing.T) {
	// Arrange
	lineage := aggregates.NewLineage(fixtures.NewSampleLineage())
	b, _ := lineage.Node(2)

	// Act
	detail := BuildNodeDetail(b, lineage, nil, config.DefaultChartConfig())

	// Assert
	require.Len(t, detail.Parents, 1)
	assert.Equal(t, valueobjects.NodeID(1), detail.Parents[0].TeacherNodeID)
	assert.Equal(t, "A", detail.Parents[0].Name)
	assert.True(t, detail.Parents[0].Known)
	require.Len(t, detail.Students, 1)
	assert.Equal(t, "D", detail.Students[0].Name)
	assert.False(t, detail.Empty)
}

func TestBuildNodeDetail_ListsEveryTeacher(t *testing.T) {
	lineage := aggregates.NewLineage(fixtures.NewSampleLineage())
	d, _ := lineage.Node(4)

	detail := BuildNodeDetail(d, lineage, nil, nil)

	require.Len(t, detail.Parents, 2)
	assert.Equal(t, "B", detail.Parents[0].Name)
	assert.Equal(t, "C", detail.Parents[1].Name)
	assert.Empty(t, detail.Students)
}

func TestBuildNodeDetail_StudentsMatchDerivation(t *testing.T) {
	nodes := fixtures.NewSampleLineage()
	lineage := aggregates.NewLineage(nodes)

	for _, node := range nodes {
		detail := BuildNodeDetail(node, lineage, nil, nil)
		expected := aggregates.DeriveStudents(nodes, node.ID)
		require.Len(t, detail.Students, len(expected))
		for i, s := range expected {
			assert.Equal(t, s.ID, detail.Students[i].ID)
		}
	}
}

func TestBuildNodeDetail_FallsBackToSnapshotTeacherName(t *testing.T) {
	node := fixtures.NewNodeBuilder(2).Build()
	node.Parents = []entities.ParentRelation{{TeacherNodeID: 1}}
	lineage := aggregates.NewLineage([]*entities.ChartNode{
		fixtures.NewNodeBuilder(1).WithName("Master").WithUniqueID("master").Build(),
		node,
	})

	detail := BuildNodeDetail(node, lineage, nil, nil)

	require.Len(t, detail.Parents, 1)
	assert.Equal(t, "Master", detail.Parents[0].Name)
	assert.Equal(t, "master", detail.Parents[0].UniqueID)
}

func TestBuildNodeDetail_UnknownTeacherKeepsRelationSnapshot(t *testing.T) {
	node := fixtures.NewNodeBuilder(2).WithTeacher(99, "Elsewhere").Build()
	lineage := aggregates.NewLineage([]*entities.ChartNode{node})

	detail := BuildNodeDetail(node, lineage, nil, nil)

	require.Len(t, detail.Parents, 1)
	assert.Equal(t, "Elsewhere", detail.Parents[0].Name)
	assert.False(t, detail.Parents[0].Known)
}

func TestBuildNodeDetail_EmptyState(t *testing.T) {
	// Arrange
	cfg := config.DefaultChartConfig()
	node := fixtures.NewNodeBuilder(1).Build()
	lineage := aggregates.NewLineage([]*entities.ChartNode{node})

	// Act
	detail := BuildNodeDetail(node, lineage, nil, cfg)

	// Assert
	assert.True(t, detail.Empty)
	assert.Equal(t, cfg.EmptyMessage, detail.EmptyMessage)
	assert.Empty(t, detail.Parents)
	assert.Empty(t, detail.Students)
}

func TestBuildNodeDetail_ProfileURLAndImages(t *testing.T) {
	// Arrange
	images := new(mocks.MockImageResolver)
	images.On("Resolve", "/uploads/a.jpg").Return("https://cdn.test/uploads/a.jpg")
	images.On("Resolve", "").Return("/placeholder.png")

	teacher := fixtures.NewNodeBuilder(1).WithImage("/uploads/a.jpg").WithBiography(55).Build()
	student := fixtures.NewNodeBuilder(2).WithTeacher(1, "A").Build()
	lineage := aggregates.NewLineage([]*entities.ChartNode{teacher, student})

	// Act
	detail := BuildNodeDetail(teacher, lineage, images, config.DefaultChartConfig())

	// Assert
	assert.Equal(t, "/awlyaa/55", detail.ProfileURL)
	assert.Equal(t, "https://cdn.test/uploads/a.jpg", detail.ImageURL)
	require.Len(t, detail.Students, 1)
	assert.Equal(t, "/placeholder.png", detail.Students[0].ImageURL)
	images.AssertExpectations(t)
}

func TestBuildNodeDetail_NoBiographyNoProfileURL(t *testing.T) {
	node := fixtures.NewNodeBuilder(1).Build()

	detail := BuildNodeDetail(node, aggregates.NewLineage([]*entities.ChartNode{node}), nil, nil)

	assert.Empty(t, detail.ProfileURL)
}

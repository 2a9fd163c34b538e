package aggregates

import (
	"testing"

	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"
	"lineage/tests/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(nodes []*entities.ChartNode) []valueobjects.NodeID {
	out := make([]valueobjects.NodeID, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestDeriveRoots_ReturnsNodesWithoutParentsInInputOrder(t *testing.T) {
	// Arrange
	nodes := []*entities.ChartNode{
		fixtures.NewNodeBuilder(7).Build(),
		fixtures.NewNodeBuilder(3).WithTeacher(7, "Seven").Build(),
		fixtures.NewNodeBuilder(5).Build(),
		nil,
	}
	nodes[2].Parents = nil

	// Act
	roots := DeriveRoots(nodes)

	// Assert
	assert.Equal(t, []valueobjects.NodeID{7, 5}, ids(roots))
}

func TestDeriveRoots_Empty(t *testing.T) {
	assert.Empty(t, DeriveRoots(nil))
}

func TestDeriveStudents_MatchesAnyParentRelation(t *testing.T) {
	// Arrange
	nodes := fixtures.NewSampleLineage()

	// Act & Assert
	assert.Equal(t, []valueobjects.NodeID{2, 3}, ids(DeriveStudents(nodes, 1)))
	assert.Equal(t, []valueobjects.NodeID{4}, ids(DeriveStudents(nodes, 2)))
	assert.Equal(t, []valueobjects.NodeID{4}, ids(DeriveStudents(nodes, 3)))
	assert.Empty(t, DeriveStudents(nodes, 4))
}

func TestDeriveStudents_UnknownTeacher(t *testing.T) {
	nodes := fixtures.NewSampleLineage()
	assert.Empty(t, DeriveStudents(nodes, 999))
}

func TestNewLineage_IndexesMatchDerivation(t *testing.T) {
	// Arrange
	nodes := fixtures.NewSampleLineage()

	// Act
	lineage := NewLineage(nodes)

	// Assert
	require.Equal(t, 4, lineage.Size())
	assert.Equal(t, ids(DeriveRoots(nodes)), ids(lineage.Roots()))
	for _, n := range nodes {
		assert.Equal(t, ids(DeriveStudents(nodes, n.ID)), ids(lineage.Students(n.ID)), "students of %d", n.ID)
	}
}

func TestNewLineage_DropsNilAndLooksUpByID(t *testing.T) {
	// Arrange
	nodes := []*entities.ChartNode{nil, fixtures.NewNodeBuilder(1).WithName("A").Build()}

	// Act
	lineage := NewLineage(nodes)

	// Assert
	assert.Equal(t, 1, lineage.Size())
	node, ok := lineage.Node(1)
	require.True(t, ok)
	assert.Equal(t, "A", node.Name)
	assert.False(t, lineage.HasNode(2))
}

func TestNewLineage_RepeatedTeacherListsStudentOnce(t *testing.T) {
	// Arrange
	nodes := []*entities.ChartNode{
		fixtures.NewNodeBuilder(1).Build(),
		fixtures.NewNodeBuilder(2).WithTeacher(1, "A").WithTeacher(1, "A").Build(),
	}

	// Act
	lineage := NewLineage(nodes)

	// Assert
	assert.Equal(t, []valueobjects.NodeID{2}, ids(lineage.Students(1)))
}

func TestLineage_ReturnedSlicesAreCopies(t *testing.T) {
	lineage := NewLineage(fixtures.NewSampleLineage())

	roots := lineage.Roots()
	roots[0] = nil
	students := lineage.Students(1)
	students[0] = nil

	assert.NotNil(t, lineage.Roots()[0])
	assert.NotNil(t, lineage.Students(1)[0])
}

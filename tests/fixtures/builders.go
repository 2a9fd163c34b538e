package fixtures

import (
	"fmt"
	"time"

	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"
)

// NodeBuilder helps create test chart nodes with default values
type NodeBuilder struct {
	id        valueobjects.NodeID
	uniqueID  string
	name      string
	image     *string
	biography *valueobjects.NodeID
	parents   []entities.ParentRelation
	createdAt time.Time
}

func NewNodeBuilder(id int64) *NodeBuilder {
	return &NodeBuilder{
		id:        valueobjects.NodeID(id),
		uniqueID:  fmt.Sprintf("node-%d", id),
		name:      fmt.Sprintf("Person %d", id),
		createdAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (b *NodeBuilder) WithName(name string) *NodeBuilder {
	b.name = name
	return b
}

func (b *NodeBuilder) WithUniqueID(uniqueID string) *NodeBuilder {
	b.uniqueID = uniqueID
	return b
}

func (b *NodeBuilder) WithImage(image string) *NodeBuilder {
	b.image = &image
	return b
}

func (b *NodeBuilder) WithBiography(id int64) *NodeBuilder {
	bio := valueobjects.NodeID(id)
	b.biography = &bio
	return b
}

// WithTeacher adds a parent relation pointing at teacherID
func (b *NodeBuilder) WithTeacher(teacherID int64, teacherName string) *NodeBuilder {
	b.parents = append(b.parents, entities.ParentRelation{
		TeacherNodeID: valueobjects.NodeID(teacherID),
		Teacher: entities.TeacherInfo{
			Name:     teacherName,
			UniqueID: fmt.Sprintf("node-%d", teacherID),
		},
		CreatedAt: b.createdAt,
	})
	return b
}

func (b *NodeBuilder) Build() *entities.ChartNode {
	parents := make([]entities.ParentRelation, len(b.parents))
	copy(parents, b.parents)
	return &entities.ChartNode{
		ID:                b.id,
		UniqueID:          b.uniqueID,
		Name:              b.name,
		Image:             b.image,
		LinkedBiographyID: b.biography,
		Parents:           parents,
		CreatedAt:         b.createdAt,
		UpdatedAt:         b.createdAt,
	}
}

// NewChain builds a single line of descent 1 -> 2 -> ... -> length
func NewChain(length int) []*entities.ChartNode {
	nodes := make([]*entities.ChartNode, 0, length)
	for i := 1; i <= length; i++ {
		b := NewNodeBuilder(int64(i))
		if i > 1 {
			b.WithTeacher(int64(i-1), fmt.Sprintf("Person %d", i-1))
		}
		nodes = append(nodes, b.Build())
	}
	return nodes
}

// NewRoots builds count unrelated root nodes with ids starting at 1
func NewRoots(count int) []*entities.ChartNode {
	nodes := make([]*entities.ChartNode, 0, count)
	for i := 1; i <= count; i++ {
		nodes = append(nodes, NewNodeBuilder(int64(i)).Build())
	}
	return nodes
}

// NewSampleLineage returns A(1) -> B(2), A -> C(3), B -> D(4), C -> D
// so D has two teachers
func NewSampleLineage() []*entities.ChartNode {
	return []*entities.ChartNode{
		NewNodeBuilder(1).WithName("A").Build(),
		NewNodeBuilder(2).WithName("B").WithTeacher(1, "A").Build(),
		NewNodeBuilder(3).WithName("C").WithTeacher(1, "A").Build(),
		NewNodeBuilder(4).WithName("D").WithTeacher(2, "B").WithTeacher(3, "C").Build(),
	}
}

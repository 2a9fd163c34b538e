package aggregates

import (
	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"
)

// DeriveRoots returns every node without parent relations, in input order.
// A missing or empty parents list both count as "no teacher recorded".
func DeriveRoots(nodes []*entities.ChartNode) []*entities.ChartNode {
	roots := make([]*entities.ChartNode, 0)
	for _, node := range nodes {
		if node != nil && node.IsRoot() {
			roots = append(roots, node)
		}
	}
	return roots
}

// DeriveStudents returns every node listing teacherID among its parents, in input order.
// It is a full O(n) scan per call and is meant for the tens-to-hundreds of records
// the content API serves; use Lineage.Students for repeated lookups.
func DeriveStudents(nodes []*entities.ChartNode, teacherID valueobjects.NodeID) []*entities.ChartNode {
	students := make([]*entities.ChartNode, 0)
	for _, node := range nodes {
		if node.HasTeacher(teacherID) {
			students = append(students, node)
		}
	}
	return students
}

// Lineage is an immutable snapshot of the chart graph.
// It indexes teacher -> students once so rendering does O(1) lookups per node.
type Lineage struct {
	nodes    []*entities.ChartNode
	byID     map[valueobjects.NodeID]*entities.ChartNode
	students map[valueobjects.NodeID][]*entities.ChartNode
	roots    []*entities.ChartNode
}

// NewLineage builds a snapshot from the fetched nodes. Nil entries are dropped.
func NewLineage(nodes []*entities.ChartNode) *Lineage {
	l := &Lineage{
		nodes:    make([]*entities.ChartNode, 0, len(nodes)),
		byID:     make(map[valueobjects.NodeID]*entities.ChartNode, len(nodes)),
		students: make(map[valueobjects.NodeID][]*entities.ChartNode),
	}

	for _, node := range nodes {
		if node == nil {
			continue
		}
		l.nodes = append(l.nodes, node)
		if _, exists := l.byID[node.ID]; !exists {
			l.byID[node.ID] = node
		}

		// A student that names the same teacher twice is still listed once
		seen := make(map[valueobjects.NodeID]bool, len(node.Parents))
		for _, rel := range node.Parents {
			if seen[rel.TeacherNodeID] {
				continue
			}
			seen[rel.TeacherNodeID] = true
			l.students[rel.TeacherNodeID] = append(l.students[rel.TeacherNodeID], node)
		}
	}

	l.roots = DeriveRoots(l.nodes)
	return l
}

// Nodes returns all nodes in input order
func (l *Lineage) Nodes() []*entities.ChartNode {
	out := make([]*entities.ChartNode, len(l.nodes))
	copy(out, l.nodes)
	return out
}

// Size returns the number of nodes in the snapshot
func (l *Lineage) Size() int {
	return len(l.nodes)
}

// Roots returns the master teachers in input order
func (l *Lineage) Roots() []*entities.ChartNode {
	out := make([]*entities.ChartNode, len(l.roots))
	copy(out, l.roots)
	return out
}

// Students returns the derived students of teacherID in input order
func (l *Lineage) Students(teacherID valueobjects.NodeID) []*entities.ChartNode {
	students := l.students[teacherID]
	out := make([]*entities.ChartNode, len(students))
	copy(out, students)
	return out
}

// Node retrieves a node by ID
func (l *Lineage) Node(id valueobjects.NodeID) (*entities.ChartNode, bool) {
	node, ok := l.byID[id]
	return node, ok
}

// HasNode checks if a node exists in the snapshot
func (l *Lineage) HasNode(id valueobjects.NodeID) bool {
	_, ok := l.byID[id]
	return ok
}

package entities

import (
	"time"

	"lineage/domain/core/valueobjects"
)

// TeacherInfo is the teacher snapshot carried on a parent relation so the
// relation can be displayed without a second lookup
type TeacherInfo struct {
	Name     string `json:"name"`
	UniqueID string `json:"unique_id"`
}

// ParentRelation is a single teacher->student edge, stored on the student side
type ParentRelation struct {
	TeacherNodeID valueobjects.NodeID `json:"teacher_node_id"`
	Teacher       TeacherInfo         `json:"teacher"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ChartNode is one person in the spiritual-lineage graph.
// Nodes are read-only snapshots of the content API; nothing mutates them after normalisation.
type ChartNode struct {
	ID                valueobjects.NodeID  `json:"id"`
	UniqueID          string               `json:"unique_id"`
	Name              string               `json:"name"`
	Image             *string              `json:"image"`
	LinkedBiographyID *valueobjects.NodeID `json:"linked_biography_id,omitempty"`
	Parents           []ParentRelation     `json:"parents"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// IsRoot reports whether the node has no recorded teacher
func (n *ChartNode) IsRoot() bool {
	return n != nil && len(n.Parents) == 0
}

// HasTeacher reports whether any parent relation points at teacherID
func (n *ChartNode) HasTeacher(teacherID valueobjects.NodeID) bool {
	if n == nil {
		return false
	}
	for _, p := range n.Parents {
		if p.TeacherNodeID == teacherID {
			return true
		}
	}
	return false
}

// ImageRef returns the raw image reference or "" when absent
func (n *ChartNode) ImageRef() string {
	if n == nil || n.Image == nil {
		return ""
	}
	return *n.Image
}

// HasBiography reports whether the node links to a detailed biography record
func (n *ChartNode) HasBiography() bool {
	return n != nil && n.LinkedBiographyID != nil && !n.LinkedBiographyID.IsZero()
}

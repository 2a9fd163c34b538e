package viewmodel

import (
	"strings"
	"time"

	"lineage/application/ports"
	"lineage/domain/config"
	"lineage/domain/core/aggregates"
	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"
)

// ParentDetail is one teacher of the inspected node
type ParentDetail struct {
	TeacherNodeID valueobjects.NodeID `json:"teacher_node_id"`
	Name          string              `json:"name"`
	UniqueID      string              `json:"unique_id"`
	CreatedAt     time.Time           `json:"created_at"`
	Known         bool                `json:"known"` // teacher record present in the snapshot
}

// StudentSummary is one derived student of the inspected node
type StudentSummary struct {
	ID       valueobjects.NodeID `json:"id"`
	UniqueID string              `json:"unique_id"`
	Name     string              `json:"name"`
	ImageURL string              `json:"image_url"`
}

// NodeDetail is the Detail Inspector panel content
type NodeDetail struct {
	Node         *entities.ChartNode `json:"node"`
	ImageURL     string              `json:"image_url"`
	Parents      []ParentDetail      `json:"parents"`
	Students     []StudentSummary    `json:"students"`
	ProfileURL   string              `json:"profile_url,omitempty"`
	Empty        bool                `json:"empty"`
	EmptyMessage string              `json:"empty_message,omitempty"`
}

// Inspector shows full relationship detail for one selected node.
// States: closed (no selection) and open (showing exactly one node).
type Inspector struct {
	lineage  *aggregates.Lineage
	images   ports.ImageResolver
	cfg      *config.ChartConfig
	selected *entities.ChartNode
}

// NewInspector creates a closed inspector over a lineage snapshot
func NewInspector(lineage *aggregates.Lineage, images ports.ImageResolver, cfg *config.ChartConfig) *Inspector {
	if cfg == nil {
		cfg = config.DefaultChartConfig()
	}
	return &Inspector{
		lineage: lineage,
		images:  images,
		cfg:     cfg,
	}
}

// Open shows node, replacing any previous selection. A nil node closes the inspector.
func (i *Inspector) Open(node *entities.ChartNode) {
	i.selected = node
}

// Close clears the selection
func (i *Inspector) Close() {
	i.selected = nil
}

// IsOpen reports whether a node is selected
func (i *Inspector) IsOpen() bool {
	return i.selected != nil
}

// Selected returns the selected node or nil
func (i *Inspector) Selected() *entities.ChartNode {
	return i.selected
}

// Detail builds the panel for the selected node. Students are recomputed on every call.
func (i *Inspector) Detail() (*NodeDetail, bool) {
	if i.selected == nil {
		return nil, false
	}
	return BuildNodeDetail(i.selected, i.lineage, i.images, i.cfg), true
}

// BuildNodeDetail assembles the relationship panel for node
func BuildNodeDetail(node *entities.ChartNode, lineage *aggregates.Lineage, images ports.ImageResolver, cfg *config.ChartConfig) *NodeDetail {
	if cfg == nil {
		cfg = config.DefaultChartConfig()
	}

	detail := &NodeDetail{
		Node:     node,
		ImageURL: resolveImage(images, node.ImageRef()),
		Parents:  make([]ParentDetail, 0, len(node.Parents)),
		Students: make([]StudentSummary, 0),
	}

	for _, rel := range node.Parents {
		parent := ParentDetail{
			TeacherNodeID: rel.TeacherNodeID,
			Name:          rel.Teacher.Name,
			UniqueID:      rel.Teacher.UniqueID,
			CreatedAt:     rel.CreatedAt,
		}
		if lineage != nil {
			if teacher, ok := lineage.Node(rel.TeacherNodeID); ok {
				parent.Known = true
				if parent.Name == "" {
					parent.Name = teacher.Name
				}
				if parent.UniqueID == "" {
					parent.UniqueID = teacher.UniqueID
				}
			}
		}
		detail.Parents = append(detail.Parents, parent)
	}

	var all []*entities.ChartNode
	if lineage != nil {
		all = lineage.Nodes()
	}
	for _, student := range aggregates.DeriveStudents(all, node.ID) {
		detail.Students = append(detail.Students, StudentSummary{
			ID:       student.ID,
			UniqueID: student.UniqueID,
			Name:     student.Name,
			ImageURL: resolveImage(images, student.ImageRef()),
		})
	}

	if node.HasBiography() && cfg.BiographyRoute != "" {
		detail.ProfileURL = strings.ReplaceAll(cfg.BiographyRoute, "{id}", node.LinkedBiographyID.String())
	}

	if len(detail.Parents) == 0 && len(detail.Students) == 0 {
		detail.Empty = true
		detail.EmptyMessage = cfg.EmptyMessage
	}

	return detail
}

func resolveImage(images ports.ImageResolver, ref string) string {
	if images == nil {
		return ref
	}
	return images.Resolve(ref)
}

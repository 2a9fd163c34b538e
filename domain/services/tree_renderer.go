package services

import (
	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"
)

// DefaultMaxDepth is the rendering ceiling used when none is configured
const DefaultMaxDepth = 5

// StudentLookup yields the derived students of a teacher
type StudentLookup interface {
	Students(teacherID valueobjects.NodeID) []*entities.ChartNode
}

// ImageResolver turns a raw image reference into a displayable URL
type ImageResolver interface {
	Resolve(ref string) string
}

// TruncationReason says why a subtree was not rendered
type TruncationReason string

const (
	TruncatedByDepth TruncationReason = "depth"
	TruncatedByCycle TruncationReason = "cycle"
)

// TruncationEvent describes a subtree dropped by the renderer
type TruncationEvent struct {
	NodeID valueobjects.NodeID
	Name   string
	Depth  int
	Reason TruncationReason
}

// TruncationObserver receives truncation events. Rendering output is unaffected.
type TruncationObserver interface {
	OnTruncated(event TruncationEvent)
}

// TruncationObserverFunc adapts a function to TruncationObserver
type TruncationObserverFunc func(event TruncationEvent)

// OnTruncated implements TruncationObserver
func (f TruncationObserverFunc) OnTruncated(event TruncationEvent) {
	f(event)
}

// VisitedSet holds the ancestor ids of the current render path.
// It is never mutated; With returns an extended copy so siblings never share state.
type VisitedSet struct {
	ids map[valueobjects.NodeID]struct{}
}

// NewVisitedSet creates a visited set from the given ids
func NewVisitedSet(ids ...valueobjects.NodeID) VisitedSet {
	set := VisitedSet{ids: make(map[valueobjects.NodeID]struct{}, len(ids))}
	for _, id := range ids {
		set.ids[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is an ancestor on this path
func (v VisitedSet) Contains(id valueobjects.NodeID) bool {
	_, ok := v.ids[id]
	return ok
}

// With returns a copy of the set that also contains id
func (v VisitedSet) With(id valueobjects.NodeID) VisitedSet {
	next := VisitedSet{ids: make(map[valueobjects.NodeID]struct{}, len(v.ids)+1)}
	for k := range v.ids {
		next.ids[k] = struct{}{}
	}
	next.ids[id] = struct{}{}
	return next
}

// Len returns the number of ancestors
func (v VisitedSet) Len() int {
	return len(v.ids)
}

// TreeNode is one rendered occurrence of a chart node.
// The same ChartNode may appear in several branches when it has several teachers.
type TreeNode struct {
	Node     *entities.ChartNode `json:"node"`
	Depth    int                 `json:"depth"`
	ImageURL string              `json:"image_url"`
	Students []*TreeNode         `json:"students"`
}

// Count returns the number of rendered occurrences in this subtree
func (t *TreeNode) Count() int {
	if t == nil {
		return 0
	}
	total := 1
	for _, s := range t.Students {
		total += s.Count()
	}
	return total
}

// Walk visits every occurrence depth-first, parents before students
func (t *TreeNode) Walk(fn func(*TreeNode)) {
	if t == nil {
		return
	}
	fn(t)
	for _, s := range t.Students {
		s.Walk(fn)
	}
}

// TreeRenderer lays out a node and its derived students as a hierarchy
type TreeRenderer struct {
	lookup   StudentLookup
	images   ImageResolver
	maxDepth int
	observer TruncationObserver
}

// RendererOption configures a TreeRenderer
type RendererOption func(*TreeRenderer)

// WithMaxDepth sets the depth ceiling
func WithMaxDepth(depth int) RendererOption {
	return func(r *TreeRenderer) {
		r.maxDepth = depth
	}
}

// WithImageResolver sets the image resolver
func WithImageResolver(images ImageResolver) RendererOption {
	return func(r *TreeRenderer) {
		r.images = images
	}
}

// WithTruncationObserver sets the observer notified of dropped subtrees
func WithTruncationObserver(observer TruncationObserver) RendererOption {
	return func(r *TreeRenderer) {
		r.observer = observer
	}
}

// NewTreeRenderer creates a renderer over the given student lookup
func NewTreeRenderer(lookup StudentLookup, opts ...RendererOption) *TreeRenderer {
	r := &TreeRenderer{
		lookup:   lookup,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxDepth returns the configured depth ceiling
func (r *TreeRenderer) MaxDepth() int {
	return r.maxDepth
}

// RenderNode renders node and its students recursively.
// It returns nil for a nil node, past the depth ceiling, or when node is
// already an ancestor on the current path.
func (r *TreeRenderer) RenderNode(node *entities.ChartNode, depth int, visited VisitedSet) *TreeNode {
	if node == nil {
		return nil
	}
	if visited.Contains(node.ID) {
		r.truncated(node, depth, TruncatedByCycle)
		return nil
	}
	if depth > r.maxDepth {
		r.truncated(node, depth, TruncatedByDepth)
		return nil
	}

	tree := &TreeNode{
		Node:     node,
		Depth:    depth,
		ImageURL: r.imageURL(node),
		Students: make([]*TreeNode, 0),
	}

	path := visited.With(node.ID)
	for _, student := range r.lookup.Students(node.ID) {
		if child := r.RenderNode(student, depth+1, path); child != nil {
			tree.Students = append(tree.Students, child)
		}
	}

	return tree
}

// RenderForest renders each root at depth 0 with a fresh path
func (r *TreeRenderer) RenderForest(roots []*entities.ChartNode) []*TreeNode {
	forest := make([]*TreeNode, 0, len(roots))
	for _, root := range roots {
		if tree := r.RenderNode(root, 0, NewVisitedSet()); tree != nil {
			forest = append(forest, tree)
		}
	}
	return forest
}

func (r *TreeRenderer) imageURL(node *entities.ChartNode) string {
	if r.images == nil {
		return node.ImageRef()
	}
	return r.images.Resolve(node.ImageRef())
}

func (r *TreeRenderer) truncated(node *entities.ChartNode, depth int, reason TruncationReason) {
	if r.observer == nil {
		return
	}
	r.observer.OnTruncated(TruncationEvent{
		NodeID: node.ID,
		Name:   node.Name,
		Depth:  depth,
		Reason: reason,
	})
}

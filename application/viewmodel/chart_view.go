package viewmodel

import (
	"context"
	"errors"
	"sync"

	"lineage/application/ports"
	"lineage/domain/config"
	"lineage/domain/core/aggregates"
	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"
	"lineage/domain/services"
	"lineage/pkg/common"
	pkgerrors "lineage/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoadState is the data state of a chart view
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateLoaded  LoadState = "loaded"
	StateFailed  LoadState = "failed"
)

// ErrViewClosed is returned by Load when the view was closed before the fetch finished
var ErrViewClosed = errors.New("chart view closed before load completed")

// ChartView is the scoped state of one lineage chart view: the fetched snapshot,
// the root pager and the detail inspector. Nothing is shared between views.
type ChartView struct {
	id       string
	source   ports.ChartSource
	images   ports.ImageResolver
	cfg      *config.ChartConfig
	observer services.TruncationObserver
	logger   *zap.Logger

	mu        sync.Mutex
	alive     bool
	state     LoadState
	err       error
	lineage   *aggregates.Lineage
	renderer  *services.TreeRenderer
	pager     *Pager
	inspector *Inspector
}

// ChartViewOption configures a ChartView
type ChartViewOption func(*ChartView)

// WithImages sets the image resolver
func WithImages(images ports.ImageResolver) ChartViewOption {
	return func(v *ChartView) {
		v.images = images
	}
}

// WithObserver sets the truncation observer passed to the renderer
func WithObserver(observer services.TruncationObserver) ChartViewOption {
	return func(v *ChartView) {
		v.observer = observer
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ChartViewOption {
	return func(v *ChartView) {
		v.logger = logger
	}
}

// NewChartView creates an idle view. Call Load to fetch the snapshot.
func NewChartView(source ports.ChartSource, cfg *config.ChartConfig, opts ...ChartViewOption) *ChartView {
	if cfg == nil {
		cfg = config.DefaultChartConfig()
	}
	v := &ChartView{
		id:     uuid.New().String(),
		source: source,
		cfg:    cfg,
		logger: zap.NewNop(),
		alive:  true,
		state:  StateIdle,
		pager:  NewPager(cfg.PageSize),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = v.logger.With(zap.String("viewID", v.id))
	return v
}

// ID returns the view instance identifier used in logs
func (v *ChartView) ID() string {
	return v.id
}

// Load performs the single fetch of the view. A result arriving after Close is discarded.
func (v *ChartView) Load(ctx context.Context) error {
	v.mu.Lock()
	if !v.alive {
		v.mu.Unlock()
		return ErrViewClosed
	}
	v.state = StateLoading
	v.err = nil
	v.mu.Unlock()

	ctx = common.WithViewID(ctx, v.id)
	nodes, err := v.source.ListNodes(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.alive {
		v.logger.Debug("Discarding chart load for closed view")
		return ErrViewClosed
	}

	if err != nil {
		v.state = StateFailed
		v.err = err
		v.logger.Warn("Failed to load chart nodes", zap.Error(err))
		return err
	}

	v.apply(nodes)
	v.logger.Debug("Chart loaded",
		zap.Int("nodeCount", v.lineage.Size()),
		zap.Int("rootCount", len(v.lineage.Roots())),
	)
	return nil
}

// LoadNodes installs an already fetched snapshot
func (v *ChartView) LoadNodes(nodes []*entities.ChartNode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.alive {
		return
	}
	v.apply(nodes)
}

func (v *ChartView) apply(nodes []*entities.ChartNode) {
	v.lineage = aggregates.NewLineage(nodes)
	v.renderer = services.NewTreeRenderer(v.lineage,
		services.WithMaxDepth(v.cfg.MaxDepth),
		services.WithImageResolver(v.images),
		services.WithTruncationObserver(v.observer),
	)
	v.inspector = NewInspector(v.lineage, v.images, v.cfg)
	v.state = StateLoaded
	v.err = nil
}

// Close marks the view as gone; in-flight loads will not be applied
func (v *ChartView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alive = false
}

// State returns the load state
func (v *ChartView) State() LoadState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err returns the fetch error when State is StateFailed
func (v *ChartView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Lineage returns the loaded snapshot or nil
func (v *ChartView) Lineage() *aggregates.Lineage {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lineage
}

// Roots returns all root nodes
func (v *ChartView) Roots() []*entities.ChartNode {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.lineage == nil {
		return nil
	}
	return v.lineage.Roots()
}

// VisibleRoots returns the roots on the current page, or all roots in show-all mode
func (v *ChartView) VisibleRoots() []*entities.ChartNode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visibleRoots()
}

func (v *ChartView) visibleRoots() []*entities.ChartNode {
	if v.lineage == nil {
		return nil
	}
	return Visible(v.pager, v.lineage.Roots())
}

// Trees renders the visible roots with their bounded subtrees
func (v *ChartView) Trees() []*services.TreeNode {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.renderer == nil {
		return nil
	}
	return v.renderer.RenderForest(v.visibleRoots())
}

// Pagination returns the current pagination metadata
func (v *ChartView) Pagination() *common.PaginationInfo {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pager.Info(v.rootCount())
}

func (v *ChartView) rootCount() int {
	if v.lineage == nil {
		return 0
	}
	return len(v.lineage.Roots())
}

// Next moves to the next page of roots
func (v *ChartView) Next() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pager.Next(v.rootCount())
}

// Previous moves to the previous page of roots
func (v *ChartView) Previous() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pager.Previous()
}

// GoToPage jumps to a page, clamped to the valid range
func (v *ChartView) GoToPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pager.GoTo(page, v.rootCount())
}

// ShowAll reveals every root
func (v *ChartView) ShowAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pager.ShowAll()
}

// ShowLess returns to page 1 of the paginated list
func (v *ChartView) ShowLess() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pager.ShowLess()
}

// Select opens the inspector on the node with the given id. Layout is unaffected.
func (v *ChartView) Select(id valueobjects.NodeID) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.lineage == nil {
		return pkgerrors.NewUnavailableError("lineage chart")
	}
	node, ok := v.lineage.Node(id)
	if !ok {
		return pkgerrors.NewNotFoundError("chart node " + id.String())
	}
	v.inspector.Open(node)
	return nil
}

// CloseInspector clears the selection
func (v *ChartView) CloseInspector() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.inspector != nil {
		v.inspector.Close()
	}
}

// Detail returns the inspector panel for the selected node
func (v *ChartView) Detail() (*NodeDetail, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.inspector == nil {
		return nil, false
	}
	return v.inspector.Detail()
}

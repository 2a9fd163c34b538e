package viewmodel

import (
	"lineage/pkg/common"
)

// DefaultPageSize is the number of root nodes shown per page
const DefaultPageSize = 10

// Pager controls which slice of the root list is visible.
// Only roots are paginated; a visible root always renders its whole bounded subtree.
type Pager struct {
	page     int
	pageSize int
	showAll  bool
}

// NewPager creates a pager positioned on page 1
func NewPager(pageSize int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{
		page:     1,
		pageSize: pageSize,
	}
}

// Page returns the current 1-indexed page
func (p *Pager) Page() int {
	return p.page
}

// PageSize returns the fixed page size
func (p *Pager) PageSize() int {
	return p.pageSize
}

// ShowingAll reports whether the show-all override is active
func (p *Pager) ShowingAll() bool {
	return p.showAll
}

// TotalPages returns ceil(total / pageSize)
func (p *Pager) TotalPages(total int) int {
	return common.CalculateTotalPages(total, p.pageSize)
}

// Next advances one page; it is a no-op on the last page
func (p *Pager) Next(total int) bool {
	if p.page >= p.TotalPages(total) {
		return false
	}
	p.page++
	return true
}

// Previous goes back one page; it is a no-op on page 1
func (p *Pager) Previous() bool {
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// GoTo jumps to page, clamped to [1, TotalPages]
func (p *Pager) GoTo(page, total int) {
	last := p.TotalPages(total)
	if page > last {
		page = last
	}
	if page < 1 {
		page = 1
	}
	p.page = page
}

// ShowAll reveals every root
func (p *Pager) ShowAll() {
	p.showAll = true
}

// ShowLess returns to paginated mode on page 1
func (p *Pager) ShowLess() {
	p.showAll = false
	p.page = 1
}

// Window returns the [start, end) bounds of the visible items
func (p *Pager) Window(total int) (int, int) {
	if p.showAll {
		return 0, total
	}
	start := common.CalculateOffset(p.page, p.pageSize)
	if start > total {
		start = total
	}
	end := start + p.pageSize
	if end > total {
		end = total
	}
	return start, end
}

// Info returns pagination metadata for responses
func (p *Pager) Info(total int) *common.PaginationInfo {
	return common.BuildPaginationMeta(p.page, p.pageSize, total, p.showAll)
}

// Visible returns the slice of items the pager currently shows
func Visible[T any](p *Pager, items []T) []T {
	start, end := p.Window(len(items))
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

package pagination

const (
	// DefaultPageSize is the fixed page size of every table.
	DefaultPageSize = 50
)

// Params holds a 1-based page request.
type Params struct {
	Page     int
	PageSize int
}

// New returns Params with the page size defaulted.
func New(page, pageSize int) Params {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Params{Page: page, PageSize: pageSize}
}

// Offset returns the index of the first item on the page.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns ceil(total/pageSize).
func (p Params) TotalPages(total int) int {
	if total <= 0 || p.PageSize <= 0 {
		return 0
	}
	return (total + p.PageSize - 1) / p.PageSize
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Page >= 1 && p.Page < p.TotalPages(total)
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Page > 1
}

// Window is the visible slice of a collection.
type Window[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// Paginate slices items for page p. A page outside [1, TotalPages] yields an
// empty window rather than an error. The returned items share storage with
// the input.
func Paginate[T any](items []T, p Params) Window[T] {
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	w := Window[T]{
		Items:      []T{},
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      len(items),
		TotalPages: p.TotalPages(len(items)),
		HasMore:    p.HasNext(len(items)),
	}
	if p.Page < 1 || p.Page > w.TotalPages {
		return w
	}
	start := p.Offset()
	end := start + p.PageSize
	if end > len(items) {
		end = len(items)
	}
	w.Items = items[start:end]
	return w
}

package utils

// Pagination represents the pagination metadata attached to list responses.
type Pagination struct {
	Page       int   `json:"page"`        // page number, starting at 1
	PageSize   int   `json:"page_size"`   // items per page
	TotalItems int64 `json:"total_items"` // total number of items
	TotalPages int   `json:"total_pages"` // total number of pages
	HasNext    bool  `json:"has_next"`    // whether a next page exists
	HasPrev    bool  `json:"has_prev"`    // whether a previous page exists
}

// NewPagination creates a Pagination with the given page parameters,
// normalizing out-of-range values.
func NewPagination(page, pageSize int) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	return &Pagination{
		Page:     page,
		PageSize: pageSize,
	}
}

// SetTotal sets the total item count and recomputes the dependent fields.
func (p *Pagination) SetTotal(totalItems int64) {
	p.TotalItems = totalItems
	p.TotalPages = int((totalItems + int64(p.PageSize) - 1) / int64(p.PageSize))
	p.HasNext = p.Page < p.TotalPages
	p.HasPrev = p.Page > 1
}

// SetTotals sets both totals when the upstream already reports a page
// count, as the WooCommerce API does through its response headers.
func (p *Pagination) SetTotals(totalItems int64, totalPages int) {
	p.TotalItems = totalItems
	p.TotalPages = totalPages
	p.HasNext = p.Page < p.TotalPages
	p.HasPrev = p.Page > 1
}

// GetOffset returns the offset for a SQL query.
func (p *Pagination) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

// GetLimit returns the limit for a SQL query.
func (p *Pagination) GetLimit() int {
	return p.PageSize
}

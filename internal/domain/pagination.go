package domain

// PaginationParams selects a page of a list query.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset is the zero-based row offset of the page; page numbers below 1
// are treated as the first page.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

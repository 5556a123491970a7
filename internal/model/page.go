package model

// Page is a single page of query results plus paging metadata.
type Page[T any] struct {
	Records []T   `json:"records"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
	Current int   `json:"current"`
	Size    int   `json:"size"`
}

// NewPage computes the page count from total and size.
func NewPage[T any](records []T, total int64, current, size int) Page[T] {
	pages := int64(0)
	if size > 0 {
		pages = (total + int64(size) - 1) / int64(size)
	}
	return Page[T]{
		Records: records,
		Total:   total,
		Pages:   pages,
		Current: current,
		Size:    size,
	}
}

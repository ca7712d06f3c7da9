package models

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 2000

	// MaxPage bounds the page number so that Offset and Page+1 never
	// overflow.
	MaxPage = math.MaxInt32 - 1
)

// SortOrder is one `sort=property,dir` request parameter.
type SortOrder struct {
	Property   string
	Descending bool
}

// Pageable selects a zero-based page of a sorted collection.
type Pageable struct {
	Page int
	Size int
	Sort []SortOrder
}

func (p Pageable) Offset() int64 {
	return int64(p.Page) * int64(p.Size)
}

// Page is a slice of a collection plus the collection's total size.
type Page[T any] struct {
	Content  []T
	Total    int64
	Pageable Pageable
}

func (p Page[T]) TotalPages() int {
	if p.Pageable.Size <= 0 {
		return 1
	}
	pages := int((p.Total + int64(p.Pageable.Size) - 1) / int64(p.Pageable.Size))
	if pages == 0 {
		return 1
	}
	return pages
}

func (p Page[T]) HasNext() bool {
	return p.Pageable.Page+1 < p.TotalPages()
}

func (p Page[T]) HasPrevious() bool {
	return p.Pageable.Page > 0
}

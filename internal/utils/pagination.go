package utils

import (
	"math"
)

// DefaultPerPage is used when no (or an unsupported) page size is requested.
const DefaultPerPage = 5

// PerPageChoices is the page-size set exposed by the list UIs.
var PerPageChoices = []int{5, 10, 25, 50}

// ResolvePerPage maps the raw paginate_by parameter onto PerPageChoices,
// falling back to the default for anything outside the set.
func ResolvePerPage(raw string) int {
	n := StringToInt(raw)
	for _, choice := range PerPageChoices {
		if n == choice {
			return n
		}
	}
	return DefaultPerPage
}

// ResolvePage parses the 1-indexed page parameter. Absent or invalid
// values mean page 1, which is also what makes a page-size change without
// an explicit page land back on the first page.
func ResolvePage(raw string) int {
	if n := StringToInt(raw); n > 0 {
		return n
	}
	return 1
}

// Pagination describes one page of a collection plus the navigation
// affordances the page should show. Pages are 1-indexed.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// Paginate clamps page into [1, TotalPages] and computes affordances.
// An empty collection still has one (empty) page.
func Paginate(total int64, page, perPage int) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}
}

// Offset is the SQL offset of the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}

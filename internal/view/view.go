package view

import (
	"golang.org/x/text/collate"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// Request carries the full view state requested by a client.
type Request struct {
	Filter Filter
	Sort   SortKey
	Page   int
}

// ViewModel is everything the listing needs to render one page.
type ViewModel struct {
	Items       []*domain.Book `json:"items"`
	Page        int            `json:"page"`
	TotalPages  int            `json:"total_pages"`
	PageNumbers []int          `json:"page_numbers"`
	Total       int            `json:"total"`
}

// Compute runs the filter, sort, and pager over the given books and
// returns the resulting page. It is pure: the input slice is never
// mutated and the same inputs always produce the same ViewModel.
func Compute(books []*domain.Book, req Request, coll *collate.Collator) ViewModel {
	key := req.Sort
	if !key.Valid() {
		key = DefaultSort
	}

	filtered := req.Filter.Apply(books)
	Sort(filtered, key, coll)

	totalPages := TotalPages(len(filtered))
	page := ClampPage(req.Page, totalPages)

	return ViewModel{
		Items:       Slice(filtered, page),
		Page:        page,
		TotalPages:  totalPages,
		PageNumbers: Window(page, totalPages),
		Total:       len(filtered),
	}
}

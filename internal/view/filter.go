// Package view implements the collection view engine: the pure
// filter/sort/paginate pipeline behind the book listing, plus the
// aggregate statistics for the dashboard.
package view

import (
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// FilterAll is the sentinel meaning "don't filter on this field".
const FilterAll = "all"

// Recommend filter values.
const (
	Recommended    = "recommended"
	NotRecommended = "not_recommended"
)

// Filter is the active filter state for a listing view.
// The zero value matches every book.
type Filter struct {
	// Query is matched case-insensitively as a substring of title,
	// author, or description.
	Query string
	// Genres widens results: a book passes if it carries any selected
	// genre. Empty selection passes everything.
	Genres []string
	// WouldReadAgain is "all" or one of yes/no/maybe.
	WouldReadAgain string
	// WouldRecommend is "all", "recommended", or "not_recommended".
	WouldRecommend string
}

// Matches reports whether the book passes every active sub-filter.
func (f Filter) Matches(b *domain.Book) bool {
	return f.matchesQuery(b) &&
		f.matchesGenres(b) &&
		f.matchesReadAgain(b) &&
		f.matchesRecommend(b)
}

func (f Filter) matchesQuery(b *domain.Book) bool {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.Author), q) ||
		strings.Contains(strings.ToLower(b.Description), q)
}

func (f Filter) matchesGenres(b *domain.Book) bool {
	if len(f.Genres) == 0 {
		return true
	}
	for _, g := range f.Genres {
		if b.HasGenre(g) {
			return true
		}
	}
	return false
}

func (f Filter) matchesReadAgain(b *domain.Book) bool {
	if f.WouldReadAgain == "" || f.WouldReadAgain == FilterAll {
		return true
	}
	// A book with no verdict fails any specific filter.
	return string(b.WouldReadAgain) == f.WouldReadAgain
}

func (f Filter) matchesRecommend(b *domain.Book) bool {
	switch f.WouldRecommend {
	case "", FilterAll:
		return true
	case Recommended:
		return b.WouldRecommend != nil && *b.WouldRecommend
	case NotRecommended:
		return b.WouldRecommend != nil && !*b.WouldRecommend
	default:
		return false
	}
}

// Apply returns the books passing the filter, preserving input order.
func (f Filter) Apply(books []*domain.Book) []*domain.Book {
	out := make([]*domain.Book, 0, len(books))
	for _, b := range books {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// IsZero reports whether no sub-filter is active.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" &&
		len(f.Genres) == 0 &&
		(f.WouldReadAgain == "" || f.WouldReadAgain == FilterAll) &&
		(f.WouldRecommend == "" || f.WouldRecommend == FilterAll)
}

package view

import (
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// SortKey selects the ordering of a filtered listing.
type SortKey string

const (
	SortLatest       SortKey = "latest"
	SortOldest       SortKey = "oldest"
	SortAToZ         SortKey = "a_to_z"
	SortZToA         SortKey = "z_to_a"
	SortHighestRated SortKey = "highest_rated"
	SortLowestRated  SortKey = "lowest_rated"
	SortMostRead     SortKey = "most_read"
	SortRecentlyRead SortKey = "recently_read"
)

// DefaultSort is used when no sort key is supplied.
const DefaultSort = SortLatest

// Valid reports whether the key names a supported ordering.
func (k SortKey) Valid() bool {
	switch k {
	case SortLatest, SortOldest, SortAToZ, SortZToA,
		SortHighestRated, SortLowestRated, SortMostRead, SortRecentlyRead:
		return true
	}
	return false
}

// NewCollator builds a collator for the given BCP 47 locale tag.
// Unparseable tags fall back to English.
func NewCollator(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return collate.New(tag, collate.IgnoreCase)
}

// Sort orders books in place by the given key. The sort is stable, so
// ties keep their incoming relative order. The collator drives the
// alphabetical orderings; nil falls back to English.
func Sort(books []*domain.Book, key SortKey, coll *collate.Collator) {
	if coll == nil {
		coll = NewCollator("en")
	}
	cmp := comparator(key, coll)
	slices.SortStableFunc(books, cmp)
}

func comparator(key SortKey, coll *collate.Collator) func(a, b *domain.Book) int {
	switch key {
	case SortOldest:
		return func(a, b *domain.Book) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case SortAToZ:
		return func(a, b *domain.Book) int {
			return coll.CompareString(a.Title, b.Title)
		}
	case SortZToA:
		return func(a, b *domain.Book) int {
			return coll.CompareString(b.Title, a.Title)
		}
	case SortHighestRated:
		return func(a, b *domain.Book) int {
			return ratingOf(b) - ratingOf(a)
		}
	case SortLowestRated:
		return func(a, b *domain.Book) int {
			return ratingOf(a) - ratingOf(b)
		}
	case SortMostRead:
		return func(a, b *domain.Book) int {
			return b.ReadCount - a.ReadCount
		}
	case SortRecentlyRead:
		return func(a, b *domain.Book) int {
			return finishOf(b).Compare(finishOf(a))
		}
	default: // SortLatest
		return func(a, b *domain.Book) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
}

// Unrated books sort as rating 0, below every rated book.
func ratingOf(b *domain.Book) int {
	if b.Rating == nil {
		return 0
	}
	return *b.Rating
}

// Never-finished books sort as the epoch, last under recently_read.
func finishOf(b *domain.Book) time.Time {
	if b.FinishDate == nil {
		return time.Unix(0, 0).UTC()
	}
	return b.FinishDate.Time
}

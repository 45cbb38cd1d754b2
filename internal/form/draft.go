// Package form implements the book editing state machine: a draft
// tracked field-by-field against its persisted original, validated and
// normalized into a write payload on submit. The HTTP create/update
// paths run the same validation and normalization, so the rules hold
// whether the edit comes from a form flow or a raw API call.
package form

import (
	"slices"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// Draft holds the editable fields of a book. It is a value type:
// copies are independent and comparison is by content.
type Draft struct {
	Title          string
	Author         string
	CoverImage     string
	Description    string
	Rating         *int
	Review         string
	ReleaseDate    *domain.Date
	StartDate      *domain.Date
	FinishDate     *domain.Date
	Pages          *int
	Genres         []string
	Publisher      string
	Format         domain.Format
	Characters     []string
	Quotes         []string
	WouldReadAgain domain.WouldReadAgain
	WouldRecommend *bool
}

// EmptyDraft is the baseline for a new record. Format starts at
// physical, matching the persisted default.
func EmptyDraft() Draft {
	return Draft{Format: domain.FormatPhysical}
}

// DraftOf copies a persisted book into a draft. Collections are
// cloned so editing the draft never touches the original.
func DraftOf(b *domain.Book) Draft {
	return Draft{
		Title:          b.Title,
		Author:         b.Author,
		CoverImage:     b.CoverImage,
		Description:    b.Description,
		Rating:         cloneptr(b.Rating),
		Review:         b.Review,
		ReleaseDate:    cloneptr(b.ReleaseDate),
		StartDate:      cloneptr(b.StartDate),
		FinishDate:     cloneptr(b.FinishDate),
		Pages:          cloneptr(b.Pages),
		Genres:         slices.Clone(b.Genres),
		Publisher:      b.Publisher,
		Format:         b.Format,
		Characters:     slices.Clone(b.Characters),
		Quotes:         slices.Clone(b.Quotes),
		WouldReadAgain: b.WouldReadAgain,
		WouldRecommend: cloneptr(b.WouldRecommend),
	}
}

// Equal compares two drafts field by field. Pointer fields compare by
// pointed-to value and collections by content, so a reverted edit
// reads as equal again.
func (d Draft) Equal(other Draft) bool {
	return d.Title == other.Title &&
		d.Author == other.Author &&
		d.CoverImage == other.CoverImage &&
		d.Description == other.Description &&
		ptreq(d.Rating, other.Rating) &&
		d.Review == other.Review &&
		dateq(d.ReleaseDate, other.ReleaseDate) &&
		dateq(d.StartDate, other.StartDate) &&
		dateq(d.FinishDate, other.FinishDate) &&
		ptreq(d.Pages, other.Pages) &&
		slices.Equal(d.Genres, other.Genres) &&
		d.Publisher == other.Publisher &&
		d.Format == other.Format &&
		slices.Equal(d.Characters, other.Characters) &&
		slices.Equal(d.Quotes, other.Quotes) &&
		d.WouldReadAgain == other.WouldReadAgain &&
		ptreq(d.WouldRecommend, other.WouldRecommend)
}

// DatesOrdered reports whether finish, when set alongside start, does
// not precede it.
func (d Draft) DatesOrdered() bool {
	if d.StartDate == nil || d.FinishDate == nil {
		return true
	}
	return !d.FinishDate.Before(*d.StartDate)
}

// Progress mirrors the reading-progress step function on the draft:
// 0 before starting, 100 once finished, 50 in between.
func (d Draft) Progress() int {
	switch {
	case d.FinishDate != nil:
		return 100
	case d.StartDate != nil:
		return 50
	default:
		return 0
	}
}

// HasRequired reports whether the required fields carry non-blank
// values.
func (d Draft) HasRequired() bool {
	return strings.TrimSpace(d.Title) != "" && strings.TrimSpace(d.Author) != ""
}

func cloneptr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func ptreq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func dateq(a, b *domain.Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b.Time)
}

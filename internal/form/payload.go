package form

import (
	"slices"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/genre"
)

// Payload is the normalized write shape accepted on create and update.
// Only title and author are required; everything else may be omitted,
// and nil optional fields stay nil rather than collapsing to zero
// values.
type Payload struct {
	Title          string       `json:"title" validate:"required,max=500"`
	Author         string       `json:"author" validate:"required,max=500"`
	CoverImage     *string      `json:"cover_image,omitempty" validate:"omitempty,url"`
	Description    *string      `json:"description,omitempty"`
	Rating         *int         `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Review         *string      `json:"review,omitempty"`
	ReleaseDate    *domain.Date `json:"release_date,omitempty"`
	StartDate      *domain.Date `json:"start_date,omitempty"`
	FinishDate     *domain.Date `json:"finish_date,omitempty"`
	Pages          *int         `json:"pages,omitempty" validate:"omitempty,gt=0"`
	Genres         []string     `json:"genres,omitempty"`
	Publisher      *string      `json:"publisher,omitempty"`
	Format         string       `json:"format,omitempty" validate:"omitempty,oneof=physical digital"`
	Characters     []string     `json:"characters,omitempty"`
	Quotes         []string     `json:"quotes,omitempty"`
	WouldReadAgain *string      `json:"would_read_again,omitempty" validate:"omitempty,oneof=yes no maybe"`
	WouldRecommend *bool        `json:"would_recommend,omitempty"`
}

// Payload normalizes the draft for persistence. Blank strings become
// null, empty collections become null, and a missing format falls
// back to physical.
func (d Draft) Payload() Payload {
	format := d.Format
	if !format.Valid() {
		format = domain.FormatPhysical
	}
	return Payload{
		Title:          strings.TrimSpace(d.Title),
		Author:         strings.TrimSpace(d.Author),
		CoverImage:     strptr(d.CoverImage),
		Description:    strptr(d.Description),
		Rating:         d.Rating,
		Review:         strptr(d.Review),
		ReleaseDate:    d.ReleaseDate,
		StartDate:      d.StartDate,
		FinishDate:     d.FinishDate,
		Pages:          d.Pages,
		Genres:         nilIfEmpty(d.Genres),
		Publisher:      strptr(d.Publisher),
		Format:         string(format),
		Characters:     nilIfEmpty(d.Characters),
		Quotes:         nilIfEmpty(d.Quotes),
		WouldReadAgain: readAgainPtr(d.WouldReadAgain),
		WouldRecommend: d.WouldRecommend,
	}
}

// Normalized returns the payload with cleared optional values dropped.
// A date submitted as an empty string decodes to a zero Date behind a
// non-nil pointer; those collapse back to nil so the field reads as
// absent rather than as year one.
func (p Payload) Normalized() Payload {
	p.ReleaseDate = datePtr(p.ReleaseDate)
	p.StartDate = datePtr(p.StartDate)
	p.FinishDate = datePtr(p.FinishDate)
	return p
}

// Apply writes the payload onto a book, replacing every editable
// field. Genre slugs are canonicalized on the way in.
func (p Payload) Apply(b *domain.Book) {
	b.Title = p.Title
	b.Author = p.Author
	b.CoverImage = deref(p.CoverImage)
	b.Description = deref(p.Description)
	b.Rating = p.Rating
	b.Review = deref(p.Review)
	b.ReleaseDate = p.ReleaseDate
	b.StartDate = p.StartDate
	b.FinishDate = p.FinishDate
	b.Pages = p.Pages
	b.Genres = normalizeGenres(p.Genres)
	b.Publisher = deref(p.Publisher)
	b.Format = domain.Format(p.Format)
	if !b.Format.Valid() {
		b.Format = domain.FormatPhysical
	}
	b.Characters = p.Characters
	b.Quotes = p.Quotes
	if p.WouldReadAgain != nil {
		b.WouldReadAgain = domain.WouldReadAgain(*p.WouldReadAgain)
	} else {
		b.WouldReadAgain = ""
	}
	b.WouldRecommend = p.WouldRecommend
}

func normalizeGenres(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, g := range raw {
		slug := genre.Normalize(g)
		if slug == "" || slices.Contains(out, slug) {
			continue
		}
		out = append(out, slug)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func datePtr(d *domain.Date) *domain.Date {
	if d == nil || d.IsZero() {
		return nil
	}
	return d
}

func strptr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func readAgainPtr(w domain.WouldReadAgain) *string {
	if !w.Valid() {
		return nil
	}
	s := string(w)
	return &s
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

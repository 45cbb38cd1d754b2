package domain

// Format is the physical form a book was read in.
type Format string

const (
	// FormatPhysical is a printed copy.
	FormatPhysical Format = "physical"
	// FormatDigital is an e-book.
	FormatDigital Format = "digital"
)

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	return f == FormatPhysical || f == FormatDigital
}

// WouldReadAgain is the reader's verdict on rereading a book.
type WouldReadAgain string

const (
	ReadAgainYes   WouldReadAgain = "yes"
	ReadAgainNo    WouldReadAgain = "no"
	ReadAgainMaybe WouldReadAgain = "maybe"
)

// Valid reports whether w is one of the known verdicts.
func (w WouldReadAgain) Valid() bool {
	return w == ReadAgainYes || w == ReadAgainNo || w == ReadAgainMaybe
}

// ReadingStatus describes where a book sits in the reading lifecycle.
type ReadingStatus string

const (
	StatusNotStarted ReadingStatus = "not_started"
	StatusReading    ReadingStatus = "reading"
	StatusFinished   ReadingStatus = "finished"
)

// Book is the single tracked entity: one book in a user's collection.
// Only title, author, and format are required; everything else records
// whatever the reader chose to fill in.
type Book struct {
	Timestamps
	OwnerID        string         `json:"owner_id"`
	Title          string         `json:"title"`
	Author         string         `json:"author"`
	CoverImage     string         `json:"cover_image,omitempty"`
	Description    string         `json:"description,omitempty"`
	Rating         *int           `json:"rating,omitempty"` // 1..5
	Review         string         `json:"review,omitempty"`
	ReleaseDate    *Date          `json:"release_date,omitempty"`
	StartDate      *Date          `json:"start_date,omitempty"`
	FinishDate     *Date          `json:"finish_date,omitempty"`
	Pages          *int           `json:"pages,omitempty"`
	Genres         []string       `json:"genres,omitempty"`
	Publisher      string         `json:"publisher,omitempty"`
	Format         Format         `json:"format"`
	Characters     []string       `json:"characters,omitempty"`
	Quotes         []string       `json:"quotes,omitempty"`
	WouldReadAgain WouldReadAgain `json:"would_read_again,omitempty"`
	WouldRecommend *bool          `json:"would_recommend,omitempty"`
	ReadCount      int            `json:"read_count,omitempty"`
}

// Status derives the reading lifecycle position from the date fields.
func (b *Book) Status() ReadingStatus {
	switch {
	case b.FinishDate != nil:
		return StatusFinished
	case b.StartDate != nil:
		return StatusReading
	default:
		return StatusNotStarted
	}
}

// Progress is the display percentage for the reading state: 0 before
// starting, 100 once finished, a flat 50 in between. A heuristic, not a
// measurement.
func (b *Book) Progress() int {
	switch {
	case b.FinishDate != nil:
		return 100
	case b.StartDate != nil:
		return 50
	default:
		return 0
	}
}

// ReadingDays returns the whole days between start and finish dates,
// or 0 when either is missing.
func (b *Book) ReadingDays() int {
	if b.StartDate == nil || b.FinishDate == nil {
		return 0
	}
	days := b.StartDate.DaysUntil(*b.FinishDate)
	if days < 0 {
		return 0
	}
	return days
}

// DatesOrdered reports whether the finish date, when present alongside a
// start date, does not precede it.
func (b *Book) DatesOrdered() bool {
	if b.StartDate == nil || b.FinishDate == nil {
		return true
	}
	return !b.FinishDate.Before(*b.StartDate)
}

// HasGenre reports whether the book carries the given genre slug.
func (b *Book) HasGenre(slug string) bool {
	for _, g := range b.Genres {
		if g == slug {
			return true
		}
	}
	return false
}

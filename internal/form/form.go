package form

import (
	"context"
	"slices"
	"strings"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	apperrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/genre"
)

// State is the lifecycle position of a form.
type State string

const (
	// StateClean means the draft matches the original record (or the
	// empty baseline for a new record).
	StateClean State = "clean"
	// StateDirty means at least one tracked field differs.
	StateDirty State = "dirty"
	// StateSubmitting means a save is in flight and edits are ignored.
	StateSubmitting State = "submitting"
	// StatePersisted is terminal: the save succeeded.
	StatePersisted State = "persisted"
)

// Persister saves a normalized payload. The form does not care where
// it goes; failures return the form to Dirty with the error surfaced.
type Persister interface {
	Persist(ctx context.Context, p Payload) error
}

// PersisterFunc adapts a function to the Persister interface.
type PersisterFunc func(ctx context.Context, p Payload) error

func (f PersisterFunc) Persist(ctx context.Context, p Payload) error { return f(ctx, p) }

// Form tracks one draft edit session against its persisted original.
// Not safe for concurrent use; each session owns its form.
type Form struct {
	state     State
	original  Draft
	draft     Draft
	fieldErrs map[string]string
	submitErr error
	step      int
}

// New starts a form for a new record over the empty baseline.
func New() *Form {
	return &Form{
		state:     StateClean,
		original:  EmptyDraft(),
		draft:     EmptyDraft(),
		fieldErrs: make(map[string]string),
		step:      1,
	}
}

// Edit starts a form over an existing record. The form begins Clean.
func Edit(b *domain.Book) *Form {
	return &Form{
		state:     StateClean,
		original:  DraftOf(b),
		draft:     DraftOf(b),
		fieldErrs: make(map[string]string),
		step:      1,
	}
}

// State returns the current lifecycle state.
func (f *Form) State() State { return f.state }

// Draft returns a copy of the current draft.
func (f *Form) Draft() Draft {
	d := f.draft
	d.Genres = slices.Clone(d.Genres)
	d.Characters = slices.Clone(d.Characters)
	d.Quotes = slices.Clone(d.Quotes)
	return d
}

// FieldError returns the message recorded for a field, if any.
func (f *Form) FieldError(field string) string { return f.fieldErrs[field] }

// SubmitError returns the persistence error from the last failed
// submit, if any.
func (f *Form) SubmitError() error { return f.submitErr }

// edit applies a mutation to the draft and re-derives Clean/Dirty.
// Edits while Submitting or after Persisted are dropped.
func (f *Form) edit(fn func(*Draft)) {
	if f.state == StateSubmitting || f.state == StatePersisted {
		return
	}
	fn(&f.draft)
	if f.draft.Equal(f.original) {
		f.state = StateClean
	} else {
		f.state = StateDirty
	}
}

func (f *Form) SetTitle(v string)       { f.edit(func(d *Draft) { d.Title = v }) }
func (f *Form) SetAuthor(v string)      { f.edit(func(d *Draft) { d.Author = v }) }
func (f *Form) SetCoverImage(v string)  { f.edit(func(d *Draft) { d.CoverImage = v }) }
func (f *Form) SetDescription(v string) { f.edit(func(d *Draft) { d.Description = v }) }
func (f *Form) SetReview(v string)      { f.edit(func(d *Draft) { d.Review = v }) }
func (f *Form) SetPublisher(v string)   { f.edit(func(d *Draft) { d.Publisher = v }) }
func (f *Form) SetRating(v *int)        { f.edit(func(d *Draft) { d.Rating = v }) }
func (f *Form) SetPages(v *int)         { f.edit(func(d *Draft) { d.Pages = v }) }

func (f *Form) SetFormat(v domain.Format) {
	f.edit(func(d *Draft) { d.Format = v })
}

func (f *Form) SetWouldReadAgain(v domain.WouldReadAgain) {
	f.edit(func(d *Draft) { d.WouldReadAgain = v })
}

func (f *Form) SetWouldRecommend(v *bool) {
	f.edit(func(d *Draft) { d.WouldRecommend = v })
}

func (f *Form) SetReleaseDate(v *domain.Date) {
	f.edit(func(d *Draft) { d.ReleaseDate = v })
}

// SetStartDate updates the start date. An already-set finish date that
// now precedes it is cleared and flagged rather than kept inconsistent.
func (f *Form) SetStartDate(v *domain.Date) {
	f.edit(func(d *Draft) {
		d.StartDate = v
		f.enforceDateOrder(d)
	})
}

// SetFinishDate updates the finish date, rejecting a value earlier
// than the start date: the finish date is cleared and the violation
// recorded as a field error.
func (f *Form) SetFinishDate(v *domain.Date) {
	f.edit(func(d *Draft) {
		d.FinishDate = v
		f.enforceDateOrder(d)
	})
}

func (f *Form) enforceDateOrder(d *Draft) {
	if d.DatesOrdered() {
		delete(f.fieldErrs, "finish_date")
		return
	}
	d.FinishDate = nil
	f.fieldErrs["finish_date"] = "finish date cannot be before start date"
}

// ToggleGenre adds the slug to the selection, or removes it when
// already selected.
func (f *Form) ToggleGenre(slug string) {
	f.edit(func(d *Draft) {
		if i := slices.Index(d.Genres, slug); i >= 0 {
			d.Genres = slices.Delete(d.Genres, i, i+1)
			return
		}
		d.Genres = append(d.Genres, slug)
	})
}

// AddCustomGenre appends a free-text genre, slugified. Blank input and
// duplicates are ignored without error.
func (f *Form) AddCustomGenre(raw string) {
	slug := genre.Normalize(raw)
	if slug == "" {
		return
	}
	f.edit(func(d *Draft) {
		if !slices.Contains(d.Genres, slug) {
			d.Genres = append(d.Genres, slug)
		}
	})
}

func characters(d *Draft) *[]string { return &d.Characters }
func quotes(d *Draft) *[]string     { return &d.Quotes }

// AddCharacter appends a character name, preserving insertion order.
// Blank input and exact duplicates are ignored.
func (f *Form) AddCharacter(name string) { f.appendUnique(characters, name) }

// RemoveCharacter removes a character by exact value.
func (f *Form) RemoveCharacter(name string) { f.removeExact(characters, name) }

// AddQuote appends a quote, preserving insertion order. Blank input
// and exact duplicates are ignored.
func (f *Form) AddQuote(quote string) { f.appendUnique(quotes, quote) }

// RemoveQuote removes a quote by exact value.
func (f *Form) RemoveQuote(quote string) { f.removeExact(quotes, quote) }

func (f *Form) appendUnique(sel func(*Draft) *[]string, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	f.edit(func(d *Draft) {
		list := sel(d)
		if !slices.Contains(*list, v) {
			*list = append(*list, v)
		}
	})
}

func (f *Form) removeExact(sel func(*Draft) *[]string, v string) {
	f.edit(func(d *Draft) {
		list := sel(d)
		if i := slices.Index(*list, v); i >= 0 {
			*list = slices.Delete(*list, i, i+1)
		}
	})
}

// RequiresDiscardConfirmation reports whether cancelling should prompt
// before throwing the draft away. Only a Dirty form prompts.
func (f *Form) RequiresDiscardConfirmation() bool {
	return f.state == StateDirty
}

// Discard drops the draft and returns the form to Clean over the
// original values.
func (f *Form) Discard() {
	if f.state == StateSubmitting {
		return
	}
	f.draft = f.original
	f.draft.Genres = slices.Clone(f.original.Genres)
	f.draft.Characters = slices.Clone(f.original.Characters)
	f.draft.Quotes = slices.Clone(f.original.Quotes)
	clear(f.fieldErrs)
	f.submitErr = nil
	f.state = StateClean
}

// Validate checks the submit preconditions and records field errors.
func (f *Form) Validate() bool {
	delete(f.fieldErrs, "title")
	delete(f.fieldErrs, "author")
	if strings.TrimSpace(f.draft.Title) == "" {
		f.fieldErrs["title"] = "title is required"
	}
	if strings.TrimSpace(f.draft.Author) == "" {
		f.fieldErrs["author"] = "author is required"
	}
	return len(f.fieldErrs) == 0
}

// Submit validates and persists the draft. A validation failure keeps
// the form Dirty and returns a validation error naming the fields. A
// persistence failure keeps the form Dirty with the error recorded.
// Success moves the form to its terminal Persisted state.
func (f *Form) Submit(ctx context.Context, p Persister) error {
	if f.state == StateSubmitting || f.state == StatePersisted {
		return apperrors.Conflict("submit already in progress")
	}
	if !f.Validate() {
		f.state = StateDirty
		details := make(map[string]any, len(f.fieldErrs))
		for field, msg := range f.fieldErrs {
			details[field] = msg
		}
		return apperrors.ValidationWithDetails("invalid book", details)
	}

	f.state = StateSubmitting
	f.submitErr = nil
	if err := p.Persist(ctx, f.draft.Payload()); err != nil {
		f.state = StateDirty
		f.submitErr = err
		return err
	}
	f.original = f.draft
	f.state = StatePersisted
	return nil
}

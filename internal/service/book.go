package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	domainerrors "github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/form"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/metrics"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/validation"
	"github.com/shelfmark/shelfmark-server/internal/view"
)

// BookService owns the collection: CRUD, the listing view pipeline,
// reading quick actions, and the aggregate statistics. Every operation
// is scoped to the authenticated owner.
type BookService struct {
	store     *store.Store
	settings  *SettingsService
	validator *validation.Validator
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(
	store *store.Store,
	settings *SettingsService,
	validator *validation.Validator,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *BookService {
	return &BookService{
		store:     store,
		settings:  settings,
		validator: validator,
		metrics:   recorder,
		logger:    logger,
	}
}

// BookDetail is a book plus its derived reading fields.
type BookDetail struct {
	*domain.Book
	Status      domain.ReadingStatus `json:"status"`
	Progress    int                  `json:"progress"`
	ReadingDays int                  `json:"reading_days"`
}

func detailOf(b *domain.Book) *BookDetail {
	return &BookDetail{
		Book:        b,
		Status:      b.Status(),
		Progress:    b.Progress(),
		ReadingDays: b.ReadingDays(),
	}
}

// ListBooksRequest carries the listing query parameters.
type ListBooksRequest struct {
	Query          string
	Genres         []string
	WouldReadAgain string `validate:"omitempty,oneof=all yes no maybe"`
	WouldRecommend string `validate:"omitempty,oneof=all recommended not_recommended"`
	Sort           string
	Page           int
}

// QuickStats is the summary block rendered above the listing.
type QuickStats struct {
	Total         int     `json:"total"`
	Reading       int     `json:"reading"`
	Completed     int     `json:"completed"`
	AverageRating float64 `json:"average_rating"`
}

// BookListResponse is one page of the filtered, sorted collection.
type BookListResponse struct {
	view.ViewModel
	QuickStats QuickStats `json:"quick_stats"`
}

// ListBooks runs the view pipeline over the owner's collection. The
// alphabetical sorts collate by the owner's saved locale.
func (s *BookService) ListBooks(ctx context.Context, ownerID string, req ListBooksRequest) (*BookListResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	books, err := s.store.ListBooksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	coll := view.NewCollator(s.ownerLocale(ctx, ownerID))
	vm := view.Compute(books, view.Request{
		Filter: view.Filter{
			Query:          req.Query,
			Genres:         req.Genres,
			WouldReadAgain: req.WouldReadAgain,
			WouldRecommend: req.WouldRecommend,
		},
		Sort: view.SortKey(req.Sort),
		Page: req.Page,
	}, coll)

	stats := view.ComputeStats(books, time.Now())
	return &BookListResponse{
		ViewModel: vm,
		QuickStats: QuickStats{
			Total:         stats.Total,
			Reading:       stats.Reading,
			Completed:     stats.Completed,
			AverageRating: stats.AverageRating,
		},
	}, nil
}

// CreateBook validates and persists a new book for the owner.
func (s *BookService) CreateBook(ctx context.Context, ownerID string, payload form.Payload) (*BookDetail, error) {
	payload = payload.Normalized()
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{OwnerID: ownerID}
	book.ID = bookID
	payload.Apply(book)
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.metrics.RecordBookMutation("create")
	if s.logger != nil {
		s.logger.Info("Book created", "book_id", bookID, "owner_id", ownerID)
	}

	return detailOf(book), nil
}

// GetBook returns one of the owner's books. A book owned by someone
// else reads as absent.
func (s *BookService) GetBook(ctx context.Context, ownerID, bookID string) (*BookDetail, error) {
	book, err := s.store.GetBook(ctx, ownerID, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return detailOf(book), nil
}

// UpdateBook validates and applies a full-payload update.
func (s *BookService) UpdateBook(ctx context.Context, ownerID, bookID string, payload form.Payload) (*BookDetail, error) {
	payload = payload.Normalized()
	if err := s.validatePayload(payload); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, ownerID, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	payload.Apply(book)
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.metrics.RecordBookMutation("update")
	return detailOf(book), nil
}

// DeleteBook removes one of the owner's books.
func (s *BookService) DeleteBook(ctx context.Context, ownerID, bookID string) error {
	if err := s.store.DeleteBook(ctx, ownerID, bookID); err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return domainerrors.NotFound("book not found")
		}
		return fmt.Errorf("delete book: %w", err)
	}

	s.metrics.RecordBookMutation("delete")
	if s.logger != nil {
		s.logger.Info("Book deleted", "book_id", bookID, "owner_id", ownerID)
	}
	return nil
}

// StartReading stamps today as the start date. Starting an already
// started or finished book is a conflict.
func (s *BookService) StartReading(ctx context.Context, ownerID, bookID string) (*BookDetail, error) {
	book, err := s.store.GetBook(ctx, ownerID, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if book.Status() != domain.StatusNotStarted {
		return nil, domainerrors.Conflict("book is already started")
	}

	today := domain.Today()
	book.StartDate = &today
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.metrics.RecordBookMutation("update")
	return detailOf(book), nil
}

// FinishReading stamps today as the finish date, starting the book
// first if it never was. The date-order invariant still applies: a
// start date in the future rejects the finish.
func (s *BookService) FinishReading(ctx context.Context, ownerID, bookID string) (*BookDetail, error) {
	book, err := s.store.GetBook(ctx, ownerID, bookID)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	if book.Status() == domain.StatusFinished {
		return nil, domainerrors.Conflict("book is already finished")
	}

	today := domain.Today()
	if book.StartDate == nil {
		book.StartDate = &today
	}
	if today.Before(*book.StartDate) {
		return nil, domainerrors.Validation("finish date cannot be before start date")
	}
	book.FinishDate = &today
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.metrics.RecordBookMutation("update")
	return detailOf(book), nil
}

// Dashboard is the stats endpoint response: aggregate numbers plus the
// most recently added books.
type Dashboard struct {
	Stats         view.Stats     `json:"stats"`
	RecentlyAdded []*domain.Book `json:"recently_added"`
}

// GetDashboard computes the aggregate block over the owner's whole
// collection.
func (s *BookService) GetDashboard(ctx context.Context, ownerID string) (*Dashboard, error) {
	books, err := s.store.ListBooksByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return &Dashboard{
		Stats:         view.ComputeStats(books, time.Now()),
		RecentlyAdded: view.RecentlyAdded(books, view.RecentCount),
	}, nil
}

// validatePayload applies the field rules plus the cross-field date
// invariant the form enforces client-side.
func (s *BookService) validatePayload(payload form.Payload) error {
	if err := s.validator.Validate(payload); err != nil {
		return err
	}
	if strings.TrimSpace(payload.Title) == "" || strings.TrimSpace(payload.Author) == "" {
		return domainerrors.Validation("title and author are required")
	}
	if payload.StartDate != nil && payload.FinishDate != nil &&
		payload.FinishDate.Before(*payload.StartDate) {
		return domainerrors.Validation("finish date cannot be before start date")
	}
	return nil
}

// ownerLocale reads the owner's saved locale, defaulting to English
// when settings are missing or unreadable.
func (s *BookService) ownerLocale(ctx context.Context, ownerID string) string {
	if s.settings == nil {
		return "en"
	}
	settings, err := s.settings.GetSettings(ctx, ownerID)
	if err != nil {
		return "en"
	}
	return settings.Locale
}

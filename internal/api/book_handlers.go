package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/form"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns one page of the filtered, sorted collection with summary stats",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Create book",
		Description: "Adds a book to the collection",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Replaces a book's editable fields",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book from the collection",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "startReading",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/reading/start",
		Summary:     "Start reading",
		Description: "Stamps today as the start date",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleStartReading)

	huma.Register(s.api, huma.Operation{
		OperationID: "finishReading",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/reading/finish",
		Summary:     "Finish reading",
		Description: "Stamps today as the finish date, starting the book first if needed",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFinishReading)
}

// === DTOs ===

// ListBooksInput carries the listing query parameters. Omitted filters
// match everything; an out-of-range page clamps to the valid range.
type ListBooksInput struct {
	Query          string   `query:"q" doc:"Case-insensitive substring match on title, author, or description"`
	Genres         []string `query:"genre" doc:"Genre slugs; a book passes if it carries any of them"`
	WouldReadAgain string   `query:"would_read_again" enum:"all,yes,no,maybe" doc:"Filter by reread verdict"`
	WouldRecommend string   `query:"would_recommend" enum:"all,recommended,not_recommended" doc:"Filter by recommendation"`
	Sort           string   `query:"sort" enum:"latest,oldest,a_to_z,z_to_a,highest_rated,lowest_rated,most_read,recently_read" doc:"Sort order, defaults to latest"`
	Page           int      `query:"page" doc:"Page number, 1-based"`
}

// BookResponse contains one book in API responses.
type BookResponse struct {
	ID             string       `json:"id" doc:"Book ID"`
	Title          string       `json:"title" doc:"Book title"`
	Author         string       `json:"author" doc:"Author name"`
	CoverImage     string       `json:"cover_image,omitempty" doc:"Cover image URL"`
	Description    string       `json:"description,omitempty" doc:"Description"`
	Rating         *int         `json:"rating,omitempty" doc:"Rating, 1 to 5"`
	Review         string       `json:"review,omitempty" doc:"Reader review"`
	ReleaseDate    *domain.Date `json:"release_date,omitempty" doc:"Publication date"`
	StartDate      *domain.Date `json:"start_date,omitempty" doc:"Date reading started"`
	FinishDate     *domain.Date `json:"finish_date,omitempty" doc:"Date reading finished"`
	Pages          *int         `json:"pages,omitempty" doc:"Page count"`
	Genres         []string     `json:"genres,omitempty" doc:"Genre slugs"`
	Publisher      string       `json:"publisher,omitempty" doc:"Publisher"`
	Format         string       `json:"format" doc:"physical or digital"`
	Characters     []string     `json:"characters,omitempty" doc:"Notable characters"`
	Quotes         []string     `json:"quotes,omitempty" doc:"Saved quotes"`
	WouldReadAgain string       `json:"would_read_again,omitempty" doc:"yes, no, or maybe"`
	WouldRecommend *bool        `json:"would_recommend,omitempty" doc:"Recommendation verdict"`
	ReadCount      int          `json:"read_count,omitempty" doc:"Times read"`
	Status         string       `json:"status" doc:"not_started, reading, or finished"`
	Progress       int          `json:"progress" doc:"Lifecycle progress percent: 0, 50, or 100"`
	ReadingDays    int          `json:"reading_days" doc:"Days between start and finish"`
	CreatedAt      time.Time    `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt      time.Time    `json:"updated_at" doc:"Last update timestamp"`
}

// QuickStats is the summary block rendered above the listing.
type QuickStats struct {
	Total         int     `json:"total" doc:"Books in the collection"`
	Reading       int     `json:"reading" doc:"Books currently being read"`
	Completed     int     `json:"completed" doc:"Books finished"`
	AverageRating float64 `json:"average_rating" doc:"Mean rating over rated books"`
}

// BookListResponse is one page of the collection view.
type BookListResponse struct {
	Items       []BookResponse `json:"items" doc:"Books on this page"`
	Page        int            `json:"page" doc:"Current page, 1-based"`
	TotalPages  int            `json:"total_pages" doc:"Total pages after filtering"`
	PageNumbers []int          `json:"page_numbers" doc:"Page numbers to render in the pager"`
	Total       int            `json:"total" doc:"Books matching the filter"`
	QuickStats  QuickStats     `json:"quick_stats" doc:"Collection summary"`
}

// BookListOutput wraps the book list response for Huma.
type BookListOutput struct {
	Body BookListResponse
}

// BookInput wraps a book write payload for Huma. The payload shape and
// its normalization rules live in the form package so the editing flow
// and the API boundary stay in lockstep.
type BookInput struct {
	Body form.Payload
}

// UpdateBookInput wraps a book update for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body form.Payload
}

// GetBookInput identifies a single book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BookOutput wraps a single book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.services.Book.ListBooks(ctx, userID, service.ListBooksRequest{
		Query:          input.Query,
		Genres:         input.Genres,
		WouldReadAgain: input.WouldReadAgain,
		WouldRecommend: input.WouldRecommend,
		Sort:           input.Sort,
		Page:           input.Page,
	})
	if err != nil {
		return nil, err
	}

	items := make([]BookResponse, len(resp.Items))
	for i, b := range resp.Items {
		items[i] = mapBookResponse(b, b.Status(), b.Progress(), b.ReadingDays())
	}

	return &BookListOutput{
		Body: BookListResponse{
			Items:       items,
			Page:        resp.Page,
			TotalPages:  resp.TotalPages,
			PageNumbers: resp.PageNumbers,
			Total:       resp.Total,
			QuickStats: QuickStats{
				Total:         resp.QuickStats.Total,
				Reading:       resp.QuickStats.Reading,
				Completed:     resp.QuickStats.Completed,
				AverageRating: resp.QuickStats.AverageRating,
			},
		},
	}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *BookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Book.CreateBook(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookDetail(detail)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Book.GetBook(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookDetail(detail)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Book.UpdateBook(ctx, userID, input.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookDetail(detail)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *GetBookInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Book.DeleteBook(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

func (s *Server) handleStartReading(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Book.StartReading(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookDetail(detail)}, nil
}

func (s *Server) handleFinishReading(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	detail, err := s.services.Book.FinishReading(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookDetail(detail)}, nil
}

// === Helpers ===

func mapBookDetail(d *service.BookDetail) BookResponse {
	return mapBookResponse(d.Book, d.Status, d.Progress, d.ReadingDays)
}

func mapBookResponse(b *domain.Book, status domain.ReadingStatus, progress, readingDays int) BookResponse {
	return BookResponse{
		ID:             b.ID,
		Title:          b.Title,
		Author:         b.Author,
		CoverImage:     b.CoverImage,
		Description:    b.Description,
		Rating:         b.Rating,
		Review:         b.Review,
		ReleaseDate:    b.ReleaseDate,
		StartDate:      b.StartDate,
		FinishDate:     b.FinishDate,
		Pages:          b.Pages,
		Genres:         b.Genres,
		Publisher:      b.Publisher,
		Format:         string(b.Format),
		Characters:     b.Characters,
		Quotes:         b.Quotes,
		WouldReadAgain: string(b.WouldReadAgain),
		WouldRecommend: b.WouldRecommend,
		ReadCount:      b.ReadCount,
		Status:         string(status),
		Progress:       progress,
		ReadingDays:    readingDays,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

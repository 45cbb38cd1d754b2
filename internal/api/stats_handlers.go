package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get collection stats",
		Description: "Returns aggregate reading statistics and the most recently added books",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetStats)
}

// GenreCount is one entry in the top-genres ranking.
type GenreCount struct {
	Genre string `json:"genre" doc:"Genre slug"`
	Count int    `json:"count" doc:"Books carrying this genre"`
}

// StatsResponse contains aggregate reading statistics.
type StatsResponse struct {
	Total         int            `json:"total" doc:"Books in the collection"`
	Reading       int            `json:"reading" doc:"Books currently being read"`
	Completed     int            `json:"completed" doc:"Books finished"`
	Rated         int            `json:"rated" doc:"Books with a rating"`
	AverageRating float64        `json:"average_rating" doc:"Mean rating over rated books, 0 when none are rated"`
	AddedThisYear int            `json:"added_this_year" doc:"Books added in the current calendar year"`
	BooksPerYear  map[int]int    `json:"books_per_year" doc:"Books added per calendar year"`
	TopGenres     []GenreCount   `json:"top_genres" doc:"Most common genres, ties broken alphabetically"`
	RecentlyAdded []BookResponse `json:"recently_added" doc:"Most recently added books"`
}

// StatsOutput wraps the stats response for Huma.
type StatsOutput struct {
	Body StatsResponse
}

func (s *Server) handleGetStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	dash, err := s.services.Book.GetDashboard(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent := make([]BookResponse, len(dash.RecentlyAdded))
	for i, b := range dash.RecentlyAdded {
		recent[i] = mapBookResponse(b, b.Status(), b.Progress(), b.ReadingDays())
	}

	topGenres := make([]GenreCount, len(dash.Stats.TopGenres))
	for i, g := range dash.Stats.TopGenres {
		topGenres[i] = GenreCount{Genre: g.Genre, Count: g.Count}
	}

	return &StatsOutput{
		Body: StatsResponse{
			Total:         dash.Stats.Total,
			Reading:       dash.Stats.Reading,
			Completed:     dash.Stats.Completed,
			Rated:         dash.Stats.Rated,
			AverageRating: dash.Stats.AverageRating,
			AddedThisYear: dash.Stats.AddedThisYear,
			BooksPerYear:  dash.Stats.BooksPerYear,
			TopGenres:     topGenres,
			RecentlyAdded: recent,
		},
	}, nil
}

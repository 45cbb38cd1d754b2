package view

import (
	"sort"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// TopGenreCount caps the genre leaderboard in the stats block.
const TopGenreCount = 3

// RecentCount caps the recently-added list on the dashboard.
const RecentCount = 5

// GenreCount pairs a genre slug with how many books carry it.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// Stats is the aggregate block computed over a user's whole collection.
type Stats struct {
	Total         int          `json:"total"`
	Reading       int          `json:"reading"`
	Completed     int          `json:"completed"`
	Rated         int          `json:"rated"`
	AverageRating float64      `json:"average_rating"`
	AddedThisYear int          `json:"added_this_year"`
	BooksPerYear  map[int]int  `json:"books_per_year"`
	TopGenres     []GenreCount `json:"top_genres"`
}

// ComputeStats aggregates the collection. Books without a rating do not
// count toward the average; an all-unrated collection averages 0.
func ComputeStats(books []*domain.Book, now time.Time) Stats {
	s := Stats{
		Total:        len(books),
		BooksPerYear: make(map[int]int),
	}
	genreCounts := make(map[string]int)
	ratingSum := 0
	year := now.Year()

	for _, b := range books {
		switch b.Status() {
		case domain.StatusReading:
			s.Reading++
		case domain.StatusFinished:
			s.Completed++
		}
		if b.Rating != nil {
			s.Rated++
			ratingSum += *b.Rating
		}
		y := b.CreatedAt.Year()
		s.BooksPerYear[y]++
		if y == year {
			s.AddedThisYear++
		}
		for _, g := range b.Genres {
			genreCounts[g]++
		}
	}

	if s.Rated > 0 {
		s.AverageRating = float64(ratingSum) / float64(s.Rated)
	}
	s.TopGenres = topGenres(genreCounts, TopGenreCount)
	return s
}

// topGenres returns the n most frequent genres, ties broken
// alphabetically so the result is deterministic.
func topGenres(counts map[string]int, n int) []GenreCount {
	all := make([]GenreCount, 0, len(counts))
	for g, c := range counts {
		all = append(all, GenreCount{Genre: g, Count: c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Genre < all[j].Genre
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// RecentlyAdded returns up to n books in newest-first creation order
// without mutating the input.
func RecentlyAdded(books []*domain.Book, n int) []*domain.Book {
	out := make([]*domain.Book, len(books))
	copy(out, books)
	Sort(out, SortLatest, nil)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

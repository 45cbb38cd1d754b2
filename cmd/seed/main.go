// Package main provides a tool to seed the database with demo data.
//
// It creates a demo account and a spread of sample books covering the
// reading lifecycle, ratings, and genres, which is enough to exercise
// the listing filters and the stats dashboard.
//
// Usage:
//
//	DB_PATH=~/shelfmark/db go run ./cmd/seed
//	DB_PATH=~/shelfmark/db go run ./cmd/seed --email you@example.com --password hunter22
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

var (
	email    = flag.String("email", "demo@shelfmark.app", "Email for the demo account")
	password = flag.String("password", "bookworm", "Password for the demo account")
)

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/shelfmark/db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	user, err := ensureUser(ctx, s, *email, *password)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	fmt.Printf("Demo user ready: %s (%s)\n", user.Email, user.ID)

	created := 0
	for _, b := range sampleBooks() {
		b.OwnerID = user.ID
		b.ID = id.MustGenerate("book")
		if b.Format == "" {
			b.Format = domain.FormatPhysical
		}
		b.InitTimestamps()

		if err := s.CreateBook(ctx, b); err != nil {
			log.Printf("Failed to create %q: %v", b.Title, err)
			continue
		}
		created++
	}

	fmt.Printf("Created %d books. Log in as %s to browse them.\n", created, user.Email)
}

func ensureUser(ctx context.Context, s *store.Store, email, password string) (*domain.User, error) {
	if existing, err := s.Users.GetByIndex(ctx, "email", email); err == nil {
		return existing, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Demo Reader",
	}
	user.ID = id.MustGenerate("user")
	user.InitTimestamps()

	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		return nil, err
	}
	return user, nil
}

func sampleBooks() []*domain.Book {
	rate := func(n int) *int { return &n }
	date := func(offsetDays int) *domain.Date {
		t := time.Now().UTC().AddDate(0, 0, offsetDays)
		d := domain.NewDate(t.Year(), t.Month(), t.Day())
		return &d
	}
	yes := true
	no := false

	return []*domain.Book{
		{
			Title: "The Dispossessed", Author: "Ursula K. Le Guin",
			Genres: []string{"scifi"}, Rating: rate(5),
			StartDate: date(-40), FinishDate: date(-25),
			Review:         "An ambiguous utopia, still sharp fifty years on.",
			WouldReadAgain: domain.ReadAgainYes, WouldRecommend: &yes,
			ReadCount: 2,
		},
		{
			Title: "Piranesi", Author: "Susanna Clarke",
			Genres: []string{"fantasy"}, Rating: rate(5),
			StartDate: date(-20), FinishDate: date(-17),
			WouldReadAgain: domain.ReadAgainYes, WouldRecommend: &yes,
		},
		{
			Title: "Project Hail Mary", Author: "Andy Weir",
			Genres: []string{"scifi"}, Rating: rate(4),
			Format:    domain.FormatDigital,
			StartDate: date(-90), FinishDate: date(-80),
			WouldRecommend: &yes,
		},
		{
			Title: "The Name of the Wind", Author: "Patrick Rothfuss",
			Genres: []string{"fantasy"}, Rating: rate(4),
			StartDate: date(-400), FinishDate: date(-380),
			WouldReadAgain: domain.ReadAgainMaybe,
			Pages:          rate(662),
		},
		{
			Title: "Educated", Author: "Tara Westover",
			Genres: []string{"memoir"}, Rating: rate(4),
			StartDate: date(-300), FinishDate: date(-290),
			WouldRecommend: &yes,
		},
		{
			Title: "The Midnight Library", Author: "Matt Haig",
			Genres: []string{"fiction"}, Rating: rate(3),
			StartDate: date(-200), FinishDate: date(-195),
			WouldReadAgain: domain.ReadAgainNo, WouldRecommend: &no,
		},
		{
			Title: "A Memory Called Empire", Author: "Arkady Martine",
			Genres: []string{"scifi"},
			StartDate: date(-5),
		},
		{
			Title: "The Overstory", Author: "Richard Powers",
			Genres: []string{"fiction"},
			StartDate: date(-12),
		},
		{
			Title: "Braiding Sweetgrass", Author: "Robin Wall Kimmerer",
			Genres: []string{"nonfiction"},
		},
		{
			Title: "The Fifth Season", Author: "N. K. Jemisin",
			Genres: []string{"fantasy", "scifi"},
			Pages:  rate(468),
		},
		{
			Title: "Gideon the Ninth", Author: "Tamsyn Muir",
			Genres: []string{"scifi", "horror"},
			Format: domain.FormatDigital,
		},
		{
			Title: "Circe", Author: "Madeline Miller",
			Genres: []string{"fantasy", "mythology"},
		},
	}
}

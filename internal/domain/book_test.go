package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(year int, month time.Month, day int) *Date {
	d := NewDate(year, month, day)
	return &d
}

func TestBookStatus(t *testing.T) {
	tests := []struct {
		name   string
		start  *Date
		finish *Date
		want   ReadingStatus
	}{
		{"no dates", nil, nil, StatusNotStarted},
		{"started only", datePtr(2025, 3, 1), nil, StatusReading},
		{"finished", datePtr(2025, 3, 1), datePtr(2025, 3, 20), StatusFinished},
		{"finish without start", nil, datePtr(2025, 3, 20), StatusFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Book{StartDate: tt.start, FinishDate: tt.finish}
			assert.Equal(t, tt.want, b.Status())
		})
	}
}

func TestBookProgress(t *testing.T) {
	b := &Book{}
	assert.Equal(t, 0, b.Progress())

	b.StartDate = datePtr(2025, 1, 1)
	assert.Equal(t, 50, b.Progress())

	b.FinishDate = datePtr(2025, 2, 1)
	assert.Equal(t, 100, b.Progress())
}

func TestBookReadingDays(t *testing.T) {
	b := &Book{
		StartDate:  datePtr(2025, 3, 1),
		FinishDate: datePtr(2025, 3, 15),
	}
	assert.Equal(t, 14, b.ReadingDays())

	b.FinishDate = nil
	assert.Equal(t, 0, b.ReadingDays())
}

func TestBookDatesOrdered(t *testing.T) {
	b := &Book{
		StartDate:  datePtr(2025, 3, 10),
		FinishDate: datePtr(2025, 3, 1),
	}
	assert.False(t, b.DatesOrdered())

	b.FinishDate = datePtr(2025, 3, 10) // same day is fine
	assert.True(t, b.DatesOrdered())

	b.FinishDate = nil
	assert.True(t, b.DatesOrdered())
}

func TestBookHasGenre(t *testing.T) {
	b := &Book{Genres: []string{"fantasy", "scifi"}}
	assert.True(t, b.HasGenre("fantasy"))
	assert.False(t, b.HasGenre("horror"))

	empty := &Book{}
	assert.False(t, empty.HasGenre("fantasy"))
}

func TestFormatValid(t *testing.T) {
	assert.True(t, FormatPhysical.Valid())
	assert.True(t, FormatDigital.Valid())
	assert.False(t, Format("audiobook").Valid())
	assert.False(t, Format("").Valid())
}

func TestWouldReadAgainValid(t *testing.T) {
	assert.True(t, ReadAgainYes.Valid())
	assert.True(t, ReadAgainMaybe.Valid())
	assert.False(t, WouldReadAgain("definitely").Valid())
}

func TestTimestamps(t *testing.T) {
	b := &Book{}
	b.InitTimestamps()

	require.False(t, b.CreatedAt.IsZero())
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)

	before := b.UpdatedAt
	time.Sleep(time.Millisecond)
	b.Touch()
	assert.True(t, b.UpdatedAt.After(before))
	assert.Equal(t, before, b.CreatedAt) // CreatedAt untouched
}

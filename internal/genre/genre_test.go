package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Science Fiction", "science-fiction"},
		{"Sci-Fi/Fantasy", "sci-fi-fantasy"},
		{"  Poetry  ", "poetry"},
		{"Children's", "children-s"},
		{"Café Stories", "cafe-stories"},
		{"UPPERCASE", "uppercase"},
		{"multiple   spaces", "multiple-spaces"},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestVocabulary(t *testing.T) {
	assert.Len(t, Vocabulary, 30)

	seen := make(map[string]bool)
	for _, g := range Vocabulary {
		assert.False(t, seen[g.Slug], "duplicate slug %s", g.Slug)
		seen[g.Slug] = true
		assert.NotEmpty(t, g.Name)
	}
}

func TestVocabularySlugsMatchNames(t *testing.T) {
	// Sci-Fi is the one display name whose slug is compressed.
	assert.True(t, IsStandard("scifi"))
	assert.False(t, IsStandard("sci-fi"))
}

func TestIsStandard(t *testing.T) {
	assert.True(t, IsStandard("fantasy"))
	assert.True(t, IsStandard("other"))
	assert.False(t, IsStandard("litrpg"))
	assert.False(t, IsStandard(""))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Sci-Fi", "scifi"},
		{"Science Fiction", "scifi"},
		{"Crime", "detective"},
		{"Humour", "comedy"},
		{"Memoir", "biography"},
		{"Fantasy", "fantasy"},
		{"LitRPG", "litrpg"}, // unknown stays slugified
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestSlugs(t *testing.T) {
	slugs := Slugs()
	assert.Len(t, slugs, len(Vocabulary))
	assert.Equal(t, "action", slugs[0])
	assert.Equal(t, "other", slugs[len(slugs)-1])
}

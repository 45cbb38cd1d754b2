package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"book prefix", "book"},
		{"user prefix", "user"},
		{"session prefix", "session"},
		{"reset prefix", "reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Generate(tt.prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(id, tt.prefix+"-"))

			rest := strings.TrimPrefix(id, tt.prefix+"-")
			assert.Len(t, rest, length)
		})
	}
}

func TestGenerateUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id, err := Generate("book")
		require.NoError(t, err)

		_, dup := seen[id]
		require.False(t, dup, "duplicate ID generated: %s", id)
		seen[id] = struct{}{}
	}
}

func TestGenerateAlphabet(t *testing.T) {
	id, err := Generate("user")
	require.NoError(t, err)

	rest := strings.TrimPrefix(id, "user-")
	for _, c := range rest {
		assert.Contains(t, alphabet, string(c))
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		id := MustGenerate("book")
		assert.True(t, strings.HasPrefix(id, "book-"))
	})
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Generate("book")
	}
}

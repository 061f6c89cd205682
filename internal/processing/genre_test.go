package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyGenres(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"slash separated", "Sci Fi/Thriller", []string{"Sci-Fi", "Thriller"}},
		{"drops unknown", "Adventure, Comedy, Family", []string{"Adventure", "Comedy"}},
		{"canonical order wins", "Thriller | Action", []string{"Action", "Thriller"}},
		{"science fiction spelled out", "science fiction; drama", []string{"Drama", "Sci-Fi"}},
		{"animated variant", "Animated Feature", []string{"Animation"}},
		{"one token many genres", "romantic comedy-drama", []string{"Comedy", "Drama"}},
		{"no match", "Family", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyGenres(tt.raw))
		})
	}
}

func TestMainGenre(t *testing.T) {
	main := MainGenre("Sci Fi/Thriller")
	require.NotNil(t, main)
	assert.Equal(t, "Sci-Fi", *main)

	a := MainGenre("Comedy, Action")
	b := MainGenre("Action, Comedy")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, "Action", *a)
	assert.Equal(t, *a, *b)

	assert.Nil(t, MainGenre("Family"))
}

func TestGenreString(t *testing.T) {
	assert.Equal(t, "Adventure, Comedy", GenreString(ClassifyGenres("Comedy/Adventure/Family")))
}

func TestIsCanonicalGenre(t *testing.T) {
	g, ok := IsCanonicalGenre(" sci-fi ")
	assert.True(t, ok)
	assert.Equal(t, "Sci-Fi", g)

	_, ok = IsCanonicalGenre("Family")
	assert.False(t, ok)

	assert.Len(t, CanonicalGenres, 12)
}

package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireFloat(t *testing.T, want float64, got *float64) {
	t.Helper()
	require.NotNil(t, got)
	assert.InDelta(t, want, *got, 1e-9)
}

func TestNormalizeColumnName(t *testing.T) {
	tests := map[string]string{
		"Title":           "title",
		"  Release Year ": "release_year",
		"Gross ($)":       "gross_",
		"Run\tTime":       "run_time",
		"budget_num":      "budget_num",
		"Votes!!":         "votes",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeColumnName(in), "input %q", in)
		assert.Equal(t, want, NormalizeColumnName(want), "idempotent on %q", want)
	}
}

func TestParseCurrency(t *testing.T) {
	requireFloat(t, 1234567, ParseCurrency("$1,234,567"))
	requireFloat(t, 120_000_000, ParseCurrency("120M"))
	requireFloat(t, 2500, ParseCurrency("$2.5k"))
	requireFloat(t, 99.5, ParseCurrency(" 99.5 "))

	assert.Nil(t, ParseCurrency("Unknown"))
	assert.Nil(t, ParseCurrency(" unknown "))
	assert.Nil(t, ParseCurrency(""))
	assert.Nil(t, ParseCurrency("$"))
	assert.Nil(t, ParseCurrency("1.2.3"))
}

func TestParseSuffixedNumber(t *testing.T) {
	requireFloat(t, 1500, ParseSuffixedNumber("1.5K"))
	requireFloat(t, 3e6, ParseSuffixedNumber("3m"))
	requireFloat(t, -2e6, ParseSuffixedNumber("-2M"))
	requireFloat(t, 42, ParseSuffixedNumber("42 units"))

	assert.Nil(t, ParseSuffixedNumber(""))
	assert.Nil(t, ParseSuffixedNumber("$"))
	assert.Nil(t, ParseSuffixedNumber("K"))
	assert.Nil(t, ParseSuffixedNumber("-"))
}

func TestParseRuntime(t *testing.T) {
	requireFloat(t, 142, ParseRuntime("142 min"))
	requireFloat(t, 2, ParseRuntime("2h 22min"))
	assert.Nil(t, ParseRuntime("unknown"))
	assert.Nil(t, ParseRuntime(""))
}

func TestParseVotesAndGross(t *testing.T) {
	requireFloat(t, 2_343_110, ParseVotes("2,343,110"))
	assert.Nil(t, ParseVotes("n/a"))

	requireFloat(t, 28_341_469, ParseGross("$28,341,469"))
	requireFloat(t, 28.34, ParseGross("$28.34M"))
	assert.Nil(t, ParseGross(""))
}

func TestParseRatingAndYear(t *testing.T) {
	requireFloat(t, 9.3, ParseRating("9.3"))
	requireFloat(t, 11, ParseRating("11"))
	assert.Nil(t, ParseRating("NaN"))
	assert.Nil(t, ParseRating("great"))

	y := ParseYear("1994.0")
	require.NotNil(t, y)
	assert.Equal(t, 1994, *y)
	assert.Nil(t, ParseYear("nineteen"))
}

func TestParseMonth(t *testing.T) {
	for in, want := range map[string]int{"January": 1, "feb": 2, "SEPTEMBER": 9, "Dec": 12} {
		got := ParseMonth(in)
		require.NotNil(t, got, in)
		assert.Equal(t, want, *got, in)
	}
	assert.Nil(t, ParseMonth("Ja"))
	assert.Nil(t, ParseMonth(""))
	assert.Nil(t, ParseMonth("13"))
}

func TestParseMonth_TrimsBeforePrefix(t *testing.T) {
	got := ParseMonth("  March ")
	require.NotNil(t, got)
	assert.Equal(t, 3, *got)
}

func TestDecade(t *testing.T) {
	year := func(y int) *int { return &y }

	assert.Equal(t, 1990, *Decade(year(1994)))
	assert.Equal(t, 2000, *Decade(year(2000)))
	assert.Equal(t, -10, *Decade(year(-5)))
	assert.Nil(t, Decade(nil))
}

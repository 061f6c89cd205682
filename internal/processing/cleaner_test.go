package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawMovies() *Table {
	return &Table{
		Columns: []string{" Title", "Year", "Month", "Run Time", "Votes", "Gross", "Rating", "Budget", "Income", "Genre"},
		Rows: [][]string{
			{"Alpha", "2000", "March", "120 min", "1,200", "$1,000", "8.1", "$100", "$400", "Action, Comedy"},
			{"Alpha", "2000", "March", "121 min", "1,300", "$2,000", "8.2", "$100", "$500", "Drama"},
			{"Alpha", "2001", "April", "90 min", "800", "", "6.0", "Unknown", "$50", "Family"},
			{"Beta", "1999.0", "dec", "", "", "", "bad", "120M", "300M", "Sci Fi/Thriller"},
		},
	}
}

func TestClean_DerivesColumns(t *testing.T) {
	raw := rawMovies()
	clean, report := Clean(raw)

	assert.Equal(t, "Title", raw.Columns[0][1:], "input table must not be modified")

	for _, col := range []string{ColTitle, ColYear, ColDecade, ColMonthNum, ColVotesNum, ColGrossUSD, ColRating, ColBudgetNum, ColIncomeNum, ColGenreMain, ColBudget, ColIncome, ColGenre} {
		assert.True(t, clean.Has(col), "missing column %s", col)
	}
	assert.True(t, clean.Has("run_time"))
	assert.False(t, clean.Has(ColRuntimeMin), "runtime_min needs a column named runtime")

	require.Equal(t, 3, clean.Len())
	assert.Equal(t, 4, report.RowsIn)
	assert.Equal(t, 3, report.RowsOut)
	assert.Equal(t, 1, report.DuplicatesDropped)

	cell := func(row int, col string) string {
		v, ok := clean.Value(row, col)
		require.True(t, ok, col)
		return v
	}

	assert.Equal(t, "Alpha", cell(0, ColTitle))
	assert.Equal(t, "2000", cell(0, ColYear))
	assert.Equal(t, "2000", cell(0, ColDecade))
	assert.Equal(t, "3", cell(0, ColMonthNum))
	assert.Equal(t, "1200", cell(0, ColVotesNum))
	assert.Equal(t, "1000", cell(0, ColGrossUSD))
	assert.Equal(t, "100", cell(0, ColBudgetNum))
	assert.Equal(t, "400", cell(0, ColIncomeNum))
	assert.Equal(t, "Action", cell(0, ColGenreMain))
	assert.Equal(t, "$100", cell(0, ColBudget), "raw column kept")

	assert.Equal(t, "", cell(1, ColBudgetNum), "Unknown maps to missing")
	assert.Equal(t, "", cell(1, ColGenreMain))

	assert.Equal(t, "1999", cell(2, ColYear))
	assert.Equal(t, "1990", cell(2, ColDecade))
	assert.Equal(t, "12", cell(2, ColMonthNum))
	assert.Equal(t, "", cell(2, ColRating))
	assert.Equal(t, "120000000", cell(2, ColBudgetNum))
	assert.Equal(t, "Sci-Fi", cell(2, ColGenreMain))

	assert.Equal(t, 1, report.ParseMisses[ColRating])
	assert.Equal(t, 1, report.ParseMisses[ColBudgetNum])
	assert.Equal(t, 1, report.GenreUnmatched)
}

func TestClean_Deduplication(t *testing.T) {
	raw := &Table{
		Columns: []string{"title", "year", "note"},
		Rows: [][]string{
			{"X", "2000", "a"},
			{"X", "2000", "b"},
			{"X", "2001", "c"},
		},
	}

	clean, report := Clean(raw)
	require.Equal(t, 2, clean.Len())
	assert.Equal(t, []string{"X", "2000", "a", "2000"}, clean.Rows[0])
	assert.Equal(t, []string{"X", "2001", "c", "2000"}, clean.Rows[1])
	assert.Equal(t, 1, report.DuplicatesDropped)
}

func TestClean_NoDedupWithoutYear(t *testing.T) {
	raw := &Table{
		Columns: []string{"title"},
		Rows:    [][]string{{"X"}, {"X"}},
	}

	clean, report := Clean(raw)
	assert.Equal(t, 2, clean.Len())
	assert.Zero(t, report.DuplicatesDropped)
}

func TestClean_Idempotent(t *testing.T) {
	once, _ := Clean(rawMovies())
	twice, report := Clean(once)

	assert.Equal(t, once.Columns, twice.Columns)
	assert.Equal(t, once.Rows, twice.Rows)
	assert.Zero(t, report.DuplicatesDropped)
}

func TestClean_Empty(t *testing.T) {
	clean, report := Clean(NewTable())
	assert.Equal(t, 0, clean.Len())
	assert.Zero(t, report.RowsOut)

	clean, _ = Clean(nil)
	assert.Equal(t, 0, clean.Len())

	headerOnly, _ := Clean(NewTable("Title", "Year", "Budget", "Genre"))
	assert.Equal(t, 0, headerOnly.Len())
	assert.True(t, headerOnly.Has(ColBudgetNum))
	assert.True(t, headerOnly.Has(ColGenreMain))
}

func TestClean_GenresColumn(t *testing.T) {
	raw := &Table{
		Columns: []string{"Title", "Genres"},
		Rows:    [][]string{{"Z", "horror|mystery"}},
	}
	clean, _ := Clean(raw)
	v, ok := clean.Value(0, ColGenreMain)
	require.True(t, ok)
	assert.Equal(t, "Horror", v)
}

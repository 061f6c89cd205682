package processing

// Column names read and written by the pipeline, after normalization.
const (
	ColTitle      = "title"
	ColYear       = "year"
	ColMonth      = "month"
	ColRuntime    = "runtime"
	ColVotes      = "votes"
	ColGross      = "gross"
	ColRating     = "rating"
	ColBudget     = "budget"
	ColIncome     = "income"
	ColGenre      = "genre"
	ColGenres     = "genres"
	ColRuntimeMin = "runtime_min"
	ColVotesNum   = "votes_num"
	ColGrossUSD   = "gross_usd"
	ColMonthNum   = "month_num"
	ColDecade     = "decade"
	ColBudgetNum  = "budget_num"
	ColIncomeNum  = "income_num"
	ColGenreMain  = "genre_main"
	ColProfit     = "profit"
	ColROI        = "roi"
	ColHit        = "hit"
)

// derivation turns one present source column into a target column.
// When target equals source the column is coerced in place.
type derivation struct {
	source string
	target string
	parse  func(string) (string, bool)
}

func floatDerivation(parse func(string) *float64) func(string) (string, bool) {
	return func(raw string) (string, bool) {
		v := parse(raw)
		return formatFloat(v), v != nil
	}
}

func intDerivation(parse func(string) *int) func(string) (string, bool) {
	return func(raw string) (string, bool) {
		v := parse(raw)
		return formatInt(v), v != nil
	}
}

// cleaningSchema is the subset of columns Clean knows how to derive. Entries
// whose source column is absent are skipped.
var cleaningSchema = []derivation{
	{source: ColRuntime, target: ColRuntimeMin, parse: floatDerivation(ParseRuntime)},
	{source: ColVotes, target: ColVotesNum, parse: floatDerivation(ParseVotes)},
	{source: ColGross, target: ColGrossUSD, parse: floatDerivation(ParseGross)},
	{source: ColRating, target: ColRating, parse: floatDerivation(ParseRating)},
	{source: ColMonth, target: ColMonthNum, parse: intDerivation(ParseMonth)},
	{source: ColYear, target: ColYear, parse: intDerivation(ParseYear)},
	{source: ColBudget, target: ColBudgetNum, parse: floatDerivation(ParseCurrency)},
	{source: ColIncome, target: ColIncomeNum, parse: floatDerivation(ParseCurrency)},
}

// CleanReport summarizes one Clean run
type CleanReport struct {
	RowsIn            int
	RowsOut           int
	DuplicatesDropped int
	// ParseMisses counts non-empty source cells that produced a missing value, per target column.
	ParseMisses    map[string]int
	GenreUnmatched int
	DerivedColumns []string
}

// Clean turns a raw table into the clean table. The input is not modified.
// Original columns are kept; derived columns are appended (or replaced when
// already present, which makes Clean idempotent).
func Clean(raw *Table) (*Table, *CleanReport) {
	report := &CleanReport{ParseMisses: make(map[string]int)}
	if raw == nil {
		return NewTable(), report
	}

	t := raw.Clone()
	report.RowsIn = t.Len()

	for i, c := range t.Columns {
		t.Columns[i] = NormalizeColumnName(c)
	}

	for _, d := range cleaningSchema {
		src, ok := t.Column(d.source)
		if !ok {
			continue
		}
		out := make([]string, len(src))
		for r, cell := range src {
			v, parsed := d.parse(cell)
			if !parsed && cell != "" {
				report.ParseMisses[d.target]++
			}
			out[r] = v
		}
		t.SetColumn(d.target, out)
		report.DerivedColumns = append(report.DerivedColumns, d.target)

		if d.target == ColYear {
			deriveDecade(t)
			report.DerivedColumns = append(report.DerivedColumns, ColDecade)
		}
	}

	if t.Has(ColTitle) && t.Has(ColYear) {
		before := t.Len()
		dropDuplicates(t, ColTitle, ColYear)
		report.DuplicatesDropped = before - t.Len()
	}

	if genreCol := genreColumn(t); genreCol != "" {
		src, _ := t.Column(genreCol)
		out := make([]string, len(src))
		for r, cell := range src {
			main := MainGenre(cell)
			if main == nil && cell != "" {
				report.GenreUnmatched++
			}
			out[r] = formatString(main)
		}
		t.SetColumn(ColGenreMain, out)
		report.DerivedColumns = append(report.DerivedColumns, ColGenreMain)
	}

	report.RowsOut = t.Len()
	return t, report
}

func deriveDecade(t *Table) {
	years, _ := t.Column(ColYear)
	out := make([]string, len(years))
	for r, y := range years {
		out[r] = formatInt(Decade(ParseYear(y)))
	}
	t.SetColumn(ColDecade, out)
}

// dropDuplicates keeps the first row for every (a, b) key, in input order.
func dropDuplicates(t *Table, a, b string) {
	ia, ib := t.Index(a), t.Index(b)
	type key struct{ a, b string }
	seen := make(map[key]bool, len(t.Rows))

	kept := t.Rows[:0]
	for _, row := range t.Rows {
		k := key{cellAt(row, ia), cellAt(row, ib)}
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, row)
	}
	t.Rows = kept
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func genreColumn(t *Table) string {
	for _, c := range []string{ColGenre, ColGenres} {
		if t.Has(c) {
			return c
		}
	}
	return ""
}

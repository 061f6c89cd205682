package processing

import (
	"strconv"
	"strings"

	"movie-analyzer/internal/models"
)

// SnapshotColumns are the record fields a served snapshot carries.
var SnapshotColumns = []string{
	ColTitle, ColYear, ColDecade, ColMonthNum,
	ColRuntimeMin, ColVotesNum, ColGrossUSD, ColRating,
	ColBudgetNum, ColIncomeNum, ColGenreMain,
	ColProfit, ColROI, ColHit,
}

// BuildRecords projects a clean (or annotated) table onto typed records, one
// per row and in row order. Absent columns leave the field nil.
func BuildRecords(t *Table) []*models.MovieRecord {
	if t == nil {
		return nil
	}

	idx := func(col string) int { return t.Index(col) }
	var (
		iTitle   = idx(ColTitle)
		iYear    = idx(ColYear)
		iDecade  = idx(ColDecade)
		iMonth   = idx(ColMonthNum)
		iRuntime = idx(ColRuntimeMin)
		iVotes   = idx(ColVotesNum)
		iGross   = idx(ColGrossUSD)
		iRating  = idx(ColRating)
		iBudget  = idx(ColBudgetNum)
		iIncome  = idx(ColIncomeNum)
		iGenre   = idx(ColGenreMain)
		iProfit  = idx(ColProfit)
		iROI     = idx(ColROI)
		iHit     = idx(ColHit)
	)

	records := make([]*models.MovieRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := &models.MovieRecord{
			Title:      cellAt(row, iTitle),
			Year:       ParseYear(cellAt(row, iYear)),
			Decade:     ParseYear(cellAt(row, iDecade)),
			MonthNum:   parseIntCell(cellAt(row, iMonth)),
			RuntimeMin: parseFinite(cellAt(row, iRuntime)),
			VotesNum:   parseFinite(cellAt(row, iVotes)),
			GrossUSD:   parseFinite(cellAt(row, iGross)),
			Rating:     parseFinite(cellAt(row, iRating)),
			BudgetNum:  parseFinite(cellAt(row, iBudget)),
			IncomeNum:  parseFinite(cellAt(row, iIncome)),
			Profit:     parseFinite(cellAt(row, iProfit)),
			ROI:        parseFinite(cellAt(row, iROI)),
			Hit:        parseBoolCell(cellAt(row, iHit)),
		}
		if g := strings.TrimSpace(cellAt(row, iGenre)); g != "" {
			rec.GenreMain = &g
		}
		records = append(records, rec)
	}
	return records
}

// AnnotateTable writes profit, roi and hit from records into t.
// records must be aligned with t.Rows.
func AnnotateTable(t *Table, records []*models.MovieRecord) {
	profit := make([]string, len(records))
	roi := make([]string, len(records))
	hit := make([]string, len(records))
	for i, r := range records {
		profit[i] = formatFloat(r.Profit)
		roi[i] = formatFloat(r.ROI)
		hit[i] = formatBool(r.Hit)
	}
	t.SetColumn(ColProfit, profit)
	t.SetColumn(ColROI, roi)
	t.SetColumn(ColHit, hit)
}

func parseIntCell(s string) *int {
	v := parseFinite(s)
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func parseBoolCell(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

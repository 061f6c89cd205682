package processing

// Table is an in-memory delimited table: one header, string cells.
// Empty cells are missing values.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given header
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of col, or -1.
func (t *Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Has reports whether the column exists
func (t *Table) Has(col string) bool {
	return t.Index(col) >= 0
}

// Value returns the cell at (row, col); ok is false when the column is absent.
func (t *Table) Value(row int, col string) (string, bool) {
	i := t.Index(col)
	if i < 0 || i >= len(t.Rows[row]) {
		return "", i >= 0
	}
	return t.Rows[row][i], true
}

// Column returns a copy of one column's cells.
func (t *Table) Column(col string) ([]string, bool) {
	i := t.Index(col)
	if i < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out, true
}

// SetColumn replaces col in place when present, otherwise appends it.
// values must have one entry per row.
func (t *Table) SetColumn(col string, values []string) {
	i := t.Index(col)
	if i < 0 {
		t.Columns = append(t.Columns, col)
		i = len(t.Columns) - 1
	}
	for r := range t.Rows {
		for len(t.Rows[r]) <= i {
			t.Rows[r] = append(t.Rows[r], "")
		}
		t.Rows[r][i] = values[r]
	}
}

// Clone deep-copies the table
func (t *Table) Clone() *Table {
	c := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		c.Rows[i] = append([]string(nil), row...)
	}
	return c
}

package workbook

// Table is one sheet's tabular data. Rows are aligned to Columns; a row never
// has fewer cells than there are columns once it leaves a decoder.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Value
}

// Columns holds column indexes in the order they were requested.
type Columns []int

// NewTable builds a table, padding short rows with empty cells.
func NewTable(name string, columns []string, rows [][]Value) *Table {
	t := &Table{Name: name, Columns: append([]string(nil), columns...)}
	t.Rows = make([][]Value, 0, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, padRow(r, len(columns)))
	}
	return t
}

func padRow(r []Value, n int) []Value {
	if len(r) >= n {
		return r[:n]
	}
	out := make([]Value, n)
	copy(out, r)
	return out
}

// Index returns the position of a column.
func (t *Table) Index(col string) (int, bool) {
	if t == nil {
		return 0, false
	}
	for i, c := range t.Columns {
		if c == col {
			return i, true
		}
	}
	return 0, false
}

// Has reports whether the column is present.
func (t *Table) Has(col string) bool {
	_, ok := t.Index(col)
	return ok
}

// Require resolves every requested column. It returns false when any of them
// is absent, in which case the dependent consumer produces no output.
func (t *Table) Require(cols ...string) (Columns, bool) {
	out := make(Columns, 0, len(cols))
	for _, c := range cols {
		i, ok := t.Index(c)
		if !ok {
			return nil, false
		}
		out = append(out, i)
	}
	return out, true
}

// Missing lists the requested columns the table lacks.
func (t *Table) Missing(cols ...string) []string {
	var miss []string
	for _, c := range cols {
		if !t.Has(c) {
			miss = append(miss, c)
		}
	}
	return miss
}

// Empty reports a table without rows (including a nil table).
func (t *Table) Empty() bool { return t == nil || len(t.Rows) == 0 }

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Cell returns the value at row i, column j, or an empty value when out of range.
func (t *Table) Cell(i, j int) Value {
	if i < 0 || i >= len(t.Rows) || j < 0 || j >= len(t.Rows[i]) {
		return Empty()
	}
	return t.Rows[i][j]
}

// Clone returns a deep copy of the row slices; Value itself is immutable.
func (t *Table) Clone() *Table {
	if t == nil {
		return &Table{}
	}
	out := &Table{Name: t.Name, Columns: append([]string(nil), t.Columns...)}
	out.Rows = make([][]Value, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = append([]Value(nil), r...)
	}
	return out
}

// NumericColumn reports whether every non-blank cell in column j is a number
// and at least one is present.
func (t *Table) NumericColumn(j int) bool {
	seen := false
	for _, r := range t.Rows {
		if j >= len(r) || r[j].IsBlank() {
			continue
		}
		if r[j].Kind != KindNumber {
			return false
		}
		seen = true
	}
	return seen
}

// Package workbook loads spreadsheet files into immutable, typed tables and
// provides the month normalizer and the content-keyed load cache.
package workbook

// Workbook is the full set of sheets loaded from one file. It is not mutated
// after construction.
type Workbook struct {
	// Name is the source file name, or "sample" for the synthetic workbook.
	Name   string
	order  []string
	sheets map[string]*Table
}

// New assembles a workbook from tables, keeping their order. A later table with
// the same name replaces an earlier one.
func New(name string, tables ...*Table) *Workbook {
	wb := &Workbook{Name: name, sheets: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		if _, dup := wb.sheets[t.Name]; !dup {
			wb.order = append(wb.order, t.Name)
		}
		wb.sheets[t.Name] = t
	}
	return wb
}

// Sheet returns the named table or an empty one when the sheet is missing.
func (wb *Workbook) Sheet(name string) *Table {
	if wb != nil {
		if t, ok := wb.sheets[name]; ok {
			return t
		}
	}
	return &Table{Name: name}
}

// Lookup returns the named table and whether it exists.
func (wb *Workbook) Lookup(name string) (*Table, bool) {
	if wb == nil {
		return nil, false
	}
	t, ok := wb.sheets[name]
	return t, ok
}

// Names lists the sheet names in file order.
func (wb *Workbook) Names() []string {
	if wb == nil {
		return nil
	}
	return append([]string(nil), wb.order...)
}

// Sheets lists the tables in file order.
func (wb *Workbook) Sheets() []*Table {
	if wb == nil {
		return nil
	}
	out := make([]*Table, 0, len(wb.order))
	for _, n := range wb.order {
		out = append(out, wb.sheets[n])
	}
	return out
}

// Len returns the number of sheets.
func (wb *Workbook) Len() int {
	if wb == nil {
		return 0
	}
	return len(wb.order)
}

package dataset

import (
	"strings"
)

// RawTable is one sheet or table as read from a source, before normalization.
type RawTable struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Workbook is the full multi-table content of a source at one version.
type Workbook struct {
	Version string     `json:"version,omitempty"`
	Tables  []RawTable `json:"tables"`
}

// Table finds a table by name, ignoring case and surrounding whitespace.
func (w *Workbook) Table(name string) (*RawTable, bool) {
	want := headerKey(name)
	for i := range w.Tables {
		if headerKey(w.Tables[i].Name) == want {
			return &w.Tables[i], true
		}
	}
	return nil, false
}

func headerKey(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// columns indexes the header of a table by canonical (trimmed, upper-cased) name.
type columns map[string]int

func (t *RawTable) columns() columns {
	idx := make(columns, len(t.Header))
	for i, h := range t.Header {
		k := headerKey(h)
		if _, dup := idx[k]; dup || k == "" {
			continue
		}
		idx[k] = i
	}
	return idx
}

func (c columns) find(name string) (int, bool) {
	i, ok := c[headerKey(name)]
	return i, ok
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

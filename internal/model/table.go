package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRowArity is returned when a row's column count differs from the header.
var ErrRowArity = errors.New("row column count does not match header")

// Row is an ordered tuple of display strings.
type Row []string

// Table is the result of one extractor run.
// The first row is always the header, and every row has the header's arity.
//
// Design decision: We keep cells as plain strings rather than typed columns.
// Every output format prints text, and the run history stores tables as
// JSON, so a string grid survives the round trip unchanged.
type Table struct {
	// header is a private copy of the labels given to NewTable.
	header Row

	// rows holds data rows in insertion order.
	rows []Row
}

// NewTable creates an empty table with the given header labels.
func NewTable(header ...string) *Table {
	h := make(Row, len(header))
	copy(h, header)
	return &Table{
		header: h,
		rows:   make([]Row, 0),
	}
}

// Append adds a data row. It rejects rows whose column count differs
// from the header so that the table stays rectangular.
func (t *Table) Append(cells ...string) error {
	if len(cells) != len(t.header) {
		return fmt.Errorf("%w: got %d columns, want %d", ErrRowArity, len(cells), len(t.header))
	}
	row := make(Row, len(cells))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return nil
}

// Header returns the header row.
func (t *Table) Header() Row {
	return t.header
}

// Data returns the data rows without the header.
func (t *Table) Data() []Row {
	return t.rows
}

// Rows returns the header followed by every data row.
func (t *Table) Rows() []Row {
	all := make([]Row, 0, len(t.rows)+1)
	all = append(all, t.header)
	all = append(all, t.rows...)
	return all
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Records returns the data rows as maps keyed by header label.
// Used by the JSON writer.
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, len(t.rows))
	for i, row := range t.rows {
		rec := make(map[string]string, len(t.header))
		for j, label := range t.header {
			rec[label] = row[j]
		}
		records[i] = rec
	}
	return records
}

// tableJSON is the storage representation of a Table.
type tableJSON struct {
	Header Row   `json:"header"`
	Rows   []Row `json:"rows"`
}

// MarshalJSON encodes the table as {"header": [...], "rows": [[...], ...]}.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{Header: t.header, Rows: t.rows})
}

// UnmarshalJSON decodes a table and re-checks row arity.
func (t *Table) UnmarshalJSON(data []byte) error {
	var tj tableJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}
	decoded := NewTable(tj.Header...)
	for _, row := range tj.Rows {
		if err := decoded.Append(row...); err != nil {
			return err
		}
	}
	*t = *decoded
	return nil
}

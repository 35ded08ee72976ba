package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestTable tests table construction and the header invariant.
func TestTable(t *testing.T) {
	t.Parallel()

	t.Run("first row is the header", func(t *testing.T) {
		t.Parallel()

		table := NewTable("Link", "Version", "Status")
		if err := table.Append("https://docs.python.org/3.12/", "3.12", "stable"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []Row{
			{"Link", "Version", "Status"},
			{"https://docs.python.org/3.12/", "3.12", "stable"},
		}
		if diff := cmp.Diff(want, table.Rows()); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
		if table.Len() != 1 {
			t.Errorf("expected 1 data row, got %d", table.Len())
		}
	})

	t.Run("rejects rows with the wrong arity", func(t *testing.T) {
		t.Parallel()

		table := NewTable("Category", "Status")
		err := table.Append("Draft")
		if !errors.Is(err, ErrRowArity) {
			t.Errorf("expected ErrRowArity, got %v", err)
		}
		err = table.Append("Draft", "1", "extra")
		if !errors.Is(err, ErrRowArity) {
			t.Errorf("expected ErrRowArity, got %v", err)
		}
		if table.Len() != 0 {
			t.Errorf("expected rejected rows not to be stored, got %d rows", table.Len())
		}
	})

	t.Run("appended cells are copied", func(t *testing.T) {
		t.Parallel()

		cells := []string{"a", "b"}
		table := NewTable("x", "y")
		if err := table.Append(cells...); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cells[0] = "changed"
		if table.Data()[0][0] != "a" {
			t.Errorf("expected table to keep its own copy, got %q", table.Data()[0][0])
		}
	})

	t.Run("records are keyed by header", func(t *testing.T) {
		t.Parallel()

		table := NewTable("Category", "Status")
		_ = table.Append("Final", "12")
		records := table.Records()
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		if records[0]["Category"] != "Final" || records[0]["Status"] != "12" {
			t.Errorf("unexpected record: %v", records[0])
		}
	})
}

// TestTableJSON tests the storage encoding used by run history.
func TestTableJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes stored tables", func(t *testing.T) {
		t.Parallel()

		table := NewTable("Category", "Status")
		_ = table.Append("Total", "9")

		data, err := json.Marshal(table)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		var decoded Table
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if diff := cmp.Diff(table.Rows(), decoded.Rows()); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects ragged stored rows", func(t *testing.T) {
		t.Parallel()

		var decoded Table
		err := json.Unmarshal([]byte(`{"header":["a","b"],"rows":[["only-one"]]}`), &decoded)
		if !errors.Is(err, ErrRowArity) {
			t.Errorf("expected ErrRowArity, got %v", err)
		}
	})
}

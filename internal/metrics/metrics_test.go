package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m := New()
	m.CacheHit()
	m.CacheHit()
	m.RequestDone(nil, 200*time.Millisecond)
	m.RequestDone(errors.New("boom"), time.Second)
	m.SetMismatches(3)
	m.RunFinished("pep", 10, 90*time.Second, time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "textfile", "pydocscan.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("failed to read metrics file: %v", err)
	}
	got := string(data)

	for _, want := range []string{
		`pydocscan_requests_total{result="cache"} 2`,
		`pydocscan_requests_total{result="ok"} 1`,
		`pydocscan_requests_total{result="error"} 1`,
		`pydocscan_request_duration_seconds_count 2`,
		`pydocscan_pep_status_mismatches 3`,
		`pydocscan_run_duration_seconds{mode="pep"} 90`,
		`pydocscan_result_rows{mode="pep"} 10`,
		`pydocscan_last_success_timestamp_seconds{mode="pep"} 1.7e+09`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("metrics file missing %q:\n%s", want, got)
		}
	}
}

func TestRunFinishedWithoutTable(t *testing.T) {
	t.Parallel()

	m := New()
	m.RunFinished("download", -1, time.Second, time.Now())

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, f := range families {
		if f.GetName() == "pydocscan_result_rows" {
			t.Errorf("expected no result_rows series for a run without a table, got %v", f)
		}
	}
}

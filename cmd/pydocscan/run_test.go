package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/pydocscan/internal/config"
	"github.com/nao1215/pydocscan/internal/database"
	"github.com/nao1215/pydocscan/internal/model"
	"github.com/nao1215/pydocscan/internal/output"
	"github.com/nao1215/pydocscan/internal/scraper"
)

const docsIndex = `<html><body>
<div class="sphinxsidebarwrapper">
<h3>Docs by version</h3>
<ul>
<li><a href="https://docs.python.org/3.13/">Python 3.13 (stable)</a></li>
<li><a href="https://docs.python.org/3.12/">Python 3.12 (security-fixes)</a></li>
<li><a href="https://www.python.org/doc/versions/">All versions</a></li>
</ul>
</div>
</body></html>`

// newDocsServer serves body for /3/ and counts requests.
func newDocsServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/3/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testConfig(t *testing.T, docsURL string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.Mode = model.ModeLatestVersions
	cfg.DocsURL = docsURL
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.ResultsDir = filepath.Join(dir, "results")
	cfg.DownloadsDir = filepath.Join(dir, "downloads")
	cfg.RequestsPerSecond = 1000
	return cfg
}

func testEnv(stdout, logs *bytes.Buffer) runEnv {
	return runEnv{
		stdout: stdout,
		logger: slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		args:   []string{"latest-versions"},
	}
}

func TestRunParser(t *testing.T) {
	t.Parallel()

	t.Run("writes results and stores the run", func(t *testing.T) {
		t.Parallel()

		srv, _ := newDocsServer(t, docsIndex)
		cfg := testConfig(t, srv.URL+"/3/")

		var stdout, logs bytes.Buffer
		if err := runParser(context.Background(), cfg, output.FormatJSON, testEnv(&stdout, &logs)); err != nil {
			t.Fatalf("runParser() error = %v", err)
		}

		var got []map[string]string
		if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, stdout.String())
		}
		want := []map[string]string{
			{"Link": "https://docs.python.org/3.13/", "Version": "3.13", "Status": "stable"},
			{"Link": "https://docs.python.org/3.12/", "Version": "3.12", "Status": "security-fixes"},
			{"Link": "https://www.python.org/doc/versions/", "Version": "All versions", "Status": ""},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}

		for _, msg := range []string{"parser started", "parser finished"} {
			if !strings.Contains(logs.String(), msg) {
				t.Errorf("expected log %q, got:\n%s", msg, logs.String())
			}
		}

		db, err := database.Open(cfg.CacheDir, database.DefaultOptions())
		if err != nil {
			t.Fatalf("database.Open() error = %v", err)
		}
		defer db.Close()

		runs, err := db.ListRuns(context.Background(), "latest-versions")
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 stored run, got %d", len(runs))
		}
	})

	t.Run("pretty output keeps header labels", func(t *testing.T) {
		t.Parallel()

		srv, _ := newDocsServer(t, docsIndex)
		cfg := testConfig(t, srv.URL+"/3/")

		var stdout, logs bytes.Buffer
		if err := runParser(context.Background(), cfg, output.FormatPretty, testEnv(&stdout, &logs)); err != nil {
			t.Fatalf("runParser() error = %v", err)
		}

		out := stdout.String()
		header := strings.SplitN(out, "\n", 3)
		if len(header) < 2 {
			t.Fatalf("unexpected pretty output:\n%s", out)
		}
		for _, want := range []string{"Link", "Version", "Status"} {
			if !strings.Contains(header[1], want) {
				t.Errorf("header row %q missing label %q", header[1], want)
			}
		}
		for _, unwanted := range []string{"LINK", "VERSION", "STATUS"} {
			if strings.Contains(out, unwanted) {
				t.Errorf("header was case-folded, found %q:\n%s", unwanted, out)
			}
		}
	})

	t.Run("second run is served from cache until cleared", func(t *testing.T) {
		t.Parallel()

		srv, hits := newDocsServer(t, docsIndex)
		cfg := testConfig(t, srv.URL+"/3/")

		for range 2 {
			var stdout, logs bytes.Buffer
			if err := runParser(context.Background(), cfg, output.FormatPretty, testEnv(&stdout, &logs)); err != nil {
				t.Fatalf("runParser() error = %v", err)
			}
		}
		if got := hits.Load(); got != 1 {
			t.Errorf("expected 1 request with a warm cache, got %d", got)
		}

		cfg.ClearCache = true
		var stdout, logs bytes.Buffer
		if err := runParser(context.Background(), cfg, output.FormatPretty, testEnv(&stdout, &logs)); err != nil {
			t.Fatalf("runParser() error = %v", err)
		}
		if got := hits.Load(); got != 2 {
			t.Errorf("expected a refetch after clearing the cache, got %d requests", got)
		}
		if !strings.Contains(logs.String(), "cache cleared") {
			t.Errorf("expected 'cache cleared' log, got:\n%s", logs.String())
		}
	})

	t.Run("writes metrics textfile", func(t *testing.T) {
		t.Parallel()

		srv, _ := newDocsServer(t, docsIndex)
		cfg := testConfig(t, srv.URL+"/3/")
		cfg.MetricsFile = filepath.Join(t.TempDir(), "pydocscan.prom")

		var stdout, logs bytes.Buffer
		if err := runParser(context.Background(), cfg, output.FormatPretty, testEnv(&stdout, &logs)); err != nil {
			t.Fatalf("runParser() error = %v", err)
		}

		data, err := os.ReadFile(cfg.MetricsFile)
		if err != nil {
			t.Fatalf("failed to read metrics file: %v", err)
		}
		for _, want := range []string{
			`pydocscan_requests_total{result="ok"} 1`,
			`pydocscan_result_rows{mode="latest-versions"} 3`,
			`pydocscan_last_success_timestamp_seconds{mode="latest-versions"}`,
		} {
			if !strings.Contains(string(data), want) {
				t.Errorf("metrics file missing %q:\n%s", want, data)
			}
		}
	})

	t.Run("file output lands in results dir", func(t *testing.T) {
		t.Parallel()

		srv, _ := newDocsServer(t, docsIndex)
		cfg := testConfig(t, srv.URL+"/3/")

		var stdout, logs bytes.Buffer
		if err := runParser(context.Background(), cfg, output.FormatFile, testEnv(&stdout, &logs)); err != nil {
			t.Fatalf("runParser() error = %v", err)
		}

		matches, err := filepath.Glob(filepath.Join(cfg.ResultsDir, "latest-versions_*.csv"))
		if err != nil {
			t.Fatal(err)
		}
		if len(matches) != 1 {
			t.Fatalf("expected one results file, got %v", matches)
		}
		if stdout.Len() != 0 {
			t.Errorf("expected nothing on stdout, got %q", stdout.String())
		}
	})

	t.Run("structural failure is an error", func(t *testing.T) {
		t.Parallel()

		srv, _ := newDocsServer(t, `<html><body><p>moved</p></body></html>`)
		cfg := testConfig(t, srv.URL+"/3/")

		var stdout, logs bytes.Buffer
		err := runParser(context.Background(), cfg, output.FormatPretty, testEnv(&stdout, &logs))
		if !errors.Is(err, scraper.ErrPageStructure) {
			t.Errorf("expected ErrPageStructure, got %v", err)
		}
	})

	t.Run("unreachable site yields no results", func(t *testing.T) {
		t.Parallel()

		srv, _ := newDocsServer(t, docsIndex)
		cfg := testConfig(t, srv.URL+"/missing/")

		var stdout, logs bytes.Buffer
		if err := runParser(context.Background(), cfg, output.FormatPretty, testEnv(&stdout, &logs)); err != nil {
			t.Fatalf("runParser() error = %v", err)
		}
		if stdout.Len() != 0 {
			t.Errorf("expected no output, got %q", stdout.String())
		}
		if !strings.Contains(logs.String(), "no results") {
			t.Errorf("expected 'no results' log, got:\n%s", logs.String())
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("file values are overridden by flags", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		configPath := filepath.Join(dir, "pydocscan.yaml")
		content := "docsURL: https://docs.example.org/3/\noutput: markdown\ntimeout: 5s\n"
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"--config", configPath, "-o", "json", "-c"}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.DocsURL != "https://docs.example.org/3/" {
			t.Errorf("DocsURL = %q", cfg.DocsURL)
		}
		if cfg.Output != "json" {
			t.Errorf("Output = %q, want json", cfg.Output)
		}
		if cfg.Timeout.String() != "5s" {
			t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
		}
		if !cfg.ClearCache {
			t.Error("expected ClearCache to be set")
		}
	})

	t.Run("explicit missing config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
			t.Fatalf("ParseFlags() error = %v", err)
		}
		if _, err := loadConfig(cmd); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestExecute runs the whole command tree once against a local server.
func TestExecute(t *testing.T) {
	srv, _ := newDocsServer(t, docsIndex)
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".pydocscan")
	content := "docsURL: " + srv.URL + "/3/\nrequestsPerSecond: 100\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		"latest-versions",
		"--config", configPath,
		"--cache-dir", filepath.Join(dir, "cache"),
		"--log-file", filepath.Join(dir, "logs", "pydocscan.log"),
		"-o", "markdown",
	})
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, stderr.String())
	}

	if !strings.Contains(stdout.String(), "# pydocscan: latest-versions") {
		t.Errorf("expected markdown output, got:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "parser started") {
		t.Errorf("expected console log, got:\n%s", stderr.String())
	}

	logData, err := os.ReadFile(filepath.Join(dir, "logs", "pydocscan.log")) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(logData), "parser finished") {
		t.Errorf("expected log file to contain 'parser finished', got:\n%s", logData)
	}

	t.Run("history lists and shows the run", func(t *testing.T) {
		var list bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&list)
		cmd.SetArgs([]string{"history", "--config", configPath, "--cache-dir", filepath.Join(dir, "cache")})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("history error = %v", err)
		}
		if !strings.Contains(list.String(), "latest-versions") {
			t.Errorf("expected run listing, got:\n%s", list.String())
		}

		var show bytes.Buffer
		cmd = NewRootCmd()
		cmd.SetOut(&show)
		cmd.SetArgs([]string{"history", "--config", configPath, "--cache-dir", filepath.Join(dir, "cache"), "--show", "1", "-o", "json"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("history --show error = %v", err)
		}
		if !json.Valid(show.Bytes()) || !strings.Contains(show.String(), "security-fixes") {
			t.Errorf("expected stored table as JSON, got:\n%s", show.String())
		}
	})

	t.Run("history of an unknown run", func(t *testing.T) {
		cmd := NewRootCmd()
		cmd.SetOut(io.Discard)
		cmd.SetArgs([]string{"history", "--config", configPath, "--cache-dir", filepath.Join(dir, "cache"), "--show", "99"})
		if err := cmd.Execute(); !errors.Is(err, database.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

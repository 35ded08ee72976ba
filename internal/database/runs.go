package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nao1215/pydocscan/internal/model"
)

// Run is a stored result table of a previous run.
type Run struct {
	// ID is the row id assigned by SQLite. IDs grow with every saved run.
	ID int64

	// Mode is the mode that produced the table.
	Mode model.Mode

	// CreatedAt is when the run was saved.
	CreatedAt time.Time

	// Table is nil in the results of ListRuns.
	Table *model.Table
}

// SaveRun stores the result table of a run and returns its ID.
// The table is stored as JSON so that later runs can render it in any
// output format.
func (cdb *CacheDB) SaveRun(ctx context.Context, mode model.Mode, table *model.Table) (int64, error) {
	if table == nil {
		return 0, errors.New("cannot save a run without a table")
	}

	tableJSON, err := json.Marshal(table)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize table: %w", err)
	}

	query := `
	INSERT INTO runs (mode, created_at, table_json)
	VALUES (?, ?, ?)
	`

	result, err := cdb.db.ExecContext(ctx, query, mode.String(), formatTimestamp(cdb.now()), string(tableJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	return result.LastInsertId()
}

// ListRuns returns stored runs, newest first, without their tables.
// An empty mode name lists runs of every mode.
func (cdb *CacheDB) ListRuns(ctx context.Context, mode string) ([]Run, error) {
	query := `
	SELECT id, mode, created_at
	FROM runs
	WHERE ? = '' OR mode = ?
	ORDER BY created_at DESC, id DESC
	`

	// The mode is bound twice: once for the empty check, once for the match.
	rows, err := cdb.db.QueryContext(ctx, query, mode, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var modeName, createdAt string
		if err := rows.Scan(&run.ID, &modeName, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		// A mode name this build does not know means the database was
		// written by a different version.
		m, err := model.ParseMode(modeName)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", run.ID, err)
		}
		run.Mode = m
		run.CreatedAt = parseTimestamp(createdAt)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun returns a stored run including its table.
// It returns ErrNotFound when no run has the given ID.
func (cdb *CacheDB) GetRun(ctx context.Context, id int64) (*Run, error) {
	query := `
	SELECT id, mode, created_at, table_json
	FROM runs
	WHERE id = ?
	`

	var run Run
	var modeName, createdAt, tableJSON string
	err := cdb.db.QueryRowContext(ctx, query, id).Scan(&run.ID, &modeName, &createdAt, &tableJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	m, err := model.ParseMode(modeName)
	if err != nil {
		return nil, fmt.Errorf("run %d: %w", run.ID, err)
	}
	run.Mode = m
	run.CreatedAt = parseTimestamp(createdAt)

	var table model.Table
	if err := json.Unmarshal([]byte(tableJSON), &table); err != nil {
		return nil, fmt.Errorf("failed to parse table: %w", err)
	}
	run.Table = &table

	return &run, nil
}

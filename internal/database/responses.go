package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nao1215/pydocscan/internal/model"
)

// GetResponse returns the cached response for url.
// It returns (nil, nil) when there is no entry or the entry is older than the TTL.
//
// Expired entries are left in place. The next successful fetch of the same
// URL overwrites them through PutResponse.
func (cdb *CacheDB) GetResponse(ctx context.Context, url string) (*model.Page, error) {
	query := `
	SELECT url, status_code, content_type, body, hash, fetched_at
	FROM responses
	WHERE url = ?
	`

	var page model.Page
	var contentType, hash sql.NullString
	var fetchedAt string

	err := cdb.db.QueryRowContext(ctx, query, url).Scan(
		&page.URL,
		&page.StatusCode,
		&contentType,
		&page.Body,
		&hash,
		&fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached response: %w", err)
	}

	page.ContentType = contentType.String
	page.Hash = hash.String
	page.FetchedAt = parseTimestamp(fetchedAt)
	// Marks the page so the fetcher can count it as a hit.
	page.FromCache = true

	if page.Expired(cdb.ttl, cdb.now()) {
		return nil, nil
	}
	return &page, nil
}

// PutResponse inserts or replaces the cached response for page.URL.
// A zero FetchedAt is stamped with the current time so the TTL applies.
func (cdb *CacheDB) PutResponse(ctx context.Context, page *model.Page) error {
	if page == nil {
		return nil
	}

	fetchedAt := page.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = cdb.now()
	}

	// Upsert keyed by URL keeps one entry per page.
	query := `
	INSERT INTO responses (url, status_code, content_type, body, hash, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		body = excluded.body,
		hash = excluded.hash,
		fetched_at = excluded.fetched_at
	`

	_, err := cdb.db.ExecContext(ctx, query,
		page.URL,
		page.StatusCode,
		page.ContentType,
		page.Body,
		page.Hash,
		formatTimestamp(fetchedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to store cached response: %w", err)
	}
	return nil
}

// ClearResponses deletes every cached response and returns how many were removed.
// Run history is not affected.
func (cdb *CacheDB) ClearResponses(ctx context.Context) (int64, error) {
	result, err := cdb.db.ExecContext(ctx, "DELETE FROM responses")
	if err != nil {
		return 0, fmt.Errorf("failed to clear cached responses: %w", err)
	}
	return result.RowsAffected()
}

// CountResponses returns the number of cached responses.
func (cdb *CacheDB) CountResponses(ctx context.Context) (int64, error) {
	var count int64
	if err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM responses").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cached responses: %w", err)
	}
	return count, nil
}

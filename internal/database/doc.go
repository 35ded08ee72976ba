// Package database provides SQLite-based storage for pydocscan.
//
// This package implements the CacheDB, which stores:
//   - HTTP responses, so repeated runs do not re-fetch unchanged pages
//   - Result tables of previous runs, for the history command
//
// The database is a single file (pydocscan.db) opened through
// modernc.org/sqlite, which is CGO-free.
package database

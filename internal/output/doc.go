// Package output renders result tables.
//
// The Format chosen on the command line selects one Writer:
//   - pretty: a rounded go-pretty table on stdout (default)
//   - file: a CSV file in the results directory
//   - paged: the pretty table inside a scrollable bubbletea viewport
//   - json: an indented array of objects keyed by header labels
//   - markdown: a Markdown document with one table
package output

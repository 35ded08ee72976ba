// Package model defines the data structures shared by pydocscan packages.
//
// This package contains the following main types:
//   - Mode: the closed set of scraping modes a run can select
//   - Table: an ordered, fixed-arity result table with a header row
//   - Status, StatusTally: the nine PEP statuses and their ordered counts
//   - ExpectedStatus: table status code to allowed full status names
//   - Mismatch: a PEP whose page status disagrees with the index table
//   - Page: a fetched HTTP response, as cached by the database package
//
// Types here carry no I/O. The scraper fills them, the output package
// renders them, and the database package stores them as JSON.
package model

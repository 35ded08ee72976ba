// Package pep reconciles the status letter shown in the PEP index table
// with the full status printed on each PEP page.
//
// A Reconciler is fed one observation per index row that links to a PEP.
// It keeps the per-status tally and the list of rows whose page status is
// not one of the statuses expected for the table letter. It performs no
// I/O and holds no package-level state.
package pep

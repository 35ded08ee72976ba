// Package main provides the entry point for the pydocscan CLI.
//
// pydocscan scrapes docs.python.org and peps.python.org. Each run executes
// exactly one mode:
//
//	pydocscan whats-new         # "What's New" article per release
//	pydocscan latest-versions   # documentation versions and their status
//	pydocscan download          # save the A4 PDF documentation archive
//	pydocscan pep               # reconcile PEP statuses and tally them
//
// See --help for all available options.
package main

// main is the entry point for pydocscan.
func main() {
	Execute()
}

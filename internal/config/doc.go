// Package config provides configuration structures and utilities for pydocscan.
// It defines the base URLs that are scraped, HTTP client settings, the
// output and storage locations, and the PEP status expectations.
package config

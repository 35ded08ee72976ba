package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Page is a fetched HTTP response body together with the metadata the
// response cache needs to store it.
type Page struct {
	// URL is the requested URL.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the value of the Content-Type response header.
	ContentType string `json:"content_type"`

	// Body is the response body, decoded to UTF-8 for text content.
	Body []byte `json:"-"`

	// Hash is the SHA-256 hash of Body.
	Hash string `json:"hash"`

	// FetchedAt is the time the response was received from the network.
	FetchedAt time.Time `json:"fetched_at"`

	// FromCache is true when the page was served from the response cache.
	FromCache bool `json:"from_cache"`
}

// MaxPageSize is the maximum size of a page body that is kept.
// Larger bodies are truncated to this size.
const MaxPageSize = 10 * 1024 * 1024 // 10 MB

// ComputeHash calculates and sets the SHA-256 hash of the page body.
func (p *Page) ComputeHash() {
	if len(p.Body) == 0 {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256(p.Body)
	p.Hash = hex.EncodeToString(hash[:])
}

// IsHTML returns true if the page content type indicates HTML.
func (p *Page) IsHTML() bool {
	ct := strings.ToLower(p.ContentType)
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

// TruncateBody ensures the body doesn't exceed MaxPageSize.
func (p *Page) TruncateBody() {
	if len(p.Body) > MaxPageSize {
		p.Body = p.Body[:MaxPageSize]
	}
}

// Expired reports whether a page fetched at FetchedAt is older than ttl at now.
// A ttl of zero or less never expires.
func (p *Page) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(p.FetchedAt) > ttl
}

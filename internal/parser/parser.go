package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/pydocscan/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// ErrTagNotFound is returned by FindTag when a required element is missing.
var ErrTagNotFound = errors.New("tag not found")

// Document is a parsed HTML page together with the URL it was fetched from.
//
// Design decision: We parse with golang.org/x/net/html and wrap the tree
// with goquery rather than calling goquery.NewDocumentFromReader, so that
// parse failures are reported with our own message.
type Document struct {
	*goquery.Document

	// base is used to resolve relative links found on the page.
	base *url.URL
}

// Parse parses HTML content. baseURL is used by Resolve and may be empty.
func Parse(content io.Reader, baseURL string) (*Document, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	root, err := html.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &Document{
		Document: goquery.NewDocumentFromNode(root),
		base:     base,
	}, nil
}

// ParsePage parses the body of a fetched page, using its URL as the base.
func ParsePage(page *model.Page) (*Document, error) {
	if page == nil {
		return nil, errors.New("cannot parse a nil page")
	}
	return Parse(bytes.NewReader(page.Body), page.URL)
}

// Resolve resolves href against the document URL.
func (d *Document) Resolve(href string) (string, error) {
	return resolveAgainst(d.base, href)
}

// Resolve resolves href against base following RFC 3986 reference resolution.
func Resolve(base, href string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	return resolveAgainst(u, href)
}

// resolveAgainst trims surrounding whitespace from href before resolving,
// as browsers do.
func resolveAgainst(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("invalid link %q: %w", href, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// FindTag returns the first element under sel matching selector.
// A missing element means the page layout has changed; the returned
// error wraps ErrTagNotFound and names the selector.
func FindTag(sel *goquery.Selection, selector string) (*goquery.Selection, error) {
	found, ok := FindOptional(sel, selector)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTagNotFound, selector)
	}
	return found, nil
}

// FindOptional returns the first element under sel matching selector and
// whether one was found.
func FindOptional(sel *goquery.Selection, selector string) (*goquery.Selection, bool) {
	if sel == nil {
		return nil, false
	}
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return found, true
}

// Text returns the combined text of sel and its descendants in NFC form.
// Whitespace is kept as it appears in the document.
func Text(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return norm.NFC.String(sel.Text())
}

// Href returns the href attribute of sel, or the empty string.
func Href(sel *goquery.Selection) string {
	if sel == nil {
		return ""
	}
	return sel.AttrOr("href", "")
}

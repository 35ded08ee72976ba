// Package parser wraps HTML parsing and element lookup for the extractors.
//
// Pages are parsed with golang.org/x/net/html and queried through goquery
// CSS selectors. FindTag is used for elements a page must contain; when
// such an element is missing the page layout has changed and the error
// wraps ErrTagNotFound. FindOptional is used for elements that may be
// legitimately absent.
package parser

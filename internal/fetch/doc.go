// Package fetch provides the HTTP client used by the extractors.
//
// A Fetcher issues GET requests through go-resty with a fixed timeout,
// User-Agent and a token-bucket rate limit. Page requests go through an
// optional response cache; archive downloads always hit the network.
package fetch

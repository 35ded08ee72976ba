package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nao1215/pydocscan/internal/model"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// ErrHTTPStatus is returned when the server answers with a status code of 400 or above.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Cache stores fetched pages keyed by URL.
// GetResponse returns (nil, nil) when there is no usable entry.
type Cache interface {
	GetResponse(ctx context.Context, url string) (*model.Page, error)
	PutResponse(ctx context.Context, page *model.Page) error
}

// Recorder receives request outcomes. It is satisfied by *metrics.Metrics.
type Recorder interface {
	CacheHit()
	RequestDone(err error, d time.Duration)
}

type noRecorder struct{}

func (noRecorder) CacheHit()                        {}
func (noRecorder) RequestDone(error, time.Duration) {}

// Fetcher performs rate-limited HTTP GET requests.
//
// Every network request waits on the limiter. A cache hit touches neither
// the network nor the limiter.
// A Fetcher is safe for use by multiple goroutines.
//
// Design decision: We cache whole decoded pages keyed by URL rather than
// honoring HTTP caching headers. docs.python.org and peps.python.org serve
// short-lived Cache-Control values, and the point of the cache is to make
// repeated runs of one mode free within a TTL chosen by the user.
// Only responses below 400 are stored, so a transient outage is retried
// on the next run.
type Fetcher struct {
	// client is the underlying resty client.
	client *resty.Client

	// cache, when non-nil, serves and stores page responses.
	cache Cache

	// logger receives fetch failures and cache diagnostics.
	logger *slog.Logger

	// limiter paces outgoing requests.
	limiter *rate.Limiter

	recorder Recorder

	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithRateLimit sets the number of requests per second and the burst size.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(f *Fetcher) {
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithCache sets the response cache used by Get.
func WithCache(c Cache) Option {
	return func(f *Fetcher) {
		f.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// WithRecorder sets the receiver of request outcomes.
func WithRecorder(r Recorder) Option {
	return func(f *Fetcher) {
		if r != nil {
			f.recorder = r
		}
	}
}

// New creates a Fetcher. Without options it uses a 30 second timeout,
// two requests per second and no cache.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		logger:    slog.Default(),
		limiter:   rate.NewLimiter(2, 2),
		recorder:  noRecorder{},
		timeout:   30 * time.Second,
		userAgent: "pydocscan",
	}

	for _, opt := range opts {
		opt(f)
	}

	client := resty.New()
	client.SetTimeout(f.timeout)
	client.SetHeader("user-agent", f.userAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	// The limiter hook runs for every request the client sends, so Get and
	// Download share one budget. Waiting honors the request context.
	limiter := f.limiter
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})
	f.client = client

	return f
}

// Get fetches url, serving it from the cache when possible.
// Network errors and status codes of 400 or above are returned as errors;
// only successful responses are stored in the cache.
func (f *Fetcher) Get(ctx context.Context, url string) (*model.Page, error) {
	// A broken cache degrades to a network fetch.
	if f.cache != nil {
		cached, err := f.cache.GetResponse(ctx, url)
		if err != nil {
			f.logger.Warn("failed to read response cache", "url", url, "error", err)
		} else if cached != nil {
			f.logger.Debug("cache hit", "url", url)
			f.recorder.CacheHit()
			return cached, nil
		}
	}

	f.logger.Debug("fetching page", "url", url)
	resp, err := f.do(ctx, url)
	if err != nil {
		return nil, err
	}

	// Pages are stored decoded, so a cache hit needs no charset handling.
	body, err := decodeBody(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	page := &model.Page{
		URL:         url,
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	}
	page.TruncateBody()
	page.ComputeHash()

	if f.cache != nil {
		if err := f.cache.PutResponse(ctx, page); err != nil {
			f.logger.Warn("failed to store response in cache", "url", url, "error", err)
		}
	}

	return page, nil
}

// Response fetches url like Get, but logs the failure and returns nil
// instead of an error. Extractors treat nil as "no results".
func (f *Fetcher) Response(ctx context.Context, url string) *model.Page {
	page, err := f.Get(ctx, url)
	if err != nil {
		f.logger.Error("failed to load page", "url", url, "error", err)
		return nil
	}
	return page
}

// Download fetches url bypassing the cache and returns the raw body.
// The body is neither decoded nor truncated.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	f.logger.Debug("downloading", "url", url)
	resp, err := f.do(ctx, url)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// do sends one GET request and reports its outcome to the recorder,
// failures included. resty does not treat 4xx and 5xx as errors, so the
// status code is checked here.
func (f *Fetcher) do(ctx context.Context, url string) (resp *resty.Response, err error) {
	start := time.Now()
	defer func() {
		f.recorder.RequestDone(err, time.Since(start))
	}()

	resp, err = f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.StatusCode() >= 400 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrHTTPStatus, url, resp.StatusCode())
	}
	return resp, nil
}

// decodeBody converts an HTML body to UTF-8 using the declared or sniffed
// charset. Non-HTML bodies are returned unchanged.
func decodeBody(body []byte, contentType string) ([]byte, error) {
	page := model.Page{ContentType: contentType}
	if !page.IsHTML() {
		return body, nil
	}
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

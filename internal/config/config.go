package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/pydocscan/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "pydocscan"

	// DefaultDocsURL is the root of the Python 3 documentation.
	DefaultDocsURL = "https://docs.python.org/3/"

	// DefaultPEPsURL is the root of the PEP index.
	DefaultPEPsURL = "https://peps.python.org/"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond paces requests so that a full PEP run
	// (several hundred pages) does not hammer peps.python.org.
	DefaultRequestsPerSecond = 2.0

	// DefaultCacheTTL of zero keeps cached responses until --clear-cache is used.
	DefaultCacheTTL time.Duration = 0

	// DefaultUserAgent identifies pydocscan in HTTP requests.
	DefaultUserAgent = "pydocscan/1.0 (+https://github.com/nao1215/pydocscan)"

	// DefaultOutput is the output format used when -o is not given.
	DefaultOutput = "pretty"
)

// Config holds all configuration options for a single pydocscan run.
// It is populated from defaults, the optional YAML file and CLI flags,
// in that order of precedence (flags win).
type Config struct {
	// Mode is the extractor this run executes.
	Mode model.Mode

	// DocsURL is the documentation root. The whats-new and download pages
	// are resolved relative to it.
	DocsURL string

	// PEPsURL is the PEP index page.
	PEPsURL string

	// Output is the output format name (pretty, file, paged, json, markdown).
	Output string

	// ClearCache empties the HTTP response cache before the run starts.
	ClearCache bool

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// RequestsPerSecond is the rate limit applied to outgoing requests.
	RequestsPerSecond float64

	// CacheTTL is how long cached responses stay valid. Zero means forever.
	CacheTTL time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// CacheDir holds the SQLite database with cached responses and run history.
	CacheDir string

	// ResultsDir receives CSV files written by the file output format.
	ResultsDir string

	// DownloadsDir receives the documentation archive in download mode.
	DownloadsDir string

	// LogFile, when set, receives a copy of every log record at debug level.
	LogFile string

	// MetricsFile, when set, receives run metrics in the Prometheus text
	// format after every successful run.
	MetricsFile string

	// Verbose enables debug output on the console.
	Verbose bool

	// ConfigFilePath is the explicit configuration file path given with --config.
	// If empty, .pydocscan is searched for in the current and home directories.
	ConfigFilePath string

	// ExpectedStatus maps PEP table status codes to allowed page statuses.
	ExpectedStatus model.ExpectedStatus
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Mode:              model.ModeWhatsNew,
		DocsURL:           DefaultDocsURL,
		PEPsURL:           DefaultPEPsURL,
		Output:            DefaultOutput,
		Timeout:           DefaultTimeout,
		RequestsPerSecond: DefaultRequestsPerSecond,
		CacheTTL:          DefaultCacheTTL,
		UserAgent:         DefaultUserAgent,
		CacheDir:          XDGCacheDir(),
		ResultsDir:        filepath.Join(XDGDataDir(), "results"),
		DownloadsDir:      filepath.Join(XDGDataDir(), "downloads"),
		ExpectedStatus:    model.DefaultExpectedStatus(),
	}
}

// XDGDataDir returns the XDG data directory for pydocscan.
// On Linux: ~/.local/share/pydocscan
// On macOS: ~/Library/Application Support/pydocscan
// On Windows: %LOCALAPPDATA%\pydocscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for pydocscan.
// On Linux: ~/.cache/pydocscan
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// ApplyFile overlays the values set in the configuration file.
// Zero values in the file leave the current setting untouched.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.DocsURL != "" {
		c.DocsURL = f.DocsURL
	}
	if f.PEPsURL != "" {
		c.PEPsURL = f.PEPsURL
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.RequestsPerSecond != 0 {
		c.RequestsPerSecond = f.RequestsPerSecond
	}
	if f.CacheTTL != 0 {
		c.CacheTTL = f.CacheTTL
	}
	if f.CacheDir != "" {
		c.CacheDir = f.CacheDir
	}
	if f.ResultsDir != "" {
		c.ResultsDir = f.ResultsDir
	}
	if f.DownloadsDir != "" {
		c.DownloadsDir = f.DownloadsDir
	}
	if f.Output != "" {
		c.Output = f.Output
	}
	if f.MetricsFile != "" {
		c.MetricsFile = f.MetricsFile
	}
	if len(f.ExpectedStatus) > 0 {
		c.ExpectedStatus = c.ExpectedStatus.Merge(model.ExpectedStatus(f.ExpectedStatus))
	}
}

// Validate checks the configuration for errors.
// It returns the first validation error found, or nil if valid.
func (c *Config) Validate() error {
	if !isHTTPURL(c.DocsURL) {
		return fmt.Errorf("%w: %q", ErrInvalidDocsURL, c.DocsURL)
	}
	if !isHTTPURL(c.PEPsURL) {
		return fmt.Errorf("%w: %q", ErrInvalidPEPsURL, c.PEPsURL)
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.RequestsPerSecond <= 0 {
		return ErrInvalidRequestRate
	}
	if c.CacheTTL < 0 {
		return ErrInvalidCacheTTL
	}
	if c.CacheDir == "" {
		return fmt.Errorf("%w: cache directory", ErrEmptyDirectory)
	}
	if c.ResultsDir == "" {
		return fmt.Errorf("%w: results directory", ErrEmptyDirectory)
	}
	if c.DownloadsDir == "" {
		return fmt.Errorf("%w: downloads directory", ErrEmptyDirectory)
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".pydocscan"

// File represents the structure of the .pydocscan configuration file.
// Every field is optional.
//
// Design decision: We decode into a separate File rather than into Config.
// Run-only settings such as the mode or --clear-cache cannot be set from a
// file, and ApplyFile decides field by field what a zero value means.
// Durations are written as Go duration strings ("30s", "24h").
type File struct {
	DocsURL           string              `yaml:"docsURL,omitempty"`
	PEPsURL           string              `yaml:"pepsURL,omitempty"`
	UserAgent         string              `yaml:"userAgent,omitempty"`
	Timeout           time.Duration       `yaml:"timeout,omitempty"`
	RequestsPerSecond float64             `yaml:"requestsPerSecond,omitempty"`
	CacheTTL          time.Duration       `yaml:"cacheTTL,omitempty"`
	CacheDir          string              `yaml:"cacheDir,omitempty"`
	ResultsDir        string              `yaml:"resultsDir,omitempty"`
	DownloadsDir      string              `yaml:"downloadsDir,omitempty"`
	Output            string              `yaml:"output,omitempty"`
	MetricsFile       string              `yaml:"metricsFile,omitempty"`
	ExpectedStatus    map[string][]string `yaml:"expectedStatus,omitempty"`
}

// LoadConfigFile loads a configuration file in YAML format.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .pydocscan in the current directory
// 3. Look for .pydocscan in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

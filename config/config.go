package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSiteURL is the lookup site queried for every address.
const DefaultSiteURL = "http://www.haveibeenemotet.com"

// Config holds all application configuration.
type Config struct {
	Lookup  LookupConfig
	Browser BrowserConfig
	Run     RunConfig
	Log     LogConfig
}

// LookupConfig describes the remote page and how long to wait for it.
type LookupConfig struct {
	// SiteURL is the page loaded before each query.
	SiteURL string // default: DefaultSiteURL

	// InputSelector locates the address input field.
	InputSelector string // default: `input[name="email-input"]`

	// ResultSelector locates the element holding the answer.
	ResultSelector string // default: "#result"

	// ResultTimeout bounds the wait for the result element to become visible.
	ResultTimeout time.Duration // default: 10s

	// NavigationTimeout bounds loading SiteURL.
	NavigationTimeout time.Duration // default: 30s
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Proxy is the proxy URL for all requests.
	Proxy string

	// Stealth masks navigator.webdriver and similar automation hints.
	Stealth bool // default: false

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string
}

// RunConfig controls the processing loop.
type RunConfig struct {
	// Lenient logs and skips addresses whose lookup fails instead of
	// aborting the run.
	Lenient bool // default: false

	// SkipBlank skips empty input lines instead of querying them.
	SkipBlank bool // default: false

	// QueriesPerSecond limits the query rate. Zero means unlimited.
	QueriesPerSecond float64 // default: 0
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "text"
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory, if present, is loaded first; it never
// overrides variables already set in the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}

	return &Config{
		Lookup: LookupConfig{
			SiteURL:           envOr("EMOTETCHECK_SITE_URL", DefaultSiteURL),
			InputSelector:     envOr("EMOTETCHECK_INPUT_SELECTOR", `input[name="email-input"]`),
			ResultSelector:    envOr("EMOTETCHECK_RESULT_SELECTOR", "#result"),
			ResultTimeout:     envDurationOr("EMOTETCHECK_RESULT_TIMEOUT", 10*time.Second),
			NavigationTimeout: envDurationOr("EMOTETCHECK_NAV_TIMEOUT", 30*time.Second),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("EMOTETCHECK_HEADLESS", true),
			NoSandbox:  envBoolOr("EMOTETCHECK_NO_SANDBOX", false),
			BrowserBin: os.Getenv("EMOTETCHECK_BROWSER_BIN"),
			Proxy:      os.Getenv("EMOTETCHECK_PROXY"),
			Stealth:    envBoolOr("EMOTETCHECK_STEALTH", false),
			BlockedResourceTypes: envSliceOr("EMOTETCHECK_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
			Headers: envMapOr("EMOTETCHECK_HEADERS", nil),
		},
		Run: RunConfig{
			Lenient:          envBoolOr("EMOTETCHECK_LENIENT", false),
			SkipBlank:        envBoolOr("EMOTETCHECK_SKIP_BLANK", false),
			QueriesPerSecond: envFloatOr("EMOTETCHECK_QPS", 0),
		},
		Log: LogConfig{
			Level:  envOr("EMOTETCHECK_LOG_LEVEL", "info"),
			Format: envOr("EMOTETCHECK_LOG_FORMAT", "text"),
		},
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Lookup.SiteURL == "":
		return ErrNoSiteURL
	case c.Lookup.InputSelector == "" || c.Lookup.ResultSelector == "":
		return ErrNoSelector
	case c.Lookup.ResultTimeout <= 0 || c.Lookup.NavigationTimeout <= 0:
		return fmt.Errorf("%w: result %s, navigation %s",
			ErrInvalidTimeout, c.Lookup.ResultTimeout, c.Lookup.NavigationTimeout)
	case c.Run.QueriesPerSecond < 0:
		return ErrInvalidRate
	}
	return nil
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}

// envMapOr parses "Key=Value,Key2=Value2". Pairs without "=" are dropped.
func envMapOr(key string, fallback map[string]string) map[string]string {
	pairs := envSliceOr(key, nil)
	if len(pairs) == 0 {
		return fallback
	}
	result := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			continue
		}
		result[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return result
}

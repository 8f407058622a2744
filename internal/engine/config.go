// Package engine holds shared infrastructure for the import pipeline:
// configuration, retry/backoff, rate limiting, the metadata fetch cache and
// operational counters.
package engine

import (
	"net/http"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
)

// BrowserClient is the Chrome-fingerprint HTTP client used by scraping
// fallback paths. Re-exported so adapters don't import go-stealth directly.
type BrowserClient = stealth.BrowserClient

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string // secondary key, tried on quota errors

	FetchTimeout        time.Duration
	MaxDescriptionChars int
	PlatformRPS         float64 // per-platform request rate toward external APIs

	CacheTTL             time.Duration
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	Retry RetryConfig // retry/backoff for external platform calls

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = scraping fallbacks disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (catalog, platform).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.MaxDescriptionChars <= 0 {
		c.MaxDescriptionChars = 4000
	}
	if c.Retry == (RetryConfig{}) {
		c.Retry = defaultRetryConfig
	}
	cfg = c
	Cfg = &cfg
}

// ChromeHeaders returns common Chrome browser headers for scraping requests.
func ChromeHeaders() map[string]string { return stealth.ChromeHeaders() }

// RandomUserAgent returns a rotating browser user agent.
func RandomUserAgent() string { return stealth.RandomUserAgent() }

package platform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"catalogsync/internal/catalog"
	"catalogsync/internal/engine"
)

// Watch-page scraping fallback for single videos, used when no Data API key is
// configured. The watch page carries schema.org microdata: og:title,
// og:description, itemprop=duration (ISO-8601) and itemprop=datePublished.

// scrapeWatchPage fetches and parses a watch page into normalized content.
func (y *YouTube) scrapeWatchPage(ctx context.Context, id string) (catalog.NormalizedContent, error) {
	watchURL := "https://www.youtube.com/watch?v=" + id

	body, err := fetchPage(ctx, watchURL)
	if err != nil {
		return catalog.NormalizedContent{}, fmt.Errorf("youtube: fetch watch page: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return catalog.NormalizedContent{}, fmt.Errorf("youtube: parse watch page: %w", err)
	}

	title := findMeta(doc, "property", "og:title")
	if title == "" {
		return catalog.NormalizedContent{}, fmt.Errorf("youtube: video %s not found or page blocked", id)
	}

	releaseDate, _ := time.Parse("2006-01-02", findMeta(doc, "itemprop", "datePublished"))

	return catalog.NormalizedContent{
		Name:            title,
		Description:     cleanDescription(findMeta(doc, "property", "og:description")),
		Language:        catalog.ParseLanguage(""),
		DurationSeconds: catalog.ParseDuration(findMeta(doc, "itemprop", "duration")),
		ReleaseDate:     releaseDate,
		MediaURL:        watchURL,
		MediaType:       catalog.ParseMediaType(""),
		SourceType:      catalog.SourceYouTube,
		SourceURL:       watchURL,
		ExternalID:      id,
	}, nil
}

// fetchPage fetches an HTML page, preferring the stealth browser client when
// configured — platforms serve reduced or blocked pages to non-browser TLS
// fingerprints — and falling back to the standard HTTP client.
func fetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.FetchTimeout)
	defer cancel()

	if engine.Cfg.BrowserClient != nil {
		headers := engine.ChromeHeaders()
		headers["accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9"
		headers["accept-language"] = "en-US,en;q=0.9"

		return engine.RetryDo(ctx, engine.Cfg.Retry, func() ([]byte, error) {
			data, _, status, err := engine.Cfg.BrowserClient.Do(http.MethodGet, pageURL, headers, nil)
			if err != nil {
				return nil, err
			}
			if status != http.StatusOK {
				return nil, fmt.Errorf("status %d", status)
			}
			return data, nil
		})
	}

	resp, err := engine.RetryHTTP(ctx, engine.Cfg.Retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.RandomUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
}

package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v5"

	"catalogsync/internal/catalog"
	"catalogsync/internal/engine"
)

const (
	vimeoOEmbedURL    = "https://vimeo.com/api/oembed.json"
	vimeoSimpleAPIURL = "https://vimeo.com/api/v2"

	// The Simple API returns 20 items per page and serves at most 3 pages.
	vimeoPageSize = 20
	vimeoMaxPages = 3
)

// vimeoVideoIDRe matches numeric video IDs in vimeo.com and player URLs.
// Channel and showcase URLs without a trailing video ID do not match.
var vimeoVideoIDRe = regexp.MustCompile(`vimeo\.com/(?:video/|channels/[^/]+/)?(\d+)(?:[/?#]|$)`)

// Vimeo imports single videos via the oEmbed endpoint and channels via the
// Simple API v2, with a page-scrape fallback for single videos.
type Vimeo struct{}

// NewVimeo creates the Vimeo adapter.
func NewVimeo() *Vimeo { return &Vimeo{} }

// SourceType returns the platform identifier.
func (v *Vimeo) SourceType() catalog.SourceType { return catalog.SourceVimeo }

// SupportedDomains returns the hostnames this adapter recognizes.
func (v *Vimeo) SupportedDomains() []string {
	return []string{"vimeo.com", "player.vimeo.com"}
}

// ExtractID extracts the numeric video ID from a URL. Channel URLs do not
// extract.
func (v *Vimeo) ExtractID(rawURL string) (string, bool) {
	m := vimeoVideoIDRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// ValidateURL reports whether a stable video ID can be extracted.
func (v *Vimeo) ValidateURL(rawURL string) bool {
	_, ok := v.ExtractID(rawURL)
	return ok
}

// --- API response types ---

type vimeoOEmbedResp struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int64  `json:"duration"` // seconds
	UploadDate  string `json:"upload_date"`
	VideoID     int64  `json:"video_id"`
}

type vimeoSimpleVideo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	UploadDate  string `json:"upload_date"`
	Duration    int64  `json:"duration"`
}

// ImportVideo fetches one video's metadata via oEmbed, scraping the page when
// oEmbed is unavailable and the browser client is configured.
func (v *Vimeo) ImportVideo(ctx context.Context, req catalog.VideoImportRequest) (catalog.NormalizedContent, error) {
	id, ok := v.ExtractID(req.URL)
	if !ok {
		return catalog.NormalizedContent{}, fmt.Errorf("vimeo: cannot extract video ID from %q", req.URL)
	}

	cacheKey := engine.CacheKey("vimeo_video", id)
	if content, ok := engine.CacheLoadJSON[catalog.NormalizedContent](ctx, cacheKey); ok {
		return content, nil
	}

	if err := engine.WaitLimit(ctx, "vimeo"); err != nil {
		return catalog.NormalizedContent{}, err
	}
	engine.IncrVimeoRequests()

	content, err := v.fetchOEmbed(ctx, id)
	if err != nil && engine.Cfg.BrowserClient != nil {
		content, err = v.scrapeVideoPage(ctx, id)
	}
	if err != nil {
		return catalog.NormalizedContent{}, err
	}

	engine.CacheStoreJSON(ctx, cacheKey, content)
	return content, nil
}

// fetchOEmbed fetches single-video metadata from the oEmbed endpoint.
func (v *Vimeo) fetchOEmbed(ctx context.Context, id string) (catalog.NormalizedContent, error) {
	videoURL := "https://vimeo.com/" + id
	apiURL := vimeoOEmbedURL + "?url=" + url.QueryEscape(videoURL)

	resp, err := engine.RetryHTTP(ctx, engine.Cfg.Retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return catalog.NormalizedContent{}, fmt.Errorf("vimeo oembed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return catalog.NormalizedContent{}, fmt.Errorf("vimeo: video %s not found", id)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return catalog.NormalizedContent{}, fmt.Errorf("vimeo oembed %d: %s", resp.StatusCode, string(body))
	}

	var oe vimeoOEmbedResp
	if err := json.NewDecoder(resp.Body).Decode(&oe); err != nil {
		return catalog.NormalizedContent{}, fmt.Errorf("decode vimeo oembed: %w", err)
	}

	// upload_date comes back as "2006-01-02 15:04:05".
	releaseDate, _ := time.Parse("2006-01-02 15:04:05", oe.UploadDate)

	return catalog.NormalizedContent{
		Name:            oe.Title,
		Description:     cleanDescription(oe.Description),
		Language:        catalog.ParseLanguage(""),
		DurationSeconds: oe.Duration,
		ReleaseDate:     releaseDate,
		MediaURL:        videoURL,
		MediaType:       catalog.ParseMediaType(""),
		SourceType:      catalog.SourceVimeo,
		SourceURL:       videoURL,
		ExternalID:      id,
	}, nil
}

// scrapeVideoPage extracts og/schema metadata from the video page.
func (v *Vimeo) scrapeVideoPage(ctx context.Context, id string) (catalog.NormalizedContent, error) {
	videoURL := "https://vimeo.com/" + id

	body, err := fetchPage(ctx, videoURL)
	if err != nil {
		return catalog.NormalizedContent{}, fmt.Errorf("vimeo: fetch page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return catalog.NormalizedContent{}, fmt.Errorf("vimeo: parse page: %w", err)
	}

	title, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	if title == "" {
		return catalog.NormalizedContent{}, fmt.Errorf("vimeo: video %s not found or page blocked", id)
	}
	description, _ := doc.Find(`meta[property="og:description"]`).Attr("content")
	duration, _ := doc.Find(`meta[property="video:duration"]`).Attr("content")
	released, _ := doc.Find(`meta[property="video:release_date"]`).Attr("content")
	releaseDate, _ := time.Parse(time.RFC3339, released)

	return catalog.NormalizedContent{
		Name:            title,
		Description:     cleanDescription(description),
		Language:        catalog.ParseLanguage(""),
		DurationSeconds: catalog.ParseDuration(duration),
		ReleaseDate:     releaseDate,
		MediaURL:        videoURL,
		MediaType:       catalog.ParseMediaType(""),
		SourceType:      catalog.SourceVimeo,
		SourceURL:       videoURL,
		ExternalID:      id,
	}, nil
}

// ImportChannel fetches up to req.Limit videos from a channel via the Simple
// API, paging until the limit is reached, a page comes back empty, or the
// API's 3-page window is exhausted. A page-fetch failure aborts the remaining
// pages but returns the items already fetched alongside the error.
func (v *Vimeo) ImportChannel(ctx context.Context, req catalog.ChannelImportRequest) ([]catalog.NormalizedContent, error) {
	limit := req.ClampLimit()
	var out []catalog.NormalizedContent

	for page := 1; page <= vimeoMaxPages && len(out) < limit; page++ {
		if err := engine.WaitLimit(ctx, "vimeo"); err != nil {
			return out, err
		}

		videos, err := v.fetchChannelPage(ctx, req.ChannelID, page)
		if err != nil {
			return out, fmt.Errorf("vimeo: channel %s page %d: %w", req.ChannelID, page, err)
		}
		if len(videos) == 0 {
			break
		}

		for _, sv := range videos {
			if len(out) >= limit {
				break
			}
			out = append(out, v.normalizeSimple(sv))
		}

		// A short page means the channel has no more videos.
		if len(videos) < vimeoPageSize {
			break
		}
	}

	return out, nil
}

// fetchChannelPage fetches one Simple API channel page with exponential
// backoff; 4xx responses are permanent failures, not worth retrying.
func (v *Vimeo) fetchChannelPage(ctx context.Context, channelID string, page int) ([]vimeoSimpleVideo, error) {
	engine.IncrVimeoRequests()
	apiURL := fmt.Sprintf("%s/channel/%s/videos.json?page=%d", vimeoSimpleAPIURL, url.PathEscape(channelID), page)

	operation := func() ([]vimeoSimpleVideo, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := engine.Cfg.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}

		var videos []vimeoSimpleVideo
		if err := json.NewDecoder(resp.Body).Decode(&videos); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("decode: %w", err))
		}
		return videos, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	return backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(3), backoff.WithMaxElapsedTime(30*time.Second))
}

// normalizeSimple converts a Simple API video entry into the catalog shape.
func (v *Vimeo) normalizeSimple(sv vimeoSimpleVideo) catalog.NormalizedContent {
	videoURL := sv.URL
	if videoURL == "" {
		videoURL = fmt.Sprintf("https://vimeo.com/%d", sv.ID)
	}
	releaseDate, _ := time.Parse("2006-01-02 15:04:05", sv.UploadDate)

	return catalog.NormalizedContent{
		Name:            sv.Title,
		Description:     cleanDescription(sv.Description),
		Language:        catalog.ParseLanguage(""),
		DurationSeconds: sv.Duration,
		ReleaseDate:     releaseDate,
		MediaURL:        videoURL,
		MediaType:       catalog.ParseMediaType(""),
		SourceType:      catalog.SourceVimeo,
		SourceURL:       videoURL,
		ExternalID:      fmt.Sprintf("%d", sv.ID),
	}
}

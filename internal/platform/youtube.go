package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"catalogsync/internal/catalog"
	"catalogsync/internal/engine"
)

// YouTube Data API v3 base URL.
const ytAPIBase = "https://www.googleapis.com/youtube/v3"

// playlistItems allows at most 50 results per page.
const ytMaxPageSize = 50

// ytVideoIDRe pulls the 11-char video ID out of any YouTube video URL format:
// watch, short link, shorts, embed.
var ytVideoIDRe = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|shorts/|embed/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// YouTube imports videos and channel uploads via the Data API v3, with a
// watch-page scraping fallback for single videos when no API key is configured.
type YouTube struct{}

// NewYouTube creates the YouTube adapter.
func NewYouTube() *YouTube { return &YouTube{} }

// SourceType returns the platform identifier.
func (y *YouTube) SourceType() catalog.SourceType { return catalog.SourceYouTube }

// SupportedDomains returns the hostnames this adapter recognizes.
func (y *YouTube) SupportedDomains() []string {
	return []string{"youtube.com", "youtu.be", "m.youtube.com"}
}

// ExtractID extracts the video ID from a URL. Channel, playlist and other
// collection URLs do not extract — they carry no single-item ID.
func (y *YouTube) ExtractID(rawURL string) (string, bool) {
	m := ytVideoIDRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// ValidateURL reports whether a stable video ID can be extracted.
func (y *YouTube) ValidateURL(rawURL string) bool {
	_, ok := y.ExtractID(rawURL)
	return ok
}

// --- Data API v3 response types ---

type ytVideoListResp struct {
	Items []struct {
		ID             string    `json:"id"`
		Snippet        ytSnippet `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"` // ISO-8601, e.g. PT4M13S
		} `json:"contentDetails"`
	} `json:"items"`
}

type ytSnippet struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	PublishedAt          string `json:"publishedAt"`
	ChannelTitle         string `json:"channelTitle"`
	DefaultLanguage      string `json:"defaultLanguage"`
	DefaultAudioLanguage string `json:"defaultAudioLanguage"`
}

type ytPlaylistItemsResp struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet        ytSnippet `json:"snippet"`
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// ImportVideo fetches one video's metadata. Uses the Data API when a key is
// configured, otherwise scrapes the watch page.
func (y *YouTube) ImportVideo(ctx context.Context, req catalog.VideoImportRequest) (catalog.NormalizedContent, error) {
	id, ok := y.ExtractID(req.URL)
	if !ok {
		return catalog.NormalizedContent{}, fmt.Errorf("youtube: cannot extract video ID from %q", req.URL)
	}

	cacheKey := engine.CacheKey("yt_video", id)
	if content, ok := engine.CacheLoadJSON[catalog.NormalizedContent](ctx, cacheKey); ok {
		return content, nil
	}

	if err := engine.WaitLimit(ctx, "youtube"); err != nil {
		return catalog.NormalizedContent{}, err
	}

	var content catalog.NormalizedContent
	var err error
	if engine.Cfg.YouTubeAPIKey != "" {
		content, err = y.fetchVideoAPI(ctx, id)
	} else {
		content, err = y.scrapeWatchPage(ctx, id)
	}
	if err != nil {
		return catalog.NormalizedContent{}, err
	}

	engine.CacheStoreJSON(ctx, cacheKey, content)
	return content, nil
}

// fetchVideoAPI fetches snippet + contentDetails for one video.
func (y *YouTube) fetchVideoAPI(ctx context.Context, id string) (catalog.NormalizedContent, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", id)

	var resp ytVideoListResp
	if err := y.apiGet(ctx, "/videos", params, &resp); err != nil {
		return catalog.NormalizedContent{}, err
	}
	if len(resp.Items) == 0 {
		return catalog.NormalizedContent{}, fmt.Errorf("youtube: video %s not found", id)
	}

	item := resp.Items[0]
	return y.normalize(id, item.Snippet, item.ContentDetails.Duration), nil
}

// ImportChannel fetches up to req.Limit videos from a channel's uploads
// playlist, paging with nextPageToken. Page sizes are capped at the remaining
// limit so the adapter never fetches more items than asked for. A page-fetch
// failure aborts the remaining pages but returns the items already fetched
// alongside the error.
func (y *YouTube) ImportChannel(ctx context.Context, req catalog.ChannelImportRequest) ([]catalog.NormalizedContent, error) {
	if engine.Cfg.YouTubeAPIKey == "" {
		return nil, fmt.Errorf("youtube: channel import requires a Data API key")
	}

	playlistID, err := uploadsPlaylistID(req.ChannelID)
	if err != nil {
		return nil, err
	}

	limit := req.ClampLimit()
	var out []catalog.NormalizedContent
	pageToken := ""

	for len(out) < limit {
		if err := engine.WaitLimit(ctx, "youtube"); err != nil {
			return out, err
		}

		pageSize := limit - len(out)
		if pageSize > ytMaxPageSize {
			pageSize = ytMaxPageSize
		}

		params := url.Values{}
		params.Set("part", "snippet,contentDetails")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", fmt.Sprintf("%d", pageSize))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page ytPlaylistItemsResp
		if err := y.apiGet(ctx, "/playlistItems", params, &page); err != nil {
			return out, fmt.Errorf("youtube: channel %s: %w", req.ChannelID, err)
		}

		durations, err := y.fetchDurations(ctx, videoIDs(page))
		if err != nil {
			slog.Debug("youtube: duration lookup failed, durations default to 0", slog.Any("error", err))
		}

		for _, item := range page.Items {
			if len(out) >= limit {
				break
			}
			vid := item.ContentDetails.VideoID
			if vid == "" {
				continue
			}
			out = append(out, y.normalize(vid, item.Snippet, durations[vid]))
		}

		pageToken = page.NextPageToken
		if pageToken == "" || len(page.Items) == 0 {
			break
		}
	}

	return out, nil
}

// fetchDurations looks up contentDetails.duration for a batch of video IDs.
// playlistItems has no duration field, so one extra videos call per page.
func (y *YouTube) fetchDurations(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("id", strings.Join(ids, ","))

	var resp ytVideoListResp
	if err := y.apiGet(ctx, "/videos", params, &resp); err != nil {
		return nil, err
	}

	durations := make(map[string]string, len(resp.Items))
	for _, item := range resp.Items {
		durations[item.ID] = item.ContentDetails.Duration
	}
	return durations, nil
}

// normalize converts an API snippet into the catalog record shape.
func (y *YouTube) normalize(id string, sn ytSnippet, isoDuration string) catalog.NormalizedContent {
	langHint := sn.DefaultAudioLanguage
	if langHint == "" {
		langHint = sn.DefaultLanguage
	}

	releaseDate, _ := time.Parse(time.RFC3339, sn.PublishedAt)
	watchURL := "https://www.youtube.com/watch?v=" + id

	return catalog.NormalizedContent{
		Name:            sn.Title,
		Description:     cleanDescription(sn.Description),
		Language:        catalog.ParseLanguage(langHint),
		DurationSeconds: catalog.ParseDuration(isoDuration),
		ReleaseDate:     releaseDate,
		MediaURL:        watchURL,
		MediaType:       catalog.ParseMediaType(""),
		SourceType:      catalog.SourceYouTube,
		SourceURL:       watchURL,
		ExternalID:      id,
	}
}

// apiGet performs a Data API GET, trying the fallback key when the primary
// fails (quota errors come back as 403).
func (y *YouTube) apiGet(ctx context.Context, path string, params url.Values, out any) error {
	engine.IncrYouTubeRequests()

	keys := []string{engine.Cfg.YouTubeAPIKey}
	if engine.Cfg.YouTubeAPIKeyFallback != "" {
		keys = append(keys, engine.Cfg.YouTubeAPIKeyFallback)
	}

	var lastErr error
	for _, key := range keys {
		if err := y.doAPIGet(ctx, path, params, key, out); err != nil {
			lastErr = err
			slog.Debug("youtube data API key failed, trying fallback", slog.Any("error", err))
			continue
		}
		return nil
	}
	return lastErr
}

func (y *YouTube) doAPIGet(ctx context.Context, path string, params url.Values, apiKey string, out any) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", apiKey)
	apiURL := ytAPIBase + path + "?" + q.Encode()

	resp, err := engine.RetryHTTP(ctx, engine.Cfg.Retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return fmt.Errorf("youtube data API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("youtube data API %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode youtube data API: %w", err)
	}
	return nil
}

// uploadsPlaylistID maps a channel ID to its uploads playlist. YouTube derives
// the uploads playlist by swapping the UC prefix for UU; explicit playlist IDs
// (UU…/PL…) pass through unchanged.
func uploadsPlaylistID(channelID string) (string, error) {
	switch {
	case strings.HasPrefix(channelID, "UC"):
		return "UU" + channelID[2:], nil
	case strings.HasPrefix(channelID, "UU"), strings.HasPrefix(channelID, "PL"):
		return channelID, nil
	default:
		return "", fmt.Errorf("youtube: %q is not a channel or playlist ID", channelID)
	}
}

// videoIDs collects the video IDs present in one playlistItems page.
func videoIDs(page ytPlaylistItemsResp) []string {
	ids := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		if item.ContentDetails.VideoID != "" {
			ids = append(ids, item.ContentDetails.VideoID)
		}
	}
	return ids
}

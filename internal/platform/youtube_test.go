package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"catalogsync/internal/catalog"
	"catalogsync/internal/engine"
)

func TestMain(m *testing.M) {
	engine.Init(engine.Config{})
	os.Exit(m.Run())
}

// rewriteTransport redirects every request to the test server, keeping the
// original path and query so the platform API routing can be exercised.
type rewriteTransport struct {
	host string
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = t.host
	return http.DefaultTransport.RoundTrip(req)
}

// pointClientAt routes engine HTTP traffic at srv for the duration of a test.
func pointClientAt(t *testing.T, srv *httptest.Server, c engine.Config) {
	t.Helper()
	c.HTTPClient = &http.Client{Transport: rewriteTransport{host: srv.Listener.Addr().String()}}
	engine.Init(c)
	t.Cleanup(func() { engine.Init(engine.Config{}) })
}

func TestYouTubeExtractID(t *testing.T) {
	y := NewYouTube()

	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"watch url with extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"short link with timestamp", "https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ", true},
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"mobile watch", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"channel url", "https://www.youtube.com/channel/UCabcdefghijklmnopqrstuv", "", false},
		{"handle url", "https://www.youtube.com/@somecreator", "", false},
		{"playlist url", "https://www.youtube.com/playlist?list=PL1234567890", "", false},
		{"other host", "https://vimeo.com/123456", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := y.ExtractID(tt.url)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("ExtractID(%q) = (%q, %v), want (%q, %v)", tt.url, id, ok, tt.wantID, tt.wantOK)
			}
			if got := y.ValidateURL(tt.url); got != tt.wantOK {
				t.Errorf("ValidateURL(%q) = %v, want %v", tt.url, got, tt.wantOK)
			}
		})
	}
}

func TestUploadsPlaylistID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"UCabcdefghijklmnopqrstuv", "UUabcdefghijklmnopqrstuv", false},
		{"UUabcdefghijklmnopqrstuv", "UUabcdefghijklmnopqrstuv", false},
		{"PL1234567890", "PL1234567890", false},
		{"@somecreator", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := uploadsPlaylistID(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("uploadsPlaylistID(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("uploadsPlaylistID(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("uploadsPlaylistID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestYouTubeNormalize(t *testing.T) {
	y := NewYouTube()
	sn := ytSnippet{
		Title:                "Weekly lecture",
		Description:          "A lecture recording.",
		PublishedAt:          "2024-03-15T10:30:00Z",
		DefaultAudioLanguage: "ar",
	}

	got := y.normalize("dQw4w9WgXcQ", sn, "PT1H2M3S")

	if got.Name != "Weekly lecture" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Description != "A lecture recording." {
		t.Errorf("Description = %q", got.Description)
	}
	if got.Language != catalog.LanguageArabic {
		t.Errorf("Language = %q, want %q", got.Language, catalog.LanguageArabic)
	}
	if got.DurationSeconds != 3723 {
		t.Errorf("DurationSeconds = %d, want 3723", got.DurationSeconds)
	}
	wantDate := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	if !got.ReleaseDate.Equal(wantDate) {
		t.Errorf("ReleaseDate = %v, want %v", got.ReleaseDate, wantDate)
	}
	if got.SourceType != catalog.SourceYouTube {
		t.Errorf("SourceType = %q", got.SourceType)
	}
	if got.ExternalID != "dQw4w9WgXcQ" {
		t.Errorf("ExternalID = %q", got.ExternalID)
	}
	wantURL := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	if got.MediaURL != wantURL || got.SourceURL != wantURL {
		t.Errorf("MediaURL = %q, SourceURL = %q, want %q", got.MediaURL, got.SourceURL, wantURL)
	}
	if got.MediaType != catalog.MediaVideo {
		t.Errorf("MediaType = %q, want %q", got.MediaType, catalog.MediaVideo)
	}
}

func TestYouTubeNormalizeFallsBackToDefaultLanguage(t *testing.T) {
	y := NewYouTube()

	got := y.normalize("abc12345678", ytSnippet{Title: "t", DefaultLanguage: "ar"}, "")
	if got.Language != catalog.LanguageArabic {
		t.Errorf("Language = %q, want %q", got.Language, catalog.LanguageArabic)
	}

	got = y.normalize("abc12345678", ytSnippet{Title: "t"}, "")
	if got.Language != catalog.LanguageEnglish {
		t.Errorf("Language = %q, want %q (default)", got.Language, catalog.LanguageEnglish)
	}
	if got.DurationSeconds != 0 {
		t.Errorf("DurationSeconds = %d, want 0 for missing duration", got.DurationSeconds)
	}
}

func TestYouTubeImportChannelPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/playlistItems":
			if r.URL.Query().Get("pageToken") == "" {
				fmt.Fprint(w, `{"nextPageToken":"p2","items":[
					{"snippet":{"title":"one"},"contentDetails":{"videoId":"vid1"}},
					{"snippet":{"title":"two"},"contentDetails":{"videoId":"vid2"}}]}`)
			} else {
				fmt.Fprint(w, `{"items":[{"snippet":{"title":"three"},"contentDetails":{"videoId":"vid3"}}]}`)
			}
		case "/youtube/v3/videos":
			fmt.Fprint(w, `{"items":[
				{"id":"vid1","contentDetails":{"duration":"PT1M"}},
				{"id":"vid2","contentDetails":{"duration":"PT2M"}},
				{"id":"vid3","contentDetails":{"duration":"PT3M"}}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	pointClientAt(t, srv, engine.Config{YouTubeAPIKey: "test-key"})

	items, err := NewYouTube().ImportChannel(context.Background(), catalog.ChannelImportRequest{ChannelID: "UCchan", Limit: 3})
	if err != nil {
		t.Fatalf("ImportChannel: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].ExternalID != "vid1" || items[2].ExternalID != "vid3" {
		t.Errorf("items out of page order: %q, %q", items[0].ExternalID, items[2].ExternalID)
	}
	if items[1].DurationSeconds != 120 {
		t.Errorf("vid2 DurationSeconds = %d, want 120", items[1].DurationSeconds)
	}
}

func TestYouTubeImportChannelKeepsEarlierPagesOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtube/v3/playlistItems":
			if r.URL.Query().Get("pageToken") != "" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, `{"nextPageToken":"p2","items":[
				{"snippet":{"title":"one"},"contentDetails":{"videoId":"vid1"}},
				{"snippet":{"title":"two"},"contentDetails":{"videoId":"vid2"}}]}`)
		case "/youtube/v3/videos":
			fmt.Fprint(w, `{"items":[]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	pointClientAt(t, srv, engine.Config{YouTubeAPIKey: "test-key"})

	items, err := NewYouTube().ImportChannel(context.Background(), catalog.ChannelImportRequest{ChannelID: "UCchan", Limit: 5})
	if err == nil {
		t.Fatal("expected error from failing second page")
	}
	if len(items) != 2 {
		t.Fatalf("got %d items alongside the error, want the 2 from the first page", len(items))
	}
	if items[0].ExternalID != "vid1" || items[1].ExternalID != "vid2" {
		t.Errorf("wrong items kept: %q, %q", items[0].ExternalID, items[1].ExternalID)
	}
}

func TestVideoIDs(t *testing.T) {
	var page ytPlaylistItemsResp
	page.Items = make([]struct {
		Snippet        ytSnippet `json:"snippet"`
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	}, 3)
	page.Items[0].ContentDetails.VideoID = "vid1"
	page.Items[1].ContentDetails.VideoID = "" // deleted video
	page.Items[2].ContentDetails.VideoID = "vid3"

	ids := videoIDs(page)
	if len(ids) != 2 || ids[0] != "vid1" || ids[1] != "vid3" {
		t.Errorf("videoIDs() = %v, want [vid1 vid3]", ids)
	}
}

package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"catalogsync/internal/catalog"
	"catalogsync/internal/engine"
)

func TestVimeoExtractID(t *testing.T) {
	v := NewVimeo()

	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{"plain", "https://vimeo.com/123456789", "123456789", true},
		{"trailing slash", "https://vimeo.com/123456789/", "123456789", true},
		{"query string", "https://vimeo.com/123456789?share=copy", "123456789", true},
		{"video path", "https://vimeo.com/video/123456789", "123456789", true},
		{"player url", "https://player.vimeo.com/video/123456789", "123456789", true},
		{"channel video", "https://vimeo.com/channels/staffpicks/123456789", "123456789", true},
		{"channel without video", "https://vimeo.com/channels/staffpicks", "", false},
		{"profile page", "https://vimeo.com/somecreator", "", false},
		{"other host", "https://youtu.be/dQw4w9WgXcQ", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := v.ExtractID(tt.url)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("ExtractID(%q) = (%q, %v), want (%q, %v)", tt.url, id, ok, tt.wantID, tt.wantOK)
			}
			if got := v.ValidateURL(tt.url); got != tt.wantOK {
				t.Errorf("ValidateURL(%q) = %v, want %v", tt.url, got, tt.wantOK)
			}
		})
	}
}

func TestVimeoNormalizeSimple(t *testing.T) {
	v := NewVimeo()
	sv := vimeoSimpleVideo{
		ID:          123456789,
		Title:       "Short film",
		Description: "A short film.",
		URL:         "https://vimeo.com/123456789",
		UploadDate:  "2023-06-01 14:00:00",
		Duration:    420,
	}

	got := v.normalizeSimple(sv)

	if got.Name != "Short film" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.ExternalID != "123456789" {
		t.Errorf("ExternalID = %q, want 123456789", got.ExternalID)
	}
	if got.DurationSeconds != 420 {
		t.Errorf("DurationSeconds = %d, want 420", got.DurationSeconds)
	}
	if got.SourceType != catalog.SourceVimeo {
		t.Errorf("SourceType = %q", got.SourceType)
	}
	if got.MediaURL != sv.URL || got.SourceURL != sv.URL {
		t.Errorf("MediaURL = %q, SourceURL = %q, want %q", got.MediaURL, got.SourceURL, sv.URL)
	}
	wantDate := time.Date(2023, 6, 1, 14, 0, 0, 0, time.UTC)
	if !got.ReleaseDate.Equal(wantDate) {
		t.Errorf("ReleaseDate = %v, want %v", got.ReleaseDate, wantDate)
	}
}

// simplePage builds a full or partial Simple API page starting at firstID.
func simplePage(firstID int64, n int) []vimeoSimpleVideo {
	page := make([]vimeoSimpleVideo, n)
	for i := range page {
		id := firstID + int64(i)
		page[i] = vimeoSimpleVideo{ID: id, Title: "video " + strconv.FormatInt(id, 10), Duration: 60}
	}
	return page
}

func TestVimeoImportChannelPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/channel/mychannel/videos.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.URL.Query().Get("page") {
		case "1":
			json.NewEncoder(w).Encode(simplePage(1, vimeoPageSize))
		case "2":
			json.NewEncoder(w).Encode(simplePage(21, 5))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()
	pointClientAt(t, srv, engine.Config{})

	items, err := NewVimeo().ImportChannel(context.Background(), catalog.ChannelImportRequest{ChannelID: "mychannel", Limit: 25})
	if err != nil {
		t.Fatalf("ImportChannel: %v", err)
	}
	if len(items) != 25 {
		t.Fatalf("got %d items, want 25 across two pages", len(items))
	}
	if items[0].ExternalID != "1" || items[24].ExternalID != "25" {
		t.Errorf("items out of page order: %q, %q", items[0].ExternalID, items[24].ExternalID)
	}
}

func TestVimeoImportChannelKeepsEarlierPagesOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			json.NewEncoder(w).Encode(simplePage(1, vimeoPageSize))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	pointClientAt(t, srv, engine.Config{})

	items, err := NewVimeo().ImportChannel(context.Background(), catalog.ChannelImportRequest{ChannelID: "mychannel", Limit: 30})
	if err == nil {
		t.Fatal("expected error from failing second page")
	}
	if len(items) != vimeoPageSize {
		t.Fatalf("got %d items alongside the error, want the %d from the first page", len(items), vimeoPageSize)
	}
	if !strings.Contains(err.Error(), "page 2") {
		t.Errorf("error should name the failing page, got %q", err)
	}
}

func TestVimeoNormalizeSimpleBuildsURLFromID(t *testing.T) {
	v := NewVimeo()

	got := v.normalizeSimple(vimeoSimpleVideo{ID: 42, Title: "t"})
	if got.MediaURL != "https://vimeo.com/42" {
		t.Errorf("MediaURL = %q, want https://vimeo.com/42", got.MediaURL)
	}
	if !got.ReleaseDate.IsZero() {
		t.Errorf("ReleaseDate = %v, want zero for missing upload_date", got.ReleaseDate)
	}
}

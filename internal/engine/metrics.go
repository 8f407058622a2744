package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the import pipeline.
var metrics struct {
	VideoImports    atomic.Int64
	ChannelImports  atomic.Int64
	Duplicates      atomic.Int64
	ImportErrors    atomic.Int64
	YouTubeRequests atomic.Int64
	VimeoRequests   atomic.Int64
}

// IncrVideoImports increments the single-video import counter.
func IncrVideoImports() { metrics.VideoImports.Add(1) }

// IncrChannelImports increments the channel import counter.
func IncrChannelImports() { metrics.ChannelImports.Add(1) }

// IncrDuplicates increments the duplicate-skipped counter.
func IncrDuplicates() { metrics.Duplicates.Add(1) }

// IncrImportErrors increments the per-item import failure counter.
func IncrImportErrors() { metrics.ImportErrors.Add(1) }

// IncrYouTubeRequests increments the YouTube API request counter.
func IncrYouTubeRequests() { metrics.YouTubeRequests.Add(1) }

// IncrVimeoRequests increments the Vimeo API request counter.
func IncrVimeoRequests() { metrics.VimeoRequests.Add(1) }

// GetMetrics returns a snapshot of all counters including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"video_imports":    metrics.VideoImports.Load(),
		"channel_imports":  metrics.ChannelImports.Load(),
		"duplicates":       metrics.Duplicates.Load(),
		"import_errors":    metrics.ImportErrors.Load(),
		"youtube_requests": metrics.YouTubeRequests.Load(),
		"vimeo_requests":   metrics.VimeoRequests.Load(),
		"cache_hits":       hits,
		"cache_misses":     misses,
	}
}

// FormatMetrics returns metrics as a simple text format for the HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"video_imports", "channel_imports",
		"duplicates", "import_errors",
		"youtube_requests", "vimeo_requests",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

package catalog

import "context"

// Adapter is the per-platform content-fetching contract. One implementation
// exists per external platform; all of them produce NormalizedContent so the
// orchestrator never sees platform-specific shapes.
type Adapter interface {
	// SourceType returns the platform identifier this adapter serves.
	SourceType() SourceType

	// SupportedDomains returns hostname fragments the adapter recognizes in URLs.
	SupportedDomains() []string

	// ValidateURL reports whether the adapter can extract a stable external
	// identifier from the URL.
	ValidateURL(rawURL string) bool

	// ExtractID pulls the platform-native item ID from a URL. ok is false for
	// URLs the adapter does not recognize as a single item — including
	// collection/channel URLs on its own platform.
	ExtractID(rawURL string) (id string, ok bool)

	// ImportVideo fetches one item's metadata and normalizes it. Fails with a
	// transport error (platform unreachable, item not found) or a validation
	// error (malformed URL).
	ImportVideo(ctx context.Context, req VideoImportRequest) (NormalizedContent, error)

	// ImportChannel fetches up to req.Limit items from a collection, paging
	// through the platform API until the limit is reached or the platform
	// reports no more pages. Never returns more than the limit, even when the
	// platform hands back a larger page. On a mid-pagination failure the
	// items fetched from earlier pages are returned alongside the error so
	// they are not lost.
	ImportChannel(ctx context.Context, req ChannelImportRequest) ([]NormalizedContent, error)
}

// Package catalog implements the content import pipeline: platform adapters,
// the adapter registry, the import orchestrator, and the catalog store contract.
package catalog

import "time"

// SourceType identifies the external platform a piece of content came from.
type SourceType string

const (
	SourceYouTube SourceType = "youtube"
	SourceVimeo   SourceType = "vimeo"
)

// Language is the normalized content language.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// MediaType is the normalized media kind.
type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// NormalizedContent is the platform-independent record shape every adapter
// produces. It is the transport format between adapter and orchestrator and is
// never persisted directly; ExternalID+SourceType is the dedup key.
type NormalizedContent struct {
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Language        Language   `json:"language"`
	DurationSeconds int64      `json:"duration_seconds"`
	ReleaseDate     time.Time  `json:"release_date"`
	MediaURL        string     `json:"media_url"`
	MediaType       MediaType  `json:"media_type"`
	SourceType      SourceType `json:"source_type"`
	SourceURL       string     `json:"source_url"`
	ExternalID      string     `json:"external_id"`
}

// Record is the persisted form of a catalog entry, owned by the store.
type Record struct {
	ID int64 `json:"id"`
	NormalizedContent
	CategoryID string    `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// VideoImportRequest asks for a single item import by URL.
type VideoImportRequest struct {
	URL        string `json:"url"`
	CategoryID string `json:"category_id,omitempty"`
}

// Channel import limits. Limit bounds both the number of external API pages
// fetched and the number of items persisted.
const (
	DefaultChannelLimit = 10
	MaxChannelLimit     = 50
)

// ChannelImportRequest asks for up to Limit items from a channel/collection.
type ChannelImportRequest struct {
	ChannelID  string `json:"channel_id"`
	Limit      int    `json:"limit,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
}

// ClampLimit applies the default and hard cap to a requested channel limit.
func (r ChannelImportRequest) ClampLimit() int {
	if r.Limit <= 0 {
		return DefaultChannelLimit
	}
	if r.Limit > MaxChannelLimit {
		return MaxChannelLimit
	}
	return r.Limit
}

// OutcomeKind classifies the terminal state of one item's import.
type OutcomeKind int

const (
	OutcomeImported OutcomeKind = iota
	OutcomeDuplicate
	OutcomeFailed
)

// ImportOutcome is the per-item result of the persistence flow. Exactly one is
// produced per normalized content item; none are silently dropped.
type ImportOutcome struct {
	Kind   OutcomeKind
	Record Record // valid only when Kind == OutcomeImported
	Reason string // duplicate reason or failure message otherwise
}

// ImportBatchResult aggregates item outcomes for one import call. Single-item
// operations return the same shape with at most one item.
//
// Invariant: ImportedCount + DuplicatesSkipped == items attempted, and every
// Duplicate/Failed outcome contributes one entry to Errors, in processing order.
// Persistence failures share the DuplicatesSkipped bucket with true duplicates;
// the two are only distinguishable through the Errors messages. A channel
// import whose pagination aborted mid-fetch carries one extra Errors entry for
// the page failure, not tied to any item.
type ImportBatchResult struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	ImportedCount     int      `json:"imported_count"`
	DuplicatesSkipped int      `json:"duplicates_skipped"`
	Imported          []Record `json:"imported"`
	Errors            []string `json:"errors"`
}

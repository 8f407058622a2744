package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"catalogsync/internal/engine"
)

// Importer is the top-level entry point for content imports. It resolves the
// right adapter, drives the fetch, runs the duplicate-checked persistence flow
// and aggregates per-item outcomes into a batch result.
//
// All four operations return data, never panic: every failure mode is
// represented in the ImportBatchResult so the transport layer can map it to
// whatever status codes it needs.
type Importer struct {
	registry *Registry
	store    Store
}

// NewImporter wires an importer to its adapter registry and catalog store.
func NewImporter(registry *Registry, store Store) *Importer {
	return &Importer{registry: registry, store: store}
}

// Registry exposes the adapter registry for callers that need source-type
// listings or URL support checks.
func (im *Importer) Registry() *Registry { return im.registry }

// ImportVideo imports a single item by URL. Adapter resolution and the fetch
// are whole-call failures; only the persistence step produces a per-item
// outcome. The result is a batch of size at most 1.
func (im *Importer) ImportVideo(ctx context.Context, req VideoImportRequest) ImportBatchResult {
	engine.IncrVideoImports()

	adapter, err := im.registry.ResolveByURL(req.URL)
	if err != nil {
		return callFailure(err)
	}

	content, err := adapter.ImportVideo(ctx, req)
	if err != nil {
		slog.Warn("video import fetch failed",
			slog.String("source", string(adapter.SourceType())),
			slog.String("url", req.URL),
			slog.Any("error", err))
		return callFailure(err)
	}

	outcome := im.persist(ctx, content, req.CategoryID)
	return aggregate([]ImportOutcome{outcome})
}

// ImportChannel imports up to req.Limit items from a channel on the given
// platform. A resolution failure, or a fetch failure before anything was
// fetched, short-circuits the whole call. A fetch failure mid-pagination only
// aborts the remaining pages: items fetched from earlier pages still run the
// persistence flow and keep their outcomes, with the page failure appended to
// Errors. Items are processed sequentially in fetch order, and the result's
// Imported and Errors slices preserve that order.
func (im *Importer) ImportChannel(ctx context.Context, source SourceType, req ChannelImportRequest) ImportBatchResult {
	engine.IncrChannelImports()

	adapter, err := im.registry.Resolve(source)
	if err != nil {
		return callFailure(err)
	}

	req.Limit = req.ClampLimit()
	items, fetchErr := adapter.ImportChannel(ctx, req)
	if fetchErr != nil {
		slog.Warn("channel import fetch failed",
			slog.String("source", string(source)),
			slog.String("channel", req.ChannelID),
			slog.Int("fetched", len(items)),
			slog.Any("error", fetchErr))
		if len(items) == 0 {
			return callFailure(fetchErr)
		}
	}

	outcomes := make([]ImportOutcome, 0, len(items))
	for _, content := range items {
		outcomes = append(outcomes, im.persist(ctx, content, req.CategoryID))
	}

	result := aggregate(outcomes)
	if fetchErr != nil {
		result.Errors = append(result.Errors, fetchErr.Error())
		result.Message += fmt.Sprintf("; pagination aborted: %v", fetchErr)
	}
	slog.Info("channel import finished",
		slog.String("source", string(source)),
		slog.String("channel", req.ChannelID),
		slog.Int("imported", result.ImportedCount),
		slog.Int("skipped", result.DuplicatesSkipped))
	return result
}

// ImportBySourceType imports by declared source type instead of URL sniffing.
// Only single-item URLs are accepted here: when the URL does not extract an
// item ID — it looks like a channel or collection — the call is refused rather
// than silently redirected, so channel imports stay on the explicit
// ImportChannel path.
func (im *Importer) ImportBySourceType(ctx context.Context, source SourceType, req VideoImportRequest) ImportBatchResult {
	engine.IncrVideoImports()

	adapter, err := im.registry.Resolve(source)
	if err != nil {
		return callFailure(err)
	}

	if _, ok := adapter.ExtractID(req.URL); !ok {
		return callFailure(errors.New("channel import is not supported via this endpoint; use the channel import operation"))
	}

	content, err := adapter.ImportVideo(ctx, req)
	if err != nil {
		return callFailure(err)
	}

	outcome := im.persist(ctx, content, req.CategoryID)
	return aggregate([]ImportOutcome{outcome})
}

// CheckDuplicate delegates to the store's existence check. No caching, no side
// effects.
func (im *Importer) CheckDuplicate(ctx context.Context, externalID string, source SourceType) (bool, error) {
	return im.store.Exists(ctx, externalID, source)
}

// persist runs the single-item persistence flow shared by all import
// operations: existence check, then create. The check and the create are two
// separate store calls; the race window between them is closed by the store's
// unique constraint, whose conflict error is folded into the duplicate outcome.
func (im *Importer) persist(ctx context.Context, content NormalizedContent, categoryID string) ImportOutcome {
	exists, err := im.store.Exists(ctx, content.ExternalID, content.SourceType)
	if err != nil {
		engine.IncrImportErrors()
		return ImportOutcome{Kind: OutcomeFailed, Reason: fmt.Sprintf("duplicate check failed: %v", err)}
	}
	if exists {
		engine.IncrDuplicates()
		return ImportOutcome{Kind: OutcomeDuplicate, Reason: "Content already exists"}
	}

	rec, err := im.store.Create(ctx, content, categoryID)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			// Lost the check-then-create race to a concurrent import.
			engine.IncrDuplicates()
			return ImportOutcome{Kind: OutcomeDuplicate, Reason: "Content already exists"}
		}
		engine.IncrImportErrors()
		slog.Warn("catalog create failed",
			slog.String("external_id", content.ExternalID),
			slog.String("source", string(content.SourceType)),
			slog.Any("error", err))
		return ImportOutcome{Kind: OutcomeFailed, Reason: err.Error()}
	}

	return ImportOutcome{Kind: OutcomeImported, Record: rec}
}

// callFailure shapes a whole-call failure: nothing was attempted, so counts
// are zero and the single error describes why.
func callFailure(err error) ImportBatchResult {
	return ImportBatchResult{
		Success:  false,
		Message:  err.Error(),
		Imported: []Record{},
		Errors:   []string{err.Error()},
	}
}

// aggregate derives the batch result from per-item outcomes.
// ImportedCount counts Imported outcomes; DuplicatesSkipped counts Duplicate
// and Failed outcomes together; every non-imported outcome contributes its
// reason to Errors in processing order.
func aggregate(outcomes []ImportOutcome) ImportBatchResult {
	result := ImportBatchResult{
		Success:  true,
		Imported: []Record{},
		Errors:   []string{},
	}

	var duplicates, failures int
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeImported:
			result.ImportedCount++
			result.Imported = append(result.Imported, o.Record)
		case OutcomeDuplicate:
			duplicates++
			result.DuplicatesSkipped++
			result.Errors = append(result.Errors, o.Reason)
		case OutcomeFailed:
			failures++
			result.DuplicatesSkipped++
			result.Errors = append(result.Errors, o.Reason)
		}
	}

	result.Message = fmt.Sprintf("Imported %d, skipped %d duplicates", result.ImportedCount, duplicates)
	if failures > 0 {
		result.Message += fmt.Sprintf(", %d errors", failures)
	}
	return result
}

package importserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"catalogsync/internal/catalog"
)

// ImportBySourceInput is the input for import_by_source.
type ImportBySourceInput struct {
	Source     string `json:"source" jsonschema:"Platform source type (youtube, vimeo)"`
	URL        string `json:"url" jsonschema:"Single-video URL on the declared platform"`
	CategoryID string `json:"category_id,omitempty" jsonschema:"Optional catalog category to attach the imported record to"`
}

func registerImportBySource(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_by_source",
		Description: "Import a single video by URL for an explicitly declared platform, skipping URL-based platform detection. Channel or collection URLs are refused — use import_channel for those.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ImportBySourceInput) (*mcp.CallToolResult, catalog.ImportBatchResult, error) {
		if input.Source == "" {
			return nil, catalog.ImportBatchResult{}, fmt.Errorf("source is required")
		}
		if input.URL == "" {
			return nil, catalog.ImportBatchResult{}, fmt.Errorf("url is required")
		}

		result := importer.ImportBySourceType(ctx, parseSource(input.Source), catalog.VideoImportRequest{
			URL:        input.URL,
			CategoryID: input.CategoryID,
		})
		return nil, result, nil
	})
}

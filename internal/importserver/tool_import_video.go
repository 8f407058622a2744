package importserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"catalogsync/internal/catalog"
)

// ImportVideoInput is the input for import_video.
type ImportVideoInput struct {
	URL        string `json:"url" jsonschema:"Video URL on any supported platform (YouTube, Vimeo)"`
	CategoryID string `json:"category_id,omitempty" jsonschema:"Optional catalog category to attach the imported record to"`
}

func registerImportVideo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_video",
		Description: "Import a single video by URL into the catalog. The platform is detected from the URL, metadata is fetched and normalized, and duplicates (same external ID and source) are skipped. Returns imported/skipped counts and any errors.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ImportVideoInput) (*mcp.CallToolResult, catalog.ImportBatchResult, error) {
		if input.URL == "" {
			return nil, catalog.ImportBatchResult{}, fmt.Errorf("url is required")
		}

		result := importer.ImportVideo(ctx, catalog.VideoImportRequest{
			URL:        input.URL,
			CategoryID: input.CategoryID,
		})
		return nil, result, nil
	})
}

package importserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"catalogsync/internal/catalog"
)

// ImportChannelInput is the input for import_channel.
type ImportChannelInput struct {
	Source     string `json:"source" jsonschema:"Platform source type (youtube, vimeo)"`
	ChannelID  string `json:"channel_id" jsonschema:"Platform-native channel ID (e.g. a YouTube UC... ID or a Vimeo channel name)"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Max videos to import (default 10, max 50)"`
	CategoryID string `json:"category_id,omitempty" jsonschema:"Optional catalog category to attach imported records to"`
}

func registerImportChannel(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "import_channel",
		Description: "Import up to limit videos from a platform channel into the catalog. Pages through the platform API, normalizes each item, skips duplicates, and continues past individual failures. Returns aggregated imported/skipped counts and per-item errors.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ImportChannelInput) (*mcp.CallToolResult, catalog.ImportBatchResult, error) {
		if input.Source == "" {
			return nil, catalog.ImportBatchResult{}, fmt.Errorf("source is required")
		}
		if input.ChannelID == "" {
			return nil, catalog.ImportBatchResult{}, fmt.Errorf("channel_id is required")
		}

		result := importer.ImportChannel(ctx, parseSource(input.Source), catalog.ChannelImportRequest{
			ChannelID:  input.ChannelID,
			Limit:      input.Limit,
			CategoryID: input.CategoryID,
		})
		return nil, result, nil
	})
}

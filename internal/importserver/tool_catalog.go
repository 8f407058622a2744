package importserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CheckDuplicateInput is the input for check_duplicate.
type CheckDuplicateInput struct {
	ExternalID string `json:"external_id" jsonschema:"Platform-native item ID"`
	Source     string `json:"source" jsonschema:"Platform source type (youtube, vimeo)"`
}

// CheckDuplicateOutput is the output for check_duplicate.
type CheckDuplicateOutput struct {
	Exists bool `json:"exists"`
}

func registerCheckDuplicate(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_duplicate",
		Description: "Check whether content with the given external ID and source type is already in the catalog.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input CheckDuplicateInput) (*mcp.CallToolResult, CheckDuplicateOutput, error) {
		if input.ExternalID == "" || input.Source == "" {
			return nil, CheckDuplicateOutput{}, fmt.Errorf("external_id and source are required")
		}

		exists, err := importer.CheckDuplicate(ctx, input.ExternalID, parseSource(input.Source))
		if err != nil {
			return nil, CheckDuplicateOutput{}, fmt.Errorf("duplicate check failed: %w", err)
		}
		return nil, CheckDuplicateOutput{Exists: exists}, nil
	})
}

// SupportedSourcesInput is the input for supported_sources.
type SupportedSourcesInput struct {
	URL string `json:"url,omitempty" jsonschema:"Optional URL to test for adapter support"`
}

// SupportedSourcesOutput is the output for supported_sources.
type SupportedSourcesOutput struct {
	Sources      []string `json:"sources"`
	URLSupported *bool    `json:"url_supported,omitempty"`
}

func registerSupportedSources(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "supported_sources",
		Description: "List the platform source types with a registered adapter. Optionally pass a URL to check whether any adapter can import it.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input SupportedSourcesInput) (*mcp.CallToolResult, SupportedSourcesOutput, error) {
		registry := importer.Registry()

		types := registry.SupportedSourceTypes()
		sources := make([]string, len(types))
		for i, st := range types {
			sources[i] = string(st)
		}

		out := SupportedSourcesOutput{Sources: sources}
		if input.URL != "" {
			supported := registry.IsURLSupported(input.URL)
			out.URLSupported = &supported
		}
		return nil, out, nil
	})
}

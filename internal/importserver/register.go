// Package importserver exposes the import pipeline as MCP tools:
// import_video, import_channel, import_by_source, check_duplicate,
// supported_sources.
package importserver

import (
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"catalogsync/internal/catalog"
)

// importer is the package-level pipeline instance, set by RegisterTools.
var importer *catalog.Importer

// RegisterTools registers all import tools on the given MCP server.
func RegisterTools(server *mcp.Server, im *catalog.Importer) {
	importer = im

	registerImportVideo(server)
	registerImportChannel(server)
	registerImportBySource(server)
	registerCheckDuplicate(server)
	registerSupportedSources(server)
}

// parseSource normalises a caller-supplied source type string.
func parseSource(s string) catalog.SourceType {
	return catalog.SourceType(strings.ToLower(strings.TrimSpace(s)))
}

package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexLibraryTool returns the tool definition for index_library
func indexLibraryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_library",
		Description: "Index a directory of tag files to make its groups and tags searchable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the library root (must contain tag files)",
				},
				"force_reindex": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, re-index all files ignoring content hashes (full rebuild)",
					"default":     false,
				},
				"delimiter": map[string]interface{}{
					"type":        "string",
					"description": "Single character separating entries within a tag file (defaults to the server's TAGFILE_DELIMITER, usually newline)",
				},
				"extensions": map[string]interface{}{
					"type":        "array",
					"description": "File extensions to index (defaults to the server's TAGFILE_EXTENSIONS, usually .tags)",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"path"},
		},
	}
}

// searchTagsTool returns the tool definition for search_tags
func searchTagsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_tags",
		Description: "Search an indexed tag library for tag lines or group names",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to an indexed library root",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (tag text for tags mode, exact group name for groups mode)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Search strategy: tags (full-text over tag lines) or groups (group-name lookup)",
					"enum":        []string{"tags", "groups"},
					"default":     "tags",
				},
			},
			Required: []string{"path", "query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query indexing status and statistics for a tag library",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a library root",
				},
			},
			Required: []string{"path"},
		},
	}
}

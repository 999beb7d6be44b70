// Package mcp implements the Model Context Protocol (MCP) server for tagfile.
//
// The MCP server exposes three tools to AI coding assistants:
//   - index_library: Index a directory of tag files for search
//   - search_tags: Search indexed tag lines or look up groups by name
//   - get_status: Check indexing status and statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output,
// making it simple to integrate with any MCP-compatible client.
//
// # Tool: index_library
//
// Index a directory of tag files to make it searchable:
//
//	Request:
//	{
//	  "name": "index_library",
//	  "arguments": {
//	    "path": "/path/to/library",
//	    "force_reindex": false,
//	    "delimiter": "\n",
//	    "extensions": [".tags"]
//	  }
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "sources_indexed": 42,
//	  "sources_skipped": 7,
//	  "groups_stored": 120,
//	  "tags_stored": 1843,
//	  "duration_ms": 310
//	}
//
// # Tool: search_tags
//
// Search indexed tag lines (mode "tags") or look up groups by exact
// name (mode "groups"):
//
//	Request:
//	{
//	  "name": "search_tags",
//	  "arguments": {
//	    "path": "/path/to/library",
//	    "query": "action",
//	    "limit": 10,
//	    "mode": "tags"
//	  }
//	}
//
//	Response:
//	{
//	  "query": "action",
//	  "mode": "tags",
//	  "total_results": 2,
//	  "results": [
//	    {
//	      "rank": 1,
//	      "line": "action adventure",
//	      "group_name": "Generic",
//	      "source_path": "anime/attack_on_titan.tags",
//	      "position": 0,
//	      "score": -1.2
//	    }
//	  ]
//	}
//
// # Tool: get_status
//
// Check indexing status:
//
//	Request:
//	{
//	  "name": "get_status",
//	  "arguments": {
//	    "path": "/path/to/library"
//	  }
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "library": {
//	    "path": "/path/to/library",
//	    "delimiter": "\n",
//	    "last_indexed_at": "2024-01-15T10:30:00Z"
//	  },
//	  "statistics": {
//	    "sources_count": 42,
//	    "groups_count": 120,
//	    "tags_count": 1843
//	  },
//	  "health": {
//	    "database_accessible": true,
//	    "fts_index_built": true
//	  }
//	}
//
// # Error Handling
//
// The MCP server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "invalid path",
//	    "data": {
//	      "param": "path",
//	      "reason": "path does not exist"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32001: Library not found (no tag files at path)
//   - -32002: Indexing in progress
//   - -32003: Library not indexed
//   - -32004: Empty query
//   - -32603: Internal error (database, filesystem, etc.)
//
// # Logging
//
// The MCP server logs to stderr (stdout is reserved for MCP protocol):
//
//	log.SetOutput(os.Stderr)
//	log.Printf("MCP server started")
package mcp

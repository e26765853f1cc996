// Package mcp provides an MCP (Model Context Protocol) server adapter for scour.
// It enables AI assistants to run multi-source knowledge searches.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

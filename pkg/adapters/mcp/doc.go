// Package mcp exposes catsort as Model Context Protocol tools
// (group_categories, detect_layout, parse_mapping) over stdio or SSE.
package mcp

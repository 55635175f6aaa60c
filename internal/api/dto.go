package api

import "github.com/perthos/docpress/internal/query"

// SourceListResponse wraps the source listing.
type SourceListResponse struct {
	Sources []query.SourceInfo `json:"sources"`
	Total   int                `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []query.SearchResult `json:"results"`
}

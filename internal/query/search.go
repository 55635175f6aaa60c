package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/perthos/docpress/internal/apperr"
	"github.com/perthos/docpress/internal/artifact"
	"github.com/perthos/docpress/internal/store"
)

// titleWeight is how much a title hit outweighs a body hit when scoring.
const titleWeight = 5

// defaultSearchLimit bounds result sets when the caller does not.
const defaultSearchLimit = 10

// previewContext is the number of characters kept on each side of the first
// match in a preview snippet.
const previewContext = 150

// SearchResult is one search hit.
type SearchResult struct {
	Slug    string `json:"slug"`
	Path    string `json:"path"`
	Repo    string `json:"repo"`
	Title   string `json:"title"`
	Score   int    `json:"score"`
	Preview string `json:"preview"`
}

// Search performs a case-insensitive substring search over titles and
// bodies. Score is titleWeight times the title match count plus the body
// match count; results are ordered by descending score with slug as the
// deterministic tiebreak. Unreadable artifacts are skipped, not fatal.
func (s *Service) Search(query, sourceFilter string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", apperr.ErrInvalidArgument)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", apperr.ErrInvalidArgument)
	}
	if limit == 0 {
		limit = defaultSearchLimit
	}

	needle := strings.ToLower(query)
	var results []SearchResult

	for _, e := range s.index.Entries() {
		if sourceFilter != "" && e.Repo != sourceFilter {
			continue
		}

		data, err := s.store.Read(store.ArtifactFile(e.Slug))
		if err != nil {
			continue
		}
		_, body, err := artifact.Decode(data)
		if err != nil {
			continue
		}

		titleHits := strings.Count(strings.ToLower(e.Title), needle)
		bodyHits := strings.Count(strings.ToLower(body), needle)
		score := titleWeight*titleHits + bodyHits
		if score == 0 {
			continue
		}

		results = append(results, SearchResult{
			Slug:    e.Slug,
			Path:    e.Path,
			Repo:    e.Repo,
			Title:   e.Title,
			Score:   score,
			Preview: extractPreview(body, needle),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Slug < results[j].Slug
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// extractPreview returns a bounded snippet centered on the first match, with
// ellipses marking truncation. When the body has no match (title-only hit)
// the snippet is the start of the body.
func extractPreview(body, needle string) string {
	pos := strings.Index(strings.ToLower(body), needle)
	if pos < 0 {
		if len(body) > 2*previewContext {
			return body[:2*previewContext] + "..."
		}
		return body
	}

	start := pos - previewContext
	if start < 0 {
		start = 0
	}
	end := pos + len(needle) + previewContext
	if end > len(body) {
		end = len(body)
	}

	preview := body[start:end]
	if start > 0 {
		preview = "..." + preview
	}
	if end < len(body) {
		preview = preview + "..."
	}
	return preview
}

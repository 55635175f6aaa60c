package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/perthos/docpress/internal/apperr"
	"github.com/perthos/docpress/internal/artifact"
	"github.com/perthos/docpress/internal/models"
	"github.com/perthos/docpress/internal/store"
)

// Service answers list/get/search/stats queries against a published store.
// Every operation is side-effect-free with respect to the store.
type Service struct {
	store store.Provider
	index *Index
}

// NewService creates a query service over the given store and index.
func NewService(st store.Provider, index *Index) *Service {
	return &Service{store: st, index: index}
}

// SourceInfo describes one distinct origin present in the manifest.
type SourceInfo struct {
	Repo      string `json:"repo"`
	FileCount int    `json:"file_count,omitempty"`
	TotalSize int64  `json:"total_size,omitempty"`
}

// ListSources enumerates the distinct repos in the manifest, optionally with
// aggregate file count and size. filter, when non-empty, restricts the
// result by substring match on the repo name.
func (s *Service) ListSources(filter string, includeStats bool) ([]SourceInfo, error) {
	counts := make(map[string]*SourceInfo)
	for _, e := range s.index.Entries() {
		if filter != "" && !strings.Contains(strings.ToLower(e.Repo), strings.ToLower(filter)) {
			continue
		}
		info, ok := counts[e.Repo]
		if !ok {
			info = &SourceInfo{Repo: e.Repo}
			counts[e.Repo] = info
		}
		if includeStats {
			info.FileCount++
			info.TotalSize += e.Size
		}
	}

	out := make([]SourceInfo, 0, len(counts))
	for _, info := range counts {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Repo < out[j].Repo })
	return out, nil
}

// FileResult is the payload for a single resolved artifact.
type FileResult struct {
	Slug     string             `json:"slug"`
	Path     string             `json:"path"`
	Content  string             `json:"content"`
	Meta     models.FrontMatter `json:"meta"`
	Size     int64              `json:"size"`
	Modified time.Time          `json:"modified"`
}

// GetFile resolves a slug or source path to a concrete artifact and returns
// its current on-disk content. The manifest is an index, not a cache of
// bodies: content is read fresh from disk on every call. An unresolvable
// identifier returns apperr.ErrNotFound.
func (s *Service) GetFile(pathOrSlug string) (*FileResult, error) {
	if pathOrSlug == "" {
		return nil, fmt.Errorf("%w: path or slug required", apperr.ErrInvalidArgument)
	}
	entry, ok := s.index.Lookup(pathOrSlug)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, pathOrSlug)
	}

	file := store.ArtifactFile(entry.Slug)
	data, err := s.store.Read(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, pathOrSlug)
	}
	fm, body, err := artifact.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("query: decode %s: %w", entry.Slug, err)
	}

	result := &FileResult{
		Slug:    entry.Slug,
		Path:    entry.Path,
		Content: body,
		Meta:    fm,
		Size:    int64(len(data)),
	}
	if info, err := s.store.Stat(file); err == nil {
		result.Modified = info.Modified
	}
	return result, nil
}

// Stats aggregates document and byte counts, per repo when detailed.
type Stats struct {
	Documents int                  `json:"documents"`
	Bytes     int64                `json:"bytes"`
	Sources   int                  `json:"sources"`
	PerSource map[string]SourceInfo `json:"per_source,omitempty"`
}

// Stats returns aggregate counts over the manifest.
func (s *Service) Stats(detailed bool) (*Stats, error) {
	out := &Stats{}
	perSource := make(map[string]SourceInfo)
	for _, e := range s.index.Entries() {
		out.Documents++
		out.Bytes += e.Size
		info := perSource[e.Repo]
		info.Repo = e.Repo
		info.FileCount++
		info.TotalSize += e.Size
		perSource[e.Repo] = info
	}
	out.Sources = len(perSource)
	if detailed {
		out.PerSource = perSource
	}
	return out, nil
}

package artifact

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/perthos/docpress/internal/checksum"
	"github.com/perthos/docpress/internal/models"
)

// ContentHash fingerprints a normalized body together with its stable
// metadata. Fields are folded in as canonical key=value lines in sorted key
// order, so insertion order never matters, and volatile fields (fetched_at)
// are excluded, so run time never matters. Identical semantic content always
// hashes identically.
func ContentHash(body string, fm models.FrontMatter) string {
	fields := map[string]string{
		"path":   fm.Path,
		"ref":    fm.Ref,
		"repo":   fm.Repo,
		"schema": fm.Schema,
		"slug":   fm.Slug,
		"title":  fm.Title,
		"topics": strings.Join(fm.Topics, ","),
		"url":    fm.URL,
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(body)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, fields[k])
	}
	return checksum.SumString(b.String())
}

// Build assembles the persisted unit for one normalized document. Pure apart
// from the supplied timestamp, which is recorded as fetched_at only and never
// participates in identity or fingerprinting.
func Build(doc models.NormalizedDocument, src models.SourceDocument, now time.Time) models.Artifact {
	slug := Slug(src.Repo, src.Path)
	topics := doc.Topics
	if topics == nil {
		topics = []string{}
	}

	fm := models.FrontMatter{
		Schema:    models.SchemaVersion,
		Repo:      src.Repo,
		Ref:       src.Ref,
		Path:      src.Path,
		URL:       CanonicalURL(src.Repo, src.Ref, src.Path),
		Title:     doc.Title,
		Topics:    topics,
		FetchedAt: now.UTC().Format(time.RFC3339),
		Slug:      slug,
	}
	fm.ContentHash = ContentHash(doc.Body, fm)

	return models.Artifact{
		Slug:        slug,
		ContentHash: fm.ContentHash,
		FrontMatter: fm,
		Body:        doc.Body,
	}
}

// CanonicalURL builds the public URL for a source file. "owner/name" repos
// map to GitHub blob URLs; anything else is treated as a base URL.
func CanonicalURL(repo, ref, path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if strings.Count(repo, "/") == 1 && !strings.Contains(repo, "://") {
		return fmt.Sprintf("https://github.com/%s/blob/%s/%s", repo, ref, path)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(repo, "/"), ref, path)
}

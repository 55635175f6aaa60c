// Package artifact computes deterministic identity and fingerprints for
// normalized documents and encodes them as .mdc files.
package artifact

import (
	"regexp"
	"strings"

	"github.com/perthos/docpress/internal/checksum"
)

// sep joins origin and path components inside a slug.
const sep = "__"

var (
	nonSlugRe     = regexp.MustCompile(`[^a-z0-9._/-]+`)
	multiHyphenRe = regexp.MustCompile(`-{2,}`)
	extensionRe   = regexp.MustCompile(`\.(md|mdx)$`)
)

// Slug derives the stable artifact identifier for a (repo, path) pair.
// The repo's final segment is slugified and joined to the path with directory
// separators replaced by a fixed token. Dots in the path (after the
// .md/.mdx extension is stripped) join segments the same way separators do,
// so "a.b" and "a-b" stay distinct. Any query or fragment component in the
// path is hashed and appended rather than embedded, keeping slugs URL-safe
// and length-bounded. Pure: independent of processing order, clock, and run
// history.
func Slug(repo, path string) string {
	path, suffix := splitVolatile(path)

	origin := repo
	if i := strings.LastIndex(origin, "/"); i >= 0 {
		origin = origin[i+1:]
	}
	origin = slugify(origin)

	p := strings.ReplaceAll(strings.ToLower(path), "\\", "/")
	p = extensionRe.ReplaceAllString(p, "")
	p = strings.ReplaceAll(p, ".", "/")
	p = slugify(p)
	p = strings.ReplaceAll(p, "/", sep)

	out := origin + sep + p
	if suffix != "" {
		out += "--" + checksum.Short(suffix, 10)
	}
	return out
}

// splitVolatile separates a query-string or fragment component from a path.
func splitVolatile(path string) (clean, volatile string) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		return path[:i], path[i:]
	}
	return path, ""
}

// slugify lowercases text and replaces runs of unsafe characters with a
// single hyphen, preserving path separators.
func slugify(text string) string {
	s := strings.ToLower(text)
	s = nonSlugRe.ReplaceAllString(s, "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = multiHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

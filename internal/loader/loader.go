// Package loader discovers Markdown/MDX files under a source tree and turns
// them into source documents for the pipeline. It is the in-repo
// implementation of the input contract: an unordered list of
// (origin, path, raw text, declared topics) tuples.
package loader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/perthos/docpress/internal/models"
)

// DefaultExclude names directory segments that never contain documentation.
var DefaultExclude = []string{"node_modules", ".git", "dist", "build"}

// Loader walks one source tree.
type Loader struct {
	root    string
	repo    string
	ref     string
	topics  []string
	include []string
	exclude []string
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithPatterns sets include globs (matched against the relative path and its
// base name) and exclude segments (matched against each path segment).
func WithPatterns(include, exclude []string) Option {
	return func(l *Loader) {
		l.include = include
		l.exclude = exclude
	}
}

// WithTopics sets the declared topics attached to every discovered document.
func WithTopics(topics []string) Option {
	return func(l *Loader) {
		l.topics = topics
	}
}

// New creates a loader for the tree rooted at root, attributed to repo@ref.
func New(root, repo, ref string, logger *slog.Logger, opts ...Option) (*Loader, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("loader: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("loader: root is not a directory: %s", abs)
	}
	l := &Loader{
		root:    abs,
		repo:    repo,
		ref:     ref,
		exclude: DefaultExclude,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Discover walks the tree and returns a source document for every matching
// file. Unreadable files are logged and skipped; they surface later as
// absent, not as a batch failure.
func (l *Loader) Discover() ([]models.SourceDocument, error) {
	var docs []models.SourceDocument

	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, relErr := filepath.Rel(l.root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && l.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if !l.wanted(rel) {
			return nil
		}

		data, readErr := os.ReadFile(p)
		if readErr != nil {
			l.logger.Warn("loader: read failed",
				slog.String("path", rel),
				slog.String("error", readErr.Error()))
			return nil
		}

		docs = append(docs, models.SourceDocument{
			Repo:    l.repo,
			Ref:     l.ref,
			Path:    rel,
			RawText: string(data),
			Topics:  l.topics,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loader: walk: %w", err)
	}

	l.logger.Info("loader: discovered documents",
		slog.Int("count", len(docs)),
		slog.String("root", l.root))
	return docs, nil
}

// wanted reports whether a relative file path should be loaded.
func (l *Loader) wanted(rel string) bool {
	if l.excluded(rel) {
		return false
	}
	if len(l.include) > 0 {
		for _, pattern := range l.include {
			if ok, _ := path.Match(pattern, rel); ok {
				return true
			}
			if ok, _ := path.Match(pattern, path.Base(rel)); ok {
				return true
			}
		}
		return false
	}
	ext := strings.ToLower(path.Ext(rel))
	return ext == ".md" || ext == ".mdx"
}

// excluded reports whether any segment of rel matches an exclude pattern.
func (l *Loader) excluded(rel string) bool {
	for _, segment := range strings.Split(rel, "/") {
		for _, pattern := range l.exclude {
			if ok, _ := path.Match(pattern, segment); ok {
				return true
			}
		}
	}
	return false
}

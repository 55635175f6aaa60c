package store

import (
	"log/slog"

	"github.com/perthos/docpress/internal/artifact"
	"github.com/perthos/docpress/internal/models"
)

// Outcome is the terminal state of one document's publish step.
type Outcome string

const (
	OutcomeWritten Outcome = "written"
	OutcomeSkipped Outcome = "skipped"
	OutcomeErrored Outcome = "errored"
)

// Publisher performs idempotent, hash-gated persistence. The recorded
// content hash in the existing file's front matter is the only source of
// truth for whether a write is needed; timestamps and dirty flags are never
// consulted.
type Publisher struct {
	store  Provider
	logger *slog.Logger
}

// NewPublisher creates a publisher over the given store.
func NewPublisher(store Provider, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, logger: logger}
}

// ArtifactFile returns the store-relative file name for a slug.
func ArtifactFile(slug string) string {
	return slug + ".mdc"
}

// Publish writes the artifact unless the on-disk copy already records the
// same content hash. Unchanged artifacts are left untouched, modification
// time included. Filesystem errors surface as a document-level outcome and
// never abort the run.
func (p *Publisher) Publish(a models.Artifact) (Outcome, models.ManifestEntry, error) {
	file := ArtifactFile(a.Slug)

	entry := models.ManifestEntry{
		Slug:        a.Slug,
		Path:        a.FrontMatter.Path,
		Repo:        a.FrontMatter.Repo,
		ContentHash: a.ContentHash,
		Topics:      a.FrontMatter.Topics,
		Title:       a.FrontMatter.Title,
	}

	if existing, err := p.store.Read(file); err == nil {
		if fm, _, derr := artifact.Decode(existing); derr == nil && fm.ContentHash == a.ContentHash {
			entry.Size = int64(len(existing))
			p.logger.Debug("publish: unchanged", slog.String("slug", a.Slug))
			return OutcomeSkipped, entry, nil
		}
	}

	data, err := artifact.Encode(a)
	if err != nil {
		return OutcomeErrored, entry, err
	}
	if err := p.store.Write(file, data); err != nil {
		return OutcomeErrored, entry, err
	}
	entry.Size = int64(len(data))
	p.logger.Info("publish: written", slog.String("slug", a.Slug))
	return OutcomeWritten, entry, nil
}

// Finalize writes the run's manifest. It must run strictly after every
// document's publish step has reached a terminal outcome; the run coordinator
// enforces that barrier.
func (p *Publisher) Finalize(entries []models.ManifestEntry) error {
	return WriteManifest(p.store, entries)
}

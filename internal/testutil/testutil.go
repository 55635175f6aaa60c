// Package testutil provides shared test helpers for setting up stores and
// published artifacts.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/perthos/docpress/internal/artifact"
	"github.com/perthos/docpress/internal/models"
	"github.com/perthos/docpress/internal/store"
)

// FixedTime is the timestamp used for deterministic test artifacts.
var FixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// TestStore creates a temporary artifact store that is cleaned up with the test.
func TestStore(t *testing.T) *store.FS {
	t.Helper()
	st, err := store.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return st
}

// Doc builds a source document with the given path and body under a fixed
// test origin.
func Doc(path, body string) models.SourceDocument {
	return models.SourceDocument{
		Repo:    "acme/widgets",
		Ref:     "main",
		Path:    path,
		RawText: body,
		Topics:  []string{"testing"},
	}
}

// PublishDoc normalizes nothing: it builds and publishes an artifact with
// body used verbatim, returning its manifest entry.
func PublishDoc(t *testing.T, st *store.FS, doc models.SourceDocument, title string) models.ManifestEntry {
	t.Helper()
	a := artifact.Build(models.NormalizedDocument{
		Body:   doc.RawText,
		Title:  title,
		Topics: doc.Topics,
	}, doc, FixedTime)
	p := store.NewPublisher(st, DiscardLogger())
	_, entry, err := p.Publish(a)
	if err != nil {
		t.Fatal(err)
	}
	return entry
}

// DiscardLogger returns a logger whose output is dropped.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

package query

import (
	"errors"
	"testing"

	"github.com/perthos/docpress/internal/apperr"
	"github.com/perthos/docpress/internal/models"
	"github.com/perthos/docpress/internal/store"
	"github.com/perthos/docpress/internal/testutil"
)

// seedService publishes a small corpus and returns a service over it.
func seedService(t *testing.T) *Service {
	t.Helper()
	st := testutil.TestStore(t)

	var entries []models.ManifestEntry
	publish := func(repo, path, body, title string) {
		doc := testutil.Doc(path, body)
		doc.Repo = repo
		entries = append(entries, testutil.PublishDoc(t, st, doc, title))
	}

	publish("acme/widgets", "docs/setup.md", "# Setup\n\nInstall the widgets package.\n", "Setup")
	publish("acme/widgets", "docs/usage.md", "# Usage\n\nUse widgets carefully.\n", "Usage")
	publish("acme/gizmos", "guide/intro.md", "# Intro\n\nGizmos are different from widgets.\n", "Intro")

	if err := store.WriteManifest(st, entries); err != nil {
		t.Fatal(err)
	}
	idx := NewIndex()
	if err := idx.Load(st); err != nil {
		t.Fatal(err)
	}
	return NewService(st, idx)
}

func TestListSources(t *testing.T) {
	svc := seedService(t)
	sources, err := svc.ListSources("", false)
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("sources = %+v", sources)
	}
	// Sorted by repo name.
	if sources[0].Repo != "acme/gizmos" || sources[1].Repo != "acme/widgets" {
		t.Errorf("order = %q, %q", sources[0].Repo, sources[1].Repo)
	}
}

func TestListSources_FilterAndStats(t *testing.T) {
	svc := seedService(t)
	sources, err := svc.ListSources("widgets", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0].Repo != "acme/widgets" {
		t.Fatalf("sources = %+v", sources)
	}
	if sources[0].FileCount != 2 || sources[0].TotalSize == 0 {
		t.Errorf("stats = %+v", sources[0])
	}
}

func TestGetFile_BySlugAndByPath(t *testing.T) {
	svc := seedService(t)

	bySlug, err := svc.GetFile("widgets__docs__setup")
	if err != nil {
		t.Fatalf("GetFile by slug: %v", err)
	}
	byPath, err := svc.GetFile("docs/setup.md")
	if err != nil {
		t.Fatalf("GetFile by path: %v", err)
	}
	if bySlug.Slug != byPath.Slug {
		t.Errorf("slug lookup %q != path lookup %q", bySlug.Slug, byPath.Slug)
	}
	if bySlug.Content != "# Setup\n\nInstall the widgets package.\n" {
		t.Errorf("content = %q", bySlug.Content)
	}
	if bySlug.Meta.Title != "Setup" || bySlug.Meta.ContentHash == "" {
		t.Errorf("meta = %+v", bySlug.Meta)
	}
	if bySlug.Size == 0 || bySlug.Modified.IsZero() {
		t.Errorf("size/modified missing: %+v", bySlug)
	}
}

// A request for a file absent from the store is a clean not-found, not a
// crash or an empty success.
func TestGetFile_Missing(t *testing.T) {
	svc := seedService(t)
	_, err := svc.GetFile("missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetFile_EmptyIdentifier(t *testing.T) {
	svc := seedService(t)
	_, err := svc.GetFile("")
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestStats(t *testing.T) {
	svc := seedService(t)
	stats, err := svc.Stats(false)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Documents != 3 || stats.Sources != 2 || stats.Bytes == 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.PerSource != nil {
		t.Error("per-source breakdown returned without detailed")
	}
}

func TestStats_Detailed(t *testing.T) {
	svc := seedService(t)
	stats, err := svc.Stats(true)
	if err != nil {
		t.Fatal(err)
	}
	widgets, ok := stats.PerSource["acme/widgets"]
	if !ok || widgets.FileCount != 2 {
		t.Errorf("per-source = %+v", stats.PerSource)
	}
}

func TestStats_EmptyStore(t *testing.T) {
	st := testutil.TestStore(t)
	idx := NewIndex()
	if err := idx.Load(st); err != nil {
		t.Fatal(err)
	}
	stats, err := NewService(st, idx).Stats(true)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Documents != 0 || stats.Sources != 0 || stats.Bytes != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestIndexLookup_SlugWinsOverPath(t *testing.T) {
	svc := seedService(t)
	entry, ok := svc.index.Lookup("widgets__docs__usage")
	if !ok || entry.Path != "docs/usage.md" {
		t.Errorf("entry = %+v, ok = %v", entry, ok)
	}
	if _, ok := svc.index.Lookup("nope"); ok {
		t.Error("unknown identifier resolved")
	}
}

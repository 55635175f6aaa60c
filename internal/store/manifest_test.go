package store

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/perthos/docpress/internal/models"
)

func manifestEntries() []models.ManifestEntry {
	return []models.ManifestEntry{
		{Slug: "widgets__docs__zeta", Path: "docs/zeta.md", Repo: "acme/widgets", ContentHash: "c3", Size: 30},
		{Slug: "widgets__docs__alpha", Path: "docs/alpha.md", Repo: "acme/widgets", ContentHash: "a1", Size: 10},
		{Slug: "widgets__docs__mid", Path: "docs/mid.md", Repo: "acme/widgets", ContentHash: "b2", Size: 20},
	}
}

func TestWriteManifest_SortedBySlug(t *testing.T) {
	st := testFS(t)
	if err := WriteManifest(st, manifestEntries()); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	loaded, err := LoadManifest(st)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("len = %d", len(loaded))
	}
	want := []string{"widgets__docs__alpha", "widgets__docs__mid", "widgets__docs__zeta"}
	for i, slug := range want {
		if loaded[i].Slug != slug {
			t.Errorf("loaded[%d].Slug = %q, want %q", i, loaded[i].Slug, slug)
		}
	}
}

// The same entry set produces byte-identical manifests, regardless of the
// order the entries arrived in.
func TestWriteManifest_DeterministicBytes(t *testing.T) {
	st := testFS(t)
	entries := manifestEntries()

	if err := WriteManifest(st, entries); err != nil {
		t.Fatal(err)
	}
	first, err := st.Read(ManifestFile)
	if err != nil {
		t.Fatal(err)
	}

	reversed := []models.ManifestEntry{entries[2], entries[1], entries[0]}
	if err := WriteManifest(st, reversed); err != nil {
		t.Fatal(err)
	}
	second, err := st.Read(ManifestFile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("manifest bytes differ:\n%s\nvs\n%s", first, second)
	}
}

func TestWriteManifest_OneJSONObjectPerLine(t *testing.T) {
	st := testFS(t)
	if err := WriteManifest(st, manifestEntries()); err != nil {
		t.Fatal(err)
	}
	data, err := st.Read(ManifestFile)
	if err != nil {
		t.Fatal(err)
	}
	lines := bytes.Split(bytes.TrimRight(data, "\n"), []byte("\n"))
	if len(lines) != 3 {
		t.Fatalf("line count = %d", len(lines))
	}
	for i, line := range lines {
		var e models.ManifestEntry
		if err := json.Unmarshal(line, &e); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestWriteManifest_NilTopicsSerializeAsList(t *testing.T) {
	st := testFS(t)
	if err := WriteManifest(st, []models.ManifestEntry{{Slug: "s", Topics: nil}}); err != nil {
		t.Fatal(err)
	}
	data, err := st.Read(ManifestFile)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(data, []byte(`"topics":null`)) {
		t.Errorf("topics serialized as null: %s", data)
	}
}

func TestLoadManifest_MissingIsEmpty(t *testing.T) {
	st := testFS(t)
	entries, err := LoadManifest(st)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v", entries)
	}
}

func TestLoadManifest_SkipsBlankLines(t *testing.T) {
	st := testFS(t)
	raw := "{\"slug\":\"a\"}\n\n{\"slug\":\"b\"}\n"
	if err := st.Write(ManifestFile, []byte(raw)); err != nil {
		t.Fatal(err)
	}
	entries, err := LoadManifest(st)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Slug != "a" || entries[1].Slug != "b" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestLoadManifest_MalformedLine(t *testing.T) {
	st := testFS(t)
	if err := st.Write(ManifestFile, []byte("{not json}\n")); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(st); err == nil {
		t.Error("expected error for malformed manifest line")
	}
}

package artifact

import (
	"strings"
	"testing"
	"time"

	"github.com/perthos/docpress/internal/models"
)

func normalizedDoc() models.NormalizedDocument {
	return models.NormalizedDocument{
		Body:   "# Guide\n\nBody text.\n",
		Title:  "Guide",
		Topics: []string{"widgets", "setup"},
	}
}

func sourceDoc() models.SourceDocument {
	return models.SourceDocument{
		Repo: "acme/widgets",
		Ref:  "main",
		Path: "docs/guide.md",
	}
}

func TestBuild_FrontMatterFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := Build(normalizedDoc(), sourceDoc(), now)

	fm := a.FrontMatter
	if fm.Schema != models.SchemaVersion {
		t.Errorf("schema = %q", fm.Schema)
	}
	if fm.Slug != "widgets__docs__guide" || a.Slug != fm.Slug {
		t.Errorf("slug = %q / %q", fm.Slug, a.Slug)
	}
	if fm.URL != "https://github.com/acme/widgets/blob/main/docs/guide.md" {
		t.Errorf("url = %q", fm.URL)
	}
	if fm.FetchedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("fetched_at = %q", fm.FetchedAt)
	}
	if fm.ContentHash == "" || fm.ContentHash != a.ContentHash {
		t.Errorf("content hash = %q / %q", fm.ContentHash, a.ContentHash)
	}
}

// fetched_at never participates in the fingerprint: the same content built at
// two different times hashes identically.
func TestBuild_HashIgnoresFetchTime(t *testing.T) {
	a := Build(normalizedDoc(), sourceDoc(), time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	b := Build(normalizedDoc(), sourceDoc(), time.Date(2026, 1, 15, 3, 30, 0, 0, time.UTC))
	if a.ContentHash != b.ContentHash {
		t.Errorf("hash depends on fetch time: %q vs %q", a.ContentHash, b.ContentHash)
	}
	if a.FrontMatter.FetchedAt == b.FrontMatter.FetchedAt {
		t.Error("fetched_at should differ between the builds")
	}
}

func TestBuild_HashChangesWithContent(t *testing.T) {
	now := time.Now()
	base := Build(normalizedDoc(), sourceDoc(), now)

	changedBody := normalizedDoc()
	changedBody.Body = "# Guide\n\nRevised text.\n"
	if Build(changedBody, sourceDoc(), now).ContentHash == base.ContentHash {
		t.Error("body change did not change the hash")
	}

	changedTitle := normalizedDoc()
	changedTitle.Title = "New Guide"
	if Build(changedTitle, sourceDoc(), now).ContentHash == base.ContentHash {
		t.Error("title change did not change the hash")
	}
}

func TestBuild_NilTopicsBecomeEmpty(t *testing.T) {
	doc := normalizedDoc()
	doc.Topics = nil
	a := Build(doc, sourceDoc(), time.Now())
	if a.FrontMatter.Topics == nil {
		t.Error("topics should serialize as an empty list, not null")
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	a := Build(normalizedDoc(), sourceDoc(), time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	data, err := Encode(a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(string(data), "---\n") {
		t.Fatalf("missing front matter delimiter: %q", data[:20])
	}

	fm, body, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if fm.Slug != a.Slug || fm.ContentHash != a.ContentHash || fm.Title != "Guide" {
		t.Errorf("front matter mismatch: %+v", fm)
	}
	if body != a.Body {
		t.Errorf("body = %q, want %q", body, a.Body)
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]string{
		"no front matter": "just a body\n",
		"unterminated":    "---\ntitle: x\n",
		"bad yaml":        "---\n\t{not yaml\n---\n\nbody\n",
	}
	for name, in := range cases {
		if _, _, err := Decode([]byte(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

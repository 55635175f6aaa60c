package normalize

import (
	"strings"
	"testing"

	"github.com/perthos/docpress/internal/models"
)

func testPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func srcDoc(raw string) models.SourceDocument {
	return models.SourceDocument{
		Repo:    "acme/widgets",
		Ref:     "main",
		Path:    "docs/guide.md",
		RawText: raw,
		Topics:  []string{"widgets"},
	}
}

func TestNormalize_TitleFromFrontmatter(t *testing.T) {
	p := testPipeline(t, Config{Profile: ProfileLossless})
	doc := p.Normalize(srcDoc("---\ntitle: Guide\ntags:\n  - setup\n---\n# Other\nBody.\n"))
	if doc.Title != "Guide" {
		t.Errorf("title = %q, want Guide", doc.Title)
	}
	if strings.Contains(doc.Body, "title: Guide") {
		t.Error("front matter leaked into body")
	}
}

func TestNormalize_TitleFromH1(t *testing.T) {
	p := testPipeline(t, Config{Profile: ProfileLossless})
	doc := p.Normalize(srcDoc("intro\n# The Guide\ntext\n"))
	if doc.Title != "The Guide" {
		t.Errorf("title = %q, want The Guide", doc.Title)
	}
}

func TestNormalize_TopicsUnion(t *testing.T) {
	p := testPipeline(t, Config{Profile: ProfileLossless})
	doc := p.Normalize(srcDoc("---\ntags:\n  - setup\n  - widgets\n---\nBody.\n"))
	// Declared "widgets" plus derived "setup", no duplicates.
	if len(doc.Topics) != 2 || doc.Topics[0] != "widgets" || doc.Topics[1] != "setup" {
		t.Errorf("topics = %v, want [widgets setup]", doc.Topics)
	}
}

func TestNormalize_ReferentialNoOp(t *testing.T) {
	p := testPipeline(t, Config{Profile: ProfileBalanced, ElideThreshold: 25, ElideKeep: 8})
	clean := "# Title\n\nPlain paragraph with nothing to fix.\n"
	doc := p.Normalize(srcDoc(clean))
	if doc.Body != clean {
		t.Errorf("clean input changed:\n%q\n%q", clean, doc.Body)
	}
	if len(doc.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", doc.Warnings)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	p := testPipeline(t, Config{Profile: ProfileBalanced, ElideThreshold: 25, ElideKeep: 8})
	raw := "Intro\n=====\n\n<Callout type=\"info\">Heads up</Callout>\n\n~~~GO\nfmt.Println()\n~~~\n"
	once := p.Normalize(srcDoc(raw))
	twice := p.Normalize(srcDoc(once.Body))
	if once.Body != twice.Body {
		t.Errorf("pipeline not idempotent:\nfirst  %q\nsecond %q", once.Body, twice.Body)
	}
}

func TestNormalize_PassOrderFixed(t *testing.T) {
	p := testPipeline(t, Config{Profile: ProfileBalanced, ElideThreshold: 25, ElideKeep: 8})
	passes := p.Passes(srcDoc(""))
	want := []string{"markup_unwrap", "structure", "links", "size"}
	if len(passes) != len(want) {
		t.Fatalf("pass count = %d, want %d", len(passes), len(want))
	}
	for i, name := range want {
		if passes[i].Name != name {
			t.Errorf("pass[%d] = %q, want %q", i, passes[i].Name, name)
		}
	}
}

func TestNormalize_LosslessSkipsSize(t *testing.T) {
	p := testPipeline(t, Config{Profile: ProfileLossless, ElideThreshold: 25, ElideKeep: 8})
	for _, pass := range p.Passes(srcDoc("")) {
		if pass.Name == "size" {
			t.Error("lossless profile must not include the size pass")
		}
	}
}

func TestNew_BadDenylistPattern(t *testing.T) {
	_, err := New(Config{Profile: ProfileBalanced, LinkDenylist: []string{"(unclosed"}})
	if err == nil {
		t.Error("expected error for invalid denylist pattern")
	}
}

func TestRunPass_RecoversPanic(t *testing.T) {
	pass := Pass{Name: "boom", Fn: func(string) (string, []string) { panic("broken") }}
	out, warns := runPass(pass, "input text")
	if out != "input text" {
		t.Errorf("panicking pass must return input unchanged, got %q", out)
	}
	if len(warns) != 1 || !strings.Contains(warns[0], "boom") {
		t.Errorf("warns = %v", warns)
	}
}

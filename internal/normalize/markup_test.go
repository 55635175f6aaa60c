package normalize

import (
	"strings"
	"testing"
)

func TestUnwrapMarkup_ImportsDropped(t *testing.T) {
	in := "import { Tabs } from '@theme'\nexport const x = 1\n\nReal content.\n"
	out, warns := unwrapMarkup(in)
	if strings.Contains(out, "import") || strings.Contains(out, "export") {
		t.Errorf("declarations survived: %q", out)
	}
	if !strings.Contains(out, "Real content.") {
		t.Errorf("content lost: %q", out)
	}
	if len(warns) != 0 {
		t.Errorf("warns = %v", warns)
	}
}

func TestUnwrapMarkup_ExportDefaultKept(t *testing.T) {
	in := "export default function Page() {}\n"
	out, _ := unwrapMarkup(in)
	if !strings.Contains(out, "export default") {
		t.Errorf("export default should survive: %q", out)
	}
}

func TestUnwrapMarkup_RecognizedWrapperSilent(t *testing.T) {
	in := "<Note>Remember to save.</Note>\n"
	out, warns := unwrapMarkup(in)
	if out != "Remember to save.\n" {
		t.Errorf("out = %q", out)
	}
	if len(warns) != 0 {
		t.Errorf("recognized wrapper must not warn: %v", warns)
	}
}

func TestUnwrapMarkup_MultilineWrapper(t *testing.T) {
	in := "<Callout type=\"warning\">\nDo not do this.\n</Callout>\n"
	out, warns := unwrapMarkup(in)
	if !strings.Contains(out, "Do not do this.") {
		t.Errorf("inner content lost: %q", out)
	}
	if strings.Contains(out, "Callout") {
		t.Errorf("tag survived: %q", out)
	}
	if len(warns) != 0 {
		t.Errorf("warns = %v", warns)
	}
}

// A document with an unrecognized wrapper tag around a sentence keeps the
// sentence verbatim and records exactly one warning, never an error.
func TestUnwrapMarkup_UnknownWrapperWarnsOnce(t *testing.T) {
	in := "<Zork>\nThe sentence survives.\n</Zork>\n"
	out, warns := unwrapMarkup(in)
	if !strings.Contains(out, "The sentence survives.") {
		t.Errorf("content dropped: %q", out)
	}
	if len(warns) != 1 {
		t.Fatalf("warns = %v, want exactly one", warns)
	}
	if !strings.Contains(warns[0], "Zork") {
		t.Errorf("warning should name the tag: %q", warns[0])
	}
}

func TestUnwrapMarkup_SelfClosingRemoved(t *testing.T) {
	in := "Before <Spacer size=\"2\" /> after.\n"
	out, _ := unwrapMarkup(in)
	if strings.Contains(out, "Spacer") {
		t.Errorf("self-closing component survived: %q", out)
	}
	if !strings.Contains(out, "Before") || !strings.Contains(out, "after.") {
		t.Errorf("surrounding text lost: %q", out)
	}
}

func TestUnwrapMarkup_NestedWrappers(t *testing.T) {
	in := "<Tabs><Tab>First</Tab></Tabs>\n"
	out, warns := unwrapMarkup(in)
	if strings.TrimSpace(out) != "First" {
		t.Errorf("out = %q", out)
	}
	if len(warns) != 0 {
		t.Errorf("warns = %v", warns)
	}
}

func TestUnwrapMarkup_FencesUntouched(t *testing.T) {
	in := "```jsx\nimport React from 'react'\n<Note>code</Note>\n```\n"
	out, _ := unwrapMarkup(in)
	if out != in {
		t.Errorf("fenced code changed: %q", out)
	}
}

func TestUnwrapMarkup_NoOpReturnsInput(t *testing.T) {
	in := "Plain paragraph.\n"
	out, _ := unwrapMarkup(in)
	if out != in {
		t.Errorf("no-op changed text: %q", out)
	}
}

func TestRecognizedWrapperList(t *testing.T) {
	names := sortedWrapperNames()
	if len(names) != len(recognizedWrappers) {
		t.Fatalf("len = %d, want %d", len(names), len(recognizedWrappers))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted at %d: %v", i, names)
		}
	}
}

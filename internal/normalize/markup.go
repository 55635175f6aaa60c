package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// recognizedWrappers are component names whose contents are documentation
// prose; the wrapper itself is presentation and is dropped silently.
var recognizedWrappers = map[string]struct{}{
	"Callout": {}, "Note": {}, "Warning": {}, "Tip": {}, "Info": {},
	"Caution": {}, "Details": {}, "Card": {}, "CardGroup": {},
	"Tab": {}, "Tabs": {}, "TabItem": {}, "Accordion": {}, "AccordionGroup": {},
	"Steps": {}, "Step": {}, "Frame": {}, "Expandable": {},
}

var (
	importLineRe    = regexp.MustCompile(`^\s*import\s`)
	exportLineRe    = regexp.MustCompile(`^\s*export\s`)
	exportDefaultRe = regexp.MustCompile(`^\s*export\s+default\b`)

	// A line that is nothing but an opening or closing component tag.
	tagOnlyLineRe = regexp.MustCompile(`^\s*</?([A-Z][A-Za-z0-9]*)(?:\s[^>]*)?>\s*$`)

	selfClosingRe = regexp.MustCompile(`<[A-Z][A-Za-z0-9]*(?:\s[^>]*?)?/>`)
	openTagRe     = regexp.MustCompile(`<([A-Z][A-Za-z0-9]*)(?:\s[^>]*)?>`)
)

// unwrapMarkup strips import/export declarations and replaces wrapper markup
// with its inner text. Recognized wrappers unwrap silently; unrecognized ones
// keep their content but record a warning — content is never dropped without
// a trace. Fenced code is left untouched.
func unwrapMarkup(text string) (string, []string) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	warned := make(map[string]struct{})
	var warnings []string

	warn := func(name string) {
		if _, ok := recognizedWrappers[name]; ok {
			return
		}
		if _, dup := warned[name]; dup {
			return
		}
		warned[name] = struct{}{}
		warnings = append(warnings, fmt.Sprintf("unrecognized wrapper <%s>: tags stripped, content kept", name))
	}

	inFence := false
	changed := false
	for _, line := range lines {
		if isFenceDelimiter(line) {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}

		if importLineRe.MatchString(line) {
			changed = true
			continue
		}
		if exportLineRe.MatchString(line) && !exportDefaultRe.MatchString(line) {
			changed = true
			continue
		}

		if m := tagOnlyLineRe.FindStringSubmatch(line); m != nil {
			warn(m[1])
			changed = true
			continue
		}

		cleaned := unwrapInline(line, warn)
		if cleaned != line {
			changed = true
		}
		out = append(out, cleaned)
	}

	if !changed {
		return text, warnings
	}
	return strings.Join(out, "\n"), warnings
}

// unwrapInline removes component tags that open and close within one line,
// keeping inner text, and deletes self-closing components.
func unwrapInline(line string, warn func(string)) string {
	line = selfClosingRe.ReplaceAllString(line, "")

	for {
		m := openTagRe.FindStringSubmatchIndex(line)
		if m == nil {
			return line
		}
		name := line[m[2]:m[3]]
		closeTag := "</" + name + ">"
		rest := line[m[1]:]
		ci := strings.Index(rest, closeTag)
		warn(name)
		if ci < 0 {
			// Opening tag with no close on this line (multi-line wrapper
			// interleaved with text): drop just the tag.
			line = line[:m[0]] + rest
			continue
		}
		line = line[:m[0]] + rest[:ci] + rest[ci+len(closeTag):]
	}
}

// isFenceDelimiter reports whether a line opens or closes a fenced block.
func isFenceDelimiter(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// sortedWrapperNames lists the recognized wrapper names in sorted order.
func sortedWrapperNames() []string {
	names := make([]string, 0, len(recognizedWrappers))
	for n := range recognizedWrappers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

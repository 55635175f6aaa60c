package normalize

import (
	"regexp"
	"strings"
)

var (
	atxHeadingRe = regexp.MustCompile(`^(#{1,6})\s*(.*)$`)
	fenceInfoRe  = regexp.MustCompile(`^([\w+.-]*)(.*)$`)
)

// normalizeStructure canonicalizes Markdown syntax: ATX headings only,
// backtick fences with lowercase language hints, single-space table cell
// padding, LF line endings, no trailing whitespace, at most two consecutive
// blank lines, and exactly one trailing newline.
func normalizeStructure(text string) (string, []string) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	blankRun := 0

	for _, line := range lines {
		if isFenceDelimiter(line) {
			out = append(out, normalizeFence(line, inFence))
			inFence = !inFence
			blankRun = 0
			continue
		}
		if inFence {
			out = append(out, strings.TrimRight(line, " \t"))
			continue
		}

		line = strings.TrimRight(line, " \t")

		// Setext headings become ATX: a line of = or - under text promotes
		// the preceding line.
		if len(out) > 0 && isSetextUnderline(line) {
			prev := strings.TrimSpace(out[len(out)-1])
			if prev != "" && !strings.HasPrefix(prev, "#") {
				marker := "# "
				if strings.HasPrefix(line, "-") {
					marker = "## "
				}
				out[len(out)-1] = marker + prev
				continue
			}
		}

		if m := atxHeadingRe.FindStringSubmatch(line); m != nil && m[2] != "" {
			out = append(out, m[1]+" "+strings.TrimSpace(m[2]))
			blankRun = 0
			continue
		}

		if isTableRow(line) {
			out = append(out, normalizeTableRow(line))
			blankRun = 0
			continue
		}

		if line == "" {
			blankRun++
			if blankRun > 2 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, line)
	}

	result := strings.TrimRight(strings.Join(out, "\n"), "\n") + "\n"
	if result == text {
		return text, nil
	}
	return result, nil
}

// normalizeFence canonicalizes a fence delimiter line: backtick marker, the
// language token lowercased, and any remaining info text (MDX attributes such
// as title="app.js") preserved verbatim. Closing fences carry no info text.
// Open/close state is decided by isFenceDelimiter, the same predicate the
// other passes use, so all four passes agree on what is inside a fence.
func normalizeFence(line string, closing bool) string {
	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]
	if closing {
		return indent + "```"
	}
	i := 0
	for i < len(trimmed) && (trimmed[i] == '`' || trimmed[i] == '~') {
		i++
	}
	info := strings.TrimSpace(trimmed[i:])
	if info == "" {
		return indent + "```"
	}
	m := fenceInfoRe.FindStringSubmatch(info)
	return indent + "```" + strings.ToLower(m[1]) + m[2]
}

// isSetextUnderline reports whether a line is a setext heading underline:
// two or more = or - characters and nothing else.
func isSetextUnderline(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 2 {
		return false
	}
	first := trimmed[0]
	if first != '=' && first != '-' {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != first {
			return false
		}
	}
	return true
}

// isTableRow reports whether a line is a pipe-delimited table row.
func isTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) > 1 && strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|")
}

// normalizeTableRow collapses cell padding to a single space on each side.
func normalizeTableRow(line string) string {
	trimmed := strings.TrimSpace(line)
	cells := strings.Split(trimmed[1:len(trimmed)-1], "|")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

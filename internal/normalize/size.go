package normalize

import (
	"fmt"
	"strings"
)

// elideOversized replaces the interior of fenced blocks longer than threshold
// lines with a single marker stating how many lines were removed, keeping the
// first and last keep lines. Prose is never elided. The result for an
// oversized block is always 2*keep+1 content lines, which is below any valid
// threshold, so the pass is a no-op on its own output.
func elideOversized(text string, threshold, keep int) (string, []string) {
	if threshold <= 0 || keep <= 0 {
		return text, nil
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	var block []string
	inFence := false
	changed := false

	flush := func() {
		if len(block) > threshold {
			elided := len(block) - 2*keep
			out = append(out, block[:keep]...)
			out = append(out, fmt.Sprintf("... %d lines elided ...", elided))
			out = append(out, block[len(block)-keep:]...)
			changed = true
		} else {
			out = append(out, block...)
		}
		block = nil
	}

	for _, line := range lines {
		if isFenceDelimiter(line) {
			if inFence {
				flush()
			}
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			block = append(block, line)
			continue
		}
		out = append(out, line)
	}
	// Unterminated fence: treat the tail as prose rather than guessing.
	if len(block) > 0 {
		out = append(out, block...)
	}

	if !changed {
		return text, nil
	}
	return strings.Join(out, "\n"), nil
}

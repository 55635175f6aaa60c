package normalize

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var (
	mdLinkRe       = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)\s]+)(\s+"[^"]*")?\)`)
	doubleSpaceRe  = regexp.MustCompile(`  +`)
	schemePrefixRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

// rewriteLinks removes denylisted boilerplate links and rewrites relative
// links that resolve inside the source tree into absolute canonical URLs.
// Relative targets that escape the tree are left as-is with a warning.
// Fenced code is left untouched.
func rewriteLinks(text, repo, ref, docPath string, denylist []*regexp.Regexp) (string, []string) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	var warnings []string
	inFence := false
	changed := false

	docDir := path.Dir(filepathToSlash(docPath))

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

		cleaned := line
		for _, re := range denylist {
			cleaned = re.ReplaceAllString(cleaned, "")
		}
		if cleaned != line {
			cleaned = strings.TrimRight(doubleSpaceRe.ReplaceAllString(cleaned, " "), " ")
		}

		cleaned = mdLinkRe.ReplaceAllStringFunc(cleaned, func(m string) string {
			parts := mdLinkRe.FindStringSubmatch(m)
			bang, label, target, title := parts[1], parts[2], parts[3], parts[4]

			if schemePrefixRe.MatchString(target) || strings.HasPrefix(target, "#") || strings.HasPrefix(target, "/") {
				return m
			}

			resolved, fragment, ok := resolveRelative(docDir, target)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("link %q escapes the source tree, left unresolved", target))
				return m
			}
			url := canonicalURL(repo, ref, resolved) + fragment
			return bang + "[" + label + "](" + url + title + ")"
		})

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

// resolveRelative resolves target against the directory of the current
// document. ok is false when the result escapes the source tree root.
func resolveRelative(docDir, target string) (resolved, fragment string, ok bool) {
	if i := strings.IndexAny(target, "#"); i >= 0 {
		fragment = target[i:]
		target = target[:i]
	}
	if target == "" {
		return "", "", false
	}
	joined := path.Clean(path.Join(docDir, target))
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", "", false
	}
	return joined, fragment, true
}

// canonicalURL builds the canonical URL for a repository-relative path.
// "owner/name" repos map to GitHub blob URLs; anything else is treated as a
// base URL prefix.
func canonicalURL(repo, ref, relPath string) string {
	if strings.Count(repo, "/") == 1 && !schemePrefixRe.MatchString(repo) {
		return fmt.Sprintf("https://github.com/%s/blob/%s/%s", repo, ref, relPath)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(repo, "/"), ref, relPath)
}

// filepathToSlash normalizes OS path separators for URL construction.
func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

package normalize

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// splitFrontMatter separates YAML front matter (between leading ---
// delimiters) from the body. Documents without front matter, or with YAML
// that does not parse, are returned whole as body.
func splitFrontMatter(text string) (map[string]any, string) {
	const delim = "---"
	trimmed := strings.TrimLeft(text, "\n\r")

	if !strings.HasPrefix(trimmed, delim) {
		return nil, text
	}

	rest := trimmed[len(delim):]
	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return nil, text
	}

	yamlBlock := rest[:idx]
	body := strings.TrimLeft(rest[idx+1+len(delim):], "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return nil, text
	}
	return fm, body
}

// deriveTitle returns the front matter "title" if present, otherwise the
// first H1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, body string) string {
	if fm != nil {
		if t, ok := fm["title"]; ok {
			if s, ok := t.(string); ok && s != "" {
				return s
			}
		}
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// mergeTopics unions declared run-level topics with topics derived from the
// source front matter ("topics" or "tags" keys), preserving first-seen order.
func mergeTopics(declared []string, fm map[string]any) []string {
	seen := make(map[string]struct{}, len(declared))
	out := make([]string, 0, len(declared))
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, t := range declared {
		add(t)
	}
	if fm != nil {
		for _, key := range []string{"topics", "tags"} {
			if raw, ok := fm[key]; ok {
				if list, ok := raw.([]any); ok {
					for _, item := range list {
						if s, ok := item.(string); ok {
							add(s)
						}
					}
				}
			}
		}
	}
	return out
}

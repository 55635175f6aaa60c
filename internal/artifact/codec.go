package artifact

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/perthos/docpress/internal/models"
)

const fmDelim = "---"

// Encode renders an artifact as a .mdc file: a YAML front-matter block
// followed by the normalized body.
func Encode(a models.Artifact) ([]byte, error) {
	fm, err := yaml.Marshal(a.FrontMatter)
	if err != nil {
		return nil, fmt.Errorf("artifact: marshal front matter: %w", err)
	}
	var b strings.Builder
	b.WriteString(fmDelim + "\n")
	b.Write(fm)
	b.WriteString(fmDelim + "\n\n")
	b.WriteString(a.Body)
	return []byte(b.String()), nil
}

// Decode parses a .mdc file back into front matter and body. Files without a
// well-formed front-matter block return an error; the publisher treats that
// as "no recorded hash" and rewrites.
func Decode(data []byte) (models.FrontMatter, string, error) {
	var fm models.FrontMatter
	text := string(data)

	if !strings.HasPrefix(text, fmDelim+"\n") {
		return fm, "", fmt.Errorf("artifact: missing front matter")
	}
	rest := text[len(fmDelim)+1:]
	idx := strings.Index(rest, "\n"+fmDelim+"\n")
	if idx < 0 {
		return fm, "", fmt.Errorf("artifact: unterminated front matter")
	}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &fm); err != nil {
		return fm, "", fmt.Errorf("artifact: parse front matter: %w", err)
	}
	body := strings.TrimPrefix(rest[idx+len(fmDelim)+2:], "\n")
	return fm, body, nil
}

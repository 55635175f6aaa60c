// Package normalize implements the ordered text-transform pipeline that turns
// raw documentation source into canonical Markdown bodies.
//
// The pass order is fixed: link rewriting assumes headings and fences have
// already been canonicalized, and elision assumes fence delimiters are
// normalized. Every pass is a pure text→text function with a warning side
// channel; a pass that finds nothing to change returns its input unchanged.
package normalize

import (
	"fmt"
	"regexp"

	"github.com/perthos/docpress/internal/models"
)

// Optimization profiles.
const (
	ProfileLossless = "lossless"
	ProfileBalanced = "balanced"
	ProfileCompact  = "compact"
)

// Config controls the optional behavior of the pipeline. The pass sequence
// itself is not configurable.
type Config struct {
	Profile        string
	ElideThreshold int      // fenced blocks longer than this are elided
	ElideKeep      int      // lines kept at each end of an elided block
	LinkDenylist   []string // case-insensitive regexes for boilerplate link removal
}

// DefaultDenylist matches boilerplate links that carry no value once a page
// is extracted from its site chrome.
var DefaultDenylist = []string{
	`\[Edit this page[^\]]*\]\([^)]+\)`,
	`\[Edit on GitHub[^\]]*\]\([^)]+\)`,
	`\[Improve this page[^\]]*\]\([^)]+\)`,
	`\[← Previous[^\]]*\]\([^)]+\)`,
	`\[Next →[^\]]*\]\([^)]+\)`,
	`\[Back to top[^\]]*\]\([^)]+\)`,
	`\[Share on \w+[^\]]*\]\([^)]+\)`,
}

// ParamsForProfile returns the elision parameters a profile implies.
// Lossless disables elision entirely.
func ParamsForProfile(profile string) (threshold, keep int) {
	switch profile {
	case ProfileCompact:
		return 15, 5
	case ProfileBalanced:
		return 25, 8
	default:
		return 0, 0
	}
}

// Pass is one named step of the pipeline.
type Pass struct {
	Name string
	Fn   func(text string) (string, []string)
}

// Pipeline applies the fixed transform sequence to source documents.
type Pipeline struct {
	cfg      Config
	denylist []*regexp.Regexp
}

// New builds a pipeline, compiling the link denylist. Invalid denylist
// patterns are a configuration error.
func New(cfg Config) (*Pipeline, error) {
	patterns := cfg.LinkDenylist
	if patterns == nil {
		patterns = DefaultDenylist
	}
	denylist := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("normalize: denylist pattern %q: %w", p, err)
		}
		denylist = append(denylist, re)
	}
	return &Pipeline{cfg: cfg, denylist: denylist}, nil
}

// Passes returns the ordered pass list for one source document. Exposed so
// each pass stays independently callable and testable.
func (p *Pipeline) Passes(src models.SourceDocument) []Pass {
	passes := []Pass{
		{Name: "markup_unwrap", Fn: unwrapMarkup},
		{Name: "structure", Fn: normalizeStructure},
		{Name: "links", Fn: func(text string) (string, []string) {
			return rewriteLinks(text, src.Repo, src.Ref, src.Path, p.denylist)
		}},
	}
	if p.cfg.Profile != ProfileLossless && p.cfg.ElideThreshold > 0 {
		passes = append(passes, Pass{Name: "size", Fn: func(text string) (string, []string) {
			return elideOversized(text, p.cfg.ElideThreshold, p.cfg.ElideKeep)
		}})
	}
	return passes
}

// Normalize runs the full pipeline over one source document. Source front
// matter is split off first; its title and tags feed the result rather than
// the body. A malformed document never aborts: the offending pass degrades to
// a no-op and records a warning.
func (p *Pipeline) Normalize(src models.SourceDocument) models.NormalizedDocument {
	fm, body := splitFrontMatter(src.RawText)

	var warnings []string
	for _, pass := range p.Passes(src) {
		var warns []string
		body, warns = runPass(pass, body)
		warnings = append(warnings, warns...)
	}

	return models.NormalizedDocument{
		Body:     body,
		Title:    deriveTitle(fm, body),
		Topics:   mergeTopics(src.Topics, fm),
		Warnings: warnings,
	}
}

// runPass executes a single pass, recovering from any panic so one damaged
// document cannot abort a batch. On panic the input passes through unchanged.
func runPass(pass Pass, text string) (out string, warns []string) {
	defer func() {
		if r := recover(); r != nil {
			out = text
			warns = []string{fmt.Sprintf("pass %s failed: %v", pass.Name, r)}
		}
	}()
	return pass.Fn(text)
}

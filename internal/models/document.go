// Package models defines the domain types for docpress.
package models

// SchemaVersion identifies the artifact front-matter schema.
const SchemaVersion = "mdc/1.0"

// SourceDocument is one input unit handed to the pipeline by a loader.
// Immutable once constructed.
type SourceDocument struct {
	Repo    string   `json:"repo"`   // logical source identity, e.g. "vercel/next.js"
	Ref     string   `json:"ref"`    // git reference (branch or commit SHA)
	Path    string   `json:"path"`   // relative to the source root
	RawText string   `json:"-"`      // raw file content
	Topics  []string `json:"topics"` // declared topics for every document of this run
}

// NormalizedDocument is the output of the transform pipeline. It is owned by
// the pipeline invocation that produced it and discarded once an Artifact has
// been built from it.
type NormalizedDocument struct {
	Body     string   `json:"body"`
	Title    string   `json:"title"`
	Topics   []string `json:"topics"` // declared ∪ derived from source front matter
	Warnings []string `json:"warnings,omitempty"`
}

// FrontMatter is the structured leading block of every artifact file.
// ContentHash covers Body plus every field here except FetchedAt, so repeated
// runs over unchanged input fingerprint identically.
type FrontMatter struct {
	Schema      string   `yaml:"schema"`
	Repo        string   `yaml:"repo"`
	Ref         string   `yaml:"ref"`
	Path        string   `yaml:"path"`
	URL         string   `yaml:"url"`
	Title       string   `yaml:"title"`
	Topics      []string `yaml:"topics"`
	ContentHash string   `yaml:"content_hash"`
	FetchedAt   string   `yaml:"fetched_at"`
	Slug        string   `yaml:"slug"`
}

// Artifact is the persisted unit: normalized body plus metadata, identified
// by a deterministic slug and fingerprinted by a content hash.
type Artifact struct {
	Slug        string
	ContentHash string
	FrontMatter FrontMatter
	Body        string
}

// ManifestEntry is one record of the manifest index, regenerated wholesale
// every run and sorted by slug.
type ManifestEntry struct {
	Slug        string   `json:"slug"`
	Path        string   `json:"path"`
	Repo        string   `json:"repo"`
	ContentHash string   `json:"content_hash"`
	Topics      []string `json:"topics"`
	Size        int64    `json:"size"`
	Title       string   `json:"title"`
}

// DocumentError records a document that could not be published.
type DocumentError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// RunReport aggregates per-document outcomes of a single run.
type RunReport struct {
	Processed int             `json:"processed"`
	Written   int             `json:"written"`
	Skipped   int             `json:"skipped"`
	Errors    []DocumentError `json:"errors"`
}

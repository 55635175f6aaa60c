package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/perthos/docpress/internal/models"
)

// ManifestFile is the store-relative name of the manifest index.
const ManifestFile = "index.jsonl"

// WriteManifest regenerates the manifest wholesale: entries are sorted by
// slug and written atomically in one pass, so diffs are stable regardless of
// processing order and readers never see a partial manifest.
func WriteManifest(store Provider, entries []models.ManifestEntry) error {
	sorted := make([]models.ManifestEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Slug < sorted[j].Slug })

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range sorted {
		if e.Topics == nil {
			e.Topics = []string{}
		}
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("store: encode manifest entry %s: %w", e.Slug, err)
		}
	}
	if err := store.Write(ManifestFile, buf.Bytes()); err != nil {
		return fmt.Errorf("store: write manifest: %w", err)
	}
	return nil
}

// LoadManifest reads and decodes the manifest. A missing manifest is not an
// error: it decodes to an empty store.
func LoadManifest(store Provider) ([]models.ManifestEntry, error) {
	data, err := store.Read(ManifestFile)
	if err != nil {
		return nil, nil
	}
	var out []models.ManifestEntry
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var e models.ManifestEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("store: parse manifest line: %w", err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("store: read manifest: %w", err)
	}
	return out, nil
}

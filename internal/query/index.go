// Package query serves read-only lookup and search over a published artifact
// store. It loads the manifest as an index; artifact bodies are always read
// fresh from disk so results reflect the latest published state. Nothing in
// this package mutates the store.
package query

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/perthos/docpress/internal/models"
	"github.com/perthos/docpress/internal/store"
)

// Index is the in-memory view of the manifest. Reads take a shared lock so
// concurrent queries never block each other; only a manifest reload takes the
// write lock, briefly.
type Index struct {
	mu      sync.RWMutex
	entries []models.ManifestEntry
	bySlug  map[string]models.ManifestEntry
	byPath  map[string]models.ManifestEntry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	idx := &Index{}
	idx.replace(nil)
	return idx
}

// Load reads the manifest from the store and swaps it in wholesale. A reader
// may observe a manifest from an older run than the artifact it just read;
// that bounded staleness is accepted in place of locking reads against
// publishes.
func (idx *Index) Load(st store.Provider) error {
	entries, err := store.LoadManifest(st)
	if err != nil {
		return err
	}
	idx.replace(entries)
	return nil
}

func (idx *Index) replace(entries []models.ManifestEntry) {
	bySlug := make(map[string]models.ManifestEntry, len(entries))
	byPath := make(map[string]models.ManifestEntry, len(entries))
	for _, e := range entries {
		bySlug[e.Slug] = e
		byPath[e.Path] = e
	}
	idx.mu.Lock()
	idx.entries = entries
	idx.bySlug = bySlug
	idx.byPath = byPath
	idx.mu.Unlock()
}

// Entries returns a snapshot of the current manifest entries.
func (idx *Index) Entries() []models.ManifestEntry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]models.ManifestEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Lookup resolves an identifier, trying slug first, then source path.
func (idx *Index) Lookup(pathOrSlug string) (models.ManifestEntry, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if e, ok := idx.bySlug[pathOrSlug]; ok {
		return e, true
	}
	e, ok := idx.byPath[pathOrSlug]
	return e, ok
}

// Watch reloads the index whenever the manifest file is replaced, until ctx
// is cancelled. Publishes land via atomic rename, so a short debounce after
// the last event is enough to observe a complete manifest.
func (idx *Index) Watch(ctx context.Context, st store.Provider, root string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}
	logger.Info("manifest watcher: started", slog.String("root", root))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("manifest watcher: stopped")
			return nil

		case <-reloadCh:
			if err := idx.Load(st); err != nil {
				logger.Warn("manifest reload failed", slog.String("error", err.Error()))
			} else {
				logger.Debug("manifest reloaded")
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != store.ManifestFile {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("manifest watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

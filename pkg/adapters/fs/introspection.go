package fs

import (
	"os"
	"sort"
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	Strict        bool       `json:"strict"`
	Serializers   []string   `json:"serializers"`
	CacheSize     int        `json:"cache_size"`
	CacheHits     uint64     `json:"cache_hits"`
	CacheMisses   uint64     `json:"cache_misses"`
	Loads         uint64     `json:"loads"`
	WatcherActive bool       `json:"watcher_active"`
	LastEvent     *time.Time `json:"last_event,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	serializers := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		serializers = append(serializers, ext)
	}
	sort.Strings(serializers)

	hits, misses := r.cache.stats()
	return RepositoryState{
		Path:          r.Path,
		Strict:        r.config.Strict,
		Serializers:   serializers,
		CacheSize:     r.cache.Len(),
		CacheHits:     hits,
		CacheMisses:   misses,
		Loads:         r.loads.Load(),
		WatcherActive: r.watcherActive,
		LastEvent:     r.lastEvent,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

func (r *Repository) recordEvent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastEvent = &now
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

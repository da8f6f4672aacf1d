package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/annotate/pkg/core"
)

const (
	// DocumentSuffix names the fixture holding a getDocument response.
	DocumentSuffix = ".data.js"
	// TextSuffix and AnnotationSuffix name the standoff pair a document can be built from.
	TextSuffix       = ".txt"
	AnnotationSuffix = ".ann"
	// TaggedSuffix names a tagged corpus file (<S>word[tag] ...</S>) a document can be built from.
	TaggedSuffix = ".tagged"
)

// Repository serves fixture payloads from a directory tree.
type Repository struct {
	Path        string
	config      Config
	serializers map[string]Serializer
	cache       *cache

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
	loads         atomic.Uint64
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool
	// Strict keeps numbers as json.Number instead of float64.
	Strict       bool
	Logger       *slog.Logger
	ErrorHandler func(error)
	// DebounceInterval coalesces bursts of watch events per file. Defaults to 50ms.
	DebounceInterval time.Duration
}

// NewRepository creates a new filesystem-backed fixture repository.
func NewRepository(config Config) *Repository {
	if config.DebounceInterval <= 0 {
		config.DebounceInterval = 50 * time.Millisecond
	}
	return &Repository{
		Path:        config.Path,
		config:      config,
		serializers: DefaultSerializers(config.Strict),
		cache:       newCache(),
	}
}

// Initialize makes sure the fixture directory exists.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("fixture path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat fixture path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("fixture path is not a directory: %s", r.Path)
		}
		return nil
	}

	if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create fixture directory: %w", err)
	}
	return nil
}

// Load returns the payload stored at relPath.
//
// Workflow:
//  1. Resolve relPath under the root, rejecting paths that escape it.
//  2. If the file is missing and names a document, try the .txt/.ann standoff pair.
//  3. Serve from the cache when the file did not change since it was decoded.
//  4. Decode with the serializer registered for the extension.
func (r *Repository) Load(ctx context.Context, relPath string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.loads.Add(1)

	full, rel, err := r.resolve(relPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(full)
	if errors.Is(err, os.ErrNotExist) {
		if strings.HasSuffix(rel, DocumentSuffix) {
			return r.loadStandoff(full, rel)
		}
		return nil, fmt.Errorf("%w: %s", core.ErrFixtureNotFound, rel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", core.ErrFixtureNotFound, rel)
	}

	if payload, ok := r.cache.Get(rel, info.ModTime()); ok {
		return payload, nil
	}

	ser, ok := r.serializerFor(rel)
	if !ok {
		return nil, fmt.Errorf("unsupported fixture format: %s", rel)
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", rel, err)
	}
	defer f.Close()

	payload, err := ser.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrDecode, rel, err)
	}

	if r.config.Logger != nil {
		r.config.Logger.Debug("fixture decoded", "path", rel)
	}
	r.cache.Set(rel, payload, info.ModTime())
	return payload, nil
}

// loadStandoff builds a document payload from <name>.txt and an optional <name>.ann.
// Without a text file it falls back to <name>.tagged.
func (r *Repository) loadStandoff(full, rel string) (map[string]any, error) {
	base := strings.TrimSuffix(full, DocumentSuffix)

	txtInfo, err := os.Stat(base + TextSuffix)
	if err != nil {
		return r.loadTagged(base, rel)
	}
	mtime := txtInfo.ModTime()

	var markup []byte
	if annInfo, err := os.Stat(base + AnnotationSuffix); err == nil {
		if annInfo.ModTime().After(mtime) {
			mtime = annInfo.ModTime()
		}
		if markup, err = os.ReadFile(base + AnnotationSuffix); err != nil {
			return nil, fmt.Errorf("failed to read annotations for %s: %w", rel, err)
		}
	}

	if payload, ok := r.cache.Get(rel, mtime); ok {
		return payload, nil
	}

	text, err := os.ReadFile(base + TextSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to read text for %s: %w", rel, err)
	}

	doc := core.FromStandoff(string(text), string(markup), mtime)
	payload, err := r.documentPayload(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", rel, err)
	}

	if r.config.Logger != nil {
		r.config.Logger.Debug("fixture converted from standoff", "path", rel, "entities", len(doc.Entities))
	}
	r.cache.Set(rel, payload, mtime)
	return payload, nil
}

// loadTagged builds an unannotated document payload from <name>.tagged.
func (r *Repository) loadTagged(base, rel string) (map[string]any, error) {
	info, err := os.Stat(base + TaggedSuffix)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrFixtureNotFound, rel)
	}
	if payload, ok := r.cache.Get(rel, info.ModTime()); ok {
		return payload, nil
	}

	content, err := os.ReadFile(base + TaggedSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus for %s: %w", rel, err)
	}
	doc := core.FromTagged(filepath.Base(base+TaggedSuffix), string(content), info.ModTime())
	payload, err := r.documentPayload(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", rel, err)
	}

	if r.config.Logger != nil {
		r.config.Logger.Debug("fixture converted from tagged corpus", "path", rel, "tokens", len(doc.TokenOffsets))
	}
	r.cache.Set(rel, payload, info.ModTime())
	return payload, nil
}

// documentPayload re-decodes doc the way a fixture file would be decoded.
func (r *Repository) documentPayload(doc *core.Document) (map[string]any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return NewJSONSerializer(r.config.Strict).Decode(bytes.NewReader(data))
}

// Save encodes payload with the serializer for relPath's extension and writes it atomically.
func (r *Repository) Save(ctx context.Context, relPath string, payload map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full, rel, err := r.resolve(relPath)
	if err != nil {
		return err
	}
	ser, ok := r.serializerFor(rel)
	if !ok {
		return fmt.Errorf("unsupported fixture format: %s", rel)
	}

	data, err := ser.Encode(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", rel, err)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := writeFileAtomic(full, data, 0644); err != nil {
		return err
	}

	r.cache.Delete(rel)
	if r.config.Logger != nil {
		r.config.Logger.Info("fixture saved", "path", rel)
	}
	return nil
}

// List returns the fixture files matching pattern, relative to the root, sorted.
// An empty pattern matches every fixture.
func (r *Repository) List(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(r.Path), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isTempFile(m) {
			continue
		}
		if _, ok := r.serializerFor(m); ok || strings.HasSuffix(m, TextSuffix) || strings.HasSuffix(m, TaggedSuffix) {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Watch reports fixture changes matching pattern until ctx is cancelled.
// The returned channel is closed once the watcher stopped.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	events := make(chan core.Event, 16)
	w := newWatchWorker(r, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := w.Stop(stopCtx); err != nil && r.config.Logger != nil {
				r.config.Logger.Warn("watcher stop failed", "error", err)
			}
			<-w.finished
		case <-w.finished:
		}
		close(events)
	}()

	return events, nil
}

// resolve maps a slash-separated fixture path to its absolute file path and
// its cleaned relative form.
func (r *Repository) resolve(relPath string) (full, rel string, err error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(relPath, "/")))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%w: %s", core.ErrOutsideRoot, relPath)
	}
	return filepath.Join(r.Path, clean), filepath.ToSlash(clean), nil
}

// relative maps an absolute path reported by the watcher back to a fixture path.
func (r *Repository) relative(path string) (string, error) {
	rel, err := filepath.Rel(r.Path, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", core.ErrOutsideRoot, path)
	}
	return filepath.ToSlash(rel), nil
}

func (r *Repository) serializerFor(rel string) (Serializer, bool) {
	ser, ok := r.serializers[strings.ToLower(filepath.Ext(rel))]
	return ser, ok
}

// invalidate drops cached payloads affected by a change to rel.
func (r *Repository) invalidate(rel string) {
	r.cache.Delete(rel)
	for _, suffix := range []string{TextSuffix, AnnotationSuffix, TaggedSuffix} {
		if strings.HasSuffix(rel, suffix) {
			r.cache.Delete(strings.TrimSuffix(rel, suffix) + DocumentSuffix)
		}
	}
}

var _ core.FixtureSource = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
var _ core.Lister = (*Repository)(nil)

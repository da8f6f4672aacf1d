package annotate

import (
	"log/slog"
	"time"

	"github.com/aretw0/annotate/internal/platform"
	"github.com/aretw0/annotate/pkg/adapters/fs"
	"github.com/aretw0/annotate/pkg/core"
	"github.com/aretw0/annotate/pkg/dispatch"
)

// --- Types ---

// Dispatcher is a public alias for the offline action dispatcher.
type Dispatcher = dispatch.Dispatcher

// Request is a public alias for a remote action request.
type Request = dispatch.Request

// Envelope is a public alias for the response envelope.
type Envelope = core.Envelope

// Document is a public alias for the annotation document.
type Document = core.Document

// Repository is a public alias for the filesystem fixture repository.
type Repository = fs.Repository

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithUser sets the identity reported by whoami.
func WithUser(user string) Option {
	return platform.WithUser(user)
}

// WithFallbackTimeout bounds each fixture load of the fallback path.
func WithFallbackTimeout(d time.Duration) Option {
	return platform.WithFallbackTimeout(d)
}

// WithStrict keeps numbers in fixtures as json.Number.
func WithStrict(strict bool) Option {
	return platform.WithStrict(strict)
}

// WithMustExist ensures the fixture directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithFixtureSource allows injecting a custom fixture source.
func WithFixtureSource(src core.FixtureSource) Option {
	return platform.WithFixtureSource(src)
}

// WithAdapter allows specifying the fixture adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithFallbackErrorHandler registers a callback for failed fixture loads.
func WithFallbackErrorHandler(fn func(error)) Option {
	return platform.WithFallbackErrorHandler(fn)
}

// WithWatcherErrorHandler registers a callback for fixture watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithCannedDocument serves doc for getDocument requests naming name.
func WithCannedDocument(name string, doc *Document) Option {
	return platform.WithCannedDocument(name, doc)
}

// --- Factory ---

// New creates a dispatcher attached to a fresh bus and session, serving
// fixtures from path when no canned response applies.
func New(path string, opts ...Option) (*Dispatcher, error) {
	return platform.New(path, opts...)
}

// Init prepares a fixture source explicitly.
func Init(path string, opts ...Option) (core.FixtureSource, error) {
	return platform.Init(path, opts...)
}

// OpenRepository opens the filesystem fixture repository at path.
func OpenRepository(path string, opts ...Option) (*Repository, error) {
	return platform.OpenRepository(path, opts...)
}

// --- Utils ---

// FindFixtureRoot recursively looks upwards for a fixture root indicator.
func FindFixtureRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// FromStandoff builds a document from tokenized text and standoff markup.
func FromStandoff(text, markup string, now time.Time) *Document {
	return core.FromStandoff(text, markup, now)
}

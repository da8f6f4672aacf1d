package dispatch

import (
	"log/slog"
	"time"

	"github.com/aretw0/annotate/pkg/core"
)

const (
	// DefaultUser is the identity reported by whoami.
	DefaultUser = "crunchy"
	// DefaultFallbackTimeout bounds a single fixture load.
	DefaultFallbackTimeout = 30 * time.Second
)

type options struct {
	logger          *slog.Logger
	user            string
	source          core.FixtureSource
	timeout         time.Duration
	fallbackErrors  func(error)
	cannedDocuments map[string]*core.Document
}

// Option configures a Dispatcher.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		user:            DefaultUser,
		timeout:         DefaultFallbackTimeout,
		cannedDocuments: make(map[string]*core.Document),
	}
}

// WithLogger sets the logger for the dispatcher.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithUser sets the identity returned by whoami.
func WithUser(user string) Option {
	return func(o *options) {
		o.user = user
	}
}

// WithFixtureSource sets where the fallback path loads fixtures from.
// Without a source every fallback fails.
func WithFixtureSource(src core.FixtureSource) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithFallbackTimeout bounds each fallback load. Zero or negative keeps the default.
func WithFallbackTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithFallbackErrorHandler registers a diagnostic hook for failed fallback loads.
// A failed load never invokes the request callback; this hook is the only signal.
func WithFallbackErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.fallbackErrors = fn
	}
}

// WithCannedDocument serves doc for getDocument requests naming name.
func WithCannedDocument(name string, doc *core.Document) Option {
	return func(o *options) {
		o.cannedDocuments[name] = doc
	}
}

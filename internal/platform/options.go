package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/annotate/pkg/core"
)

// options holds the internal configuration for the annotation service.
type options struct {
	source  core.FixtureSource
	logger  *slog.Logger
	adapter string
	config  map[string]any
	canned  map[string]*core.Document
}

// Option defines a functional option for configuring the service.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]any),
		canned:  make(map[string]*core.Document),
	}
}

func (o *options) apply(opts []Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger shared by the bus, the session, the dispatcher and the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithUser sets the identity reported by whoami.
func WithUser(user string) Option {
	return func(o *options) {
		o.config["user"] = user
	}
}

// WithFallbackTimeout bounds each fixture load of the fallback path.
func WithFallbackTimeout(d time.Duration) Option {
	return func(o *options) {
		o.config["fallback_timeout"] = d
	}
}

// WithStrict keeps numbers in fixtures as json.Number instead of float64.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.config["strict"] = strict
	}
}

// WithMustExist ensures the fixture directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithFixtureSource allows injecting a custom fixture source (e.g. embedded, mock).
// If provided, the default filesystem adapter will be skipped.
func WithFixtureSource(src core.FixtureSource) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithAdapter allows specifying the fixture adapter to use by name (e.g. "fs").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithFallbackErrorHandler registers a callback for failed fixture loads.
// Failed loads never reach the request callback, so this is the only way to observe them
// besides the log.
func WithFallbackErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["fallback_error_handler"] = fn
	}
}

// WithWatcherErrorHandler registers a callback to handle errors occurring during the Watch loop.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithCannedDocument serves doc for getDocument requests naming name, without touching fixtures.
func WithCannedDocument(name string, doc *core.Document) Option {
	return func(o *options) {
		o.canned[name] = doc
	}
}

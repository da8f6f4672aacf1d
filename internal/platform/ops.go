package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/annotate/pkg/adapters/fs"
	"github.com/aretw0/annotate/pkg/core"
)

// Init prepares the fixture source described by uri and the options.
// The 'uri' argument is adapter-specific (a directory for 'fs'). An empty uri
// yields no source: only canned responses are served.
func Init(uri string, opts ...Option) (core.FixtureSource, error) {
	o := defaultOptions().apply(opts)

	if o.source != nil {
		return o.source, nil
	}
	if uri == "" {
		return nil, nil
	}

	switch o.adapter {
	case "fs":
		repo, err := initFS(uri, o)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
}

// OpenRepository opens the filesystem fixture repository at path.
// Unlike Init it always returns the concrete adapter, for callers that list,
// watch or write fixtures.
func OpenRepository(path string, opts ...Option) (*fs.Repository, error) {
	return initFS(path, defaultOptions().apply(opts))
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(path string, o *options) (*fs.Repository, error) {
	strict, _ := o.config["strict"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	repo := fs.NewRepository(fs.Config{
		Path:         path,
		MustExist:    mustExist,
		Strict:       strict,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}

	if o.logger != nil {
		o.logger.Debug("fixture repository ready", "path", path, "strict", strict)
	}
	return repo, nil
}

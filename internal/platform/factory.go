package platform

import (
	"time"

	"github.com/aretw0/annotate/pkg/core"
	"github.com/aretw0/annotate/pkg/dispatch"
)

// New wires a bus, a session, the fixture source and a dispatcher listening on the bus.
//
//	d, err := annotate.New("./offline_data", annotate.WithUser("crunchy"))
//	d.Bus().Post(core.EventAjax, dispatch.NewRequest(dispatch.ActionGetDocument, nil, cb))
func New(uri string, opts ...Option) (*dispatch.Dispatcher, error) {
	source, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	o := defaultOptions().apply(opts)

	bus := core.NewBus(o.logger)
	session := core.NewSession(bus, o.logger)

	dopts := []dispatch.Option{dispatch.WithLogger(o.logger)}
	if source != nil {
		dopts = append(dopts, dispatch.WithFixtureSource(source))
	}
	if user, ok := o.config["user"].(string); ok && user != "" {
		dopts = append(dopts, dispatch.WithUser(user))
	}
	if timeout, ok := o.config["fallback_timeout"].(time.Duration); ok {
		dopts = append(dopts, dispatch.WithFallbackTimeout(timeout))
	}
	if fn, ok := o.config["fallback_error_handler"].(func(error)); ok {
		dopts = append(dopts, dispatch.WithFallbackErrorHandler(fn))
	}
	for name, doc := range o.canned {
		dopts = append(dopts, dispatch.WithCannedDocument(name, doc))
	}

	d := dispatch.New(bus, session, dopts...)
	d.Attach()

	if o.logger != nil {
		o.logger.Debug("dispatcher attached", "session", session.ID, "fixtures", uri)
	}
	return d, nil
}

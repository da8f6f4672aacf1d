package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aretw0/annotate/pkg/core"
)

// handler serves one action. A nil envelope with a nil error means the
// response will be delivered later by the fixture fallback.
type handler func(ctx context.Context, req Request) (*core.Envelope, error)

// typed adapts a handler that expects a decoded, validated payload of type P.
func typed[P any](fn func(ctx context.Context, req Request, p P) (*core.Envelope, error)) handler {
	return func(ctx context.Context, req Request) (*core.Envelope, error) {
		var p P
		if err := decodePayload(req.Fields, &p); err != nil {
			return nil, err
		}
		return fn(ctx, req, p)
	}
}

// Dispatcher emulates the remote annotation service.
//
// Every dispatched action is preceded by a core.EventSpin post. Once the
// response was handed to the request callback, core.EventUnspin is posted.
// Requests that fail before a response exists (unknown action, malformed
// payload, failed fallback) leave the busy state as is.
type Dispatcher struct {
	bus     *core.Bus
	session *core.Session
	opts    *options
	routes  map[Action]handler

	pending    sync.WaitGroup
	inFlight   atomic.Int64
	dispatched atomic.Uint64
	delivered  atomic.Uint64
	failed     atomic.Uint64
}

// New creates a dispatcher serving session. It does not listen on the bus until Attach is called.
func New(bus *core.Bus, session *core.Session, opts ...Option) *Dispatcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	d := &Dispatcher{
		bus:     bus,
		session: session,
		opts:    o,
	}
	d.routes = map[Action]handler{
		ActionGetDocument:       typed(d.getDocument),
		ActionGetCollectionInfo: typed(d.getCollectionInformation),
		ActionLoadConf:          typed(d.loadConf),
		ActionCreateSpan:        typed(d.createSpan),
		ActionDeleteSpan:        typed(d.deleteSpan),
		ActionWhoAmI:            typed(d.whoami),
		ActionStoreSVG:          typed(d.storeSVG),
	}
	return d
}

// Session returns the session the dispatcher edits.
func (d *Dispatcher) Session() *core.Session {
	return d.session
}

// Bus returns the bus the dispatcher posts on.
func (d *Dispatcher) Bus() *core.Bus {
	return d.bus
}

// Attach subscribes the dispatcher to core.EventAjax and returns a function that detaches it.
func (d *Dispatcher) Attach() (detach func()) {
	return d.bus.On(core.EventAjax, func(args ...any) {
		req, ok := requestFrom(args)
		if !ok {
			if d.opts.logger != nil {
				d.opts.logger.Warn("ignoring malformed ajax event", "args", len(args))
			}
			return
		}
		_ = d.Dispatch(context.Background(), req)
	})
}

// Dispatch routes req to its handler. Synchronous actions have invoked the
// callback by the time Dispatch returns; fallback loads deliver later (see Wait).
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) error {
	d.dispatched.Add(1)
	d.bus.Post(core.EventSpin)

	if d.opts.logger != nil {
		d.opts.logger.Debug("dispatching action", "action", req.Action, "session", d.session.ID)
	}

	h, ok := d.routes[Action(req.Action)]
	if !ok {
		err := fmt.Errorf("%w: %q", core.ErrUnknownAction, req.Action)
		d.failed.Add(1)
		if d.opts.logger != nil {
			d.opts.logger.Error("unsupported action", "action", req.Action)
		}
		d.bus.Post(core.EventFatal, err)
		return err
	}

	env, err := h(ctx, req)
	if err != nil {
		d.fail(req, err)
		return err
	}
	if env != nil {
		d.deliver(req, *env)
	}
	return nil
}

// Wait blocks until every in-flight fallback load has finished.
func (d *Dispatcher) Wait() {
	d.pending.Wait()
}

func (d *Dispatcher) deliver(req Request, env core.Envelope) {
	d.delivered.Add(1)
	if req.Callback != nil {
		req.Callback(env)
	}
	d.bus.Post(core.EventUnspin)
}

func (d *Dispatcher) fail(req Request, err error) {
	d.failed.Add(1)
	if d.opts.logger != nil {
		msg := "action failed"
		if errors.Is(err, core.ErrDecode) {
			msg = "malformed payload"
		}
		d.opts.logger.Error(msg, "action", req.Action, "error", err)
	}
	if req.OnError != nil {
		req.OnError(err)
	}
}

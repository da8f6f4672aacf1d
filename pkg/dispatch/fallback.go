package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"dario.cat/mergo"
	"github.com/aretw0/lifecycle"

	"github.com/aretw0/annotate/pkg/core"
)

// fallback serves a request from a fixture file, asynchronously.
//
// This is the best-effort path for requests no canned response covers. The
// load runs in its own goroutine bounded by the fallback timeout. On success
// the payload is delivered like any other response. On failure the request
// callback is never invoked and the busy state is not cleared; the error only
// reaches the logger and the fallback error handler.
func (d *Dispatcher) fallback(ctx context.Context, req Request, path string) error {
	if d.opts.source == nil {
		return fmt.Errorf("%w: no fixture source for %s", core.ErrFixtureNotFound, path)
	}

	done, err := d.session.BeginLoad()
	if err != nil {
		return err
	}

	if d.opts.logger != nil {
		d.opts.logger.Debug("loading fixture", "action", req.Action, "path", path)
	}

	loadCtx, cancel := context.WithTimeout(ctx, d.opts.timeout)
	d.pending.Add(1)
	d.inFlight.Add(1)

	lifecycle.Go(loadCtx, func(ctx context.Context) error {
		defer d.pending.Done()
		defer d.inFlight.Add(-1)
		defer cancel()
		defer done()

		env, err := d.loadFixture(ctx, req, path)
		if err != nil {
			d.fallbackFailed(req, path, err)
			return nil
		}
		// Release the load slot first so the callback may request another document.
		done()
		d.deliver(req, env)
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		d.fallbackFailed(req, path, fmt.Errorf("fixture load panic: %w", err))
	}))

	return nil
}

var envelopeKeys = []string{"action", "protocol", "messages"}

func (d *Dispatcher) loadFixture(ctx context.Context, req Request, path string) (core.Envelope, error) {
	payload, err := d.opts.source.Load(ctx, fixtureName(path))
	if err != nil {
		return core.Envelope{}, err
	}
	if err := ctx.Err(); err != nil {
		return core.Envelope{}, err
	}

	// Fixture messages are stale. Only messages supplied through merge survive.
	delete(payload, "messages")
	if len(req.Merge) > 0 {
		if err := mergo.Merge(&payload, req.Merge, mergo.WithOverride); err != nil {
			return core.Envelope{}, fmt.Errorf("merge into %s: %w", path, err)
		}
	}

	action := req.Action
	if a, ok := payload["action"].(string); ok && a != "" {
		action = a
	}
	env := core.NewEnvelope(action)
	if raw, ok := payload["messages"]; ok && raw != nil {
		if err := remarshal(raw, &env.Messages); err != nil {
			return core.Envelope{}, fmt.Errorf("%w: %s: messages: %v", core.ErrDecode, path, err)
		}
	}
	// The envelope owns these keys; they must not reach the document.
	for _, key := range envelopeKeys {
		delete(payload, key)
	}

	if Action(req.Action) != ActionGetDocument {
		env.Fields = payload
		return env, nil
	}

	doc, err := documentFromPayload(payload)
	if err != nil {
		return core.Envelope{}, fmt.Errorf("%w: %s: %v", core.ErrDecode, path, err)
	}
	d.session.Load(doc, req.Fields["collection"], req.Fields["document"])
	env.Document = doc.Clone()
	return env, nil
}

func (d *Dispatcher) fallbackFailed(req Request, path string, err error) {
	d.failed.Add(1)
	if d.opts.logger != nil {
		d.opts.logger.Error("fixture load failed", "action", req.Action, "path", path, "error", err)
	}
	if d.opts.fallbackErrors != nil {
		d.opts.fallbackErrors(fmt.Errorf("%s %s: %w", req.Action, path, err))
	}
}

func documentFromPayload(payload map[string]any) (*core.Document, error) {
	var doc core.Document
	if err := remarshal(payload, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// remarshal converts a decoded JSON value into dst through its JSON encoding.
func remarshal(v, dst any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

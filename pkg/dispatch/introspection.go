package dispatch

import (
	"sort"

	"github.com/aretw0/introspection"
)

// DispatcherState exposes internal state for observability.
type DispatcherState struct {
	Session         string   `json:"session"`
	Actions         []string `json:"actions"`
	User            string   `json:"user"`
	FallbackEnabled bool     `json:"fallback_enabled"`
	FallbackTimeout string   `json:"fallback_timeout"`
	InFlight        int64    `json:"in_flight"`
	Dispatched      uint64   `json:"dispatched"`
	Delivered       uint64   `json:"delivered"`
	Failed          uint64   `json:"failed"`
}

// State implements introspection.Introspectable.
func (d *Dispatcher) State() any {
	actions := make([]string, 0, len(d.routes))
	for a := range d.routes {
		actions = append(actions, string(a))
	}
	sort.Strings(actions)

	return DispatcherState{
		Session:         d.session.ID,
		Actions:         actions,
		User:            d.opts.user,
		FallbackEnabled: d.opts.source != nil,
		FallbackTimeout: d.opts.timeout.String(),
		InFlight:        d.inFlight.Load(),
		Dispatched:      d.dispatched.Load(),
		Delivered:       d.delivered.Load(),
		Failed:          d.failed.Load(),
	}
}

// ComponentType implements introspection.Component.
func (d *Dispatcher) ComponentType() string {
	return "dispatcher"
}

var _ introspection.Introspectable = (*Dispatcher)(nil)
var _ introspection.Component = (*Dispatcher)(nil)

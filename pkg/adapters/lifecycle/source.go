package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/annotate/pkg/core"
)

type fixtureSource struct {
	events <-chan core.Event
	bus    *core.Bus
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits fixture change events.
// When bus is not nil, every event is also posted under core.EventFixtureChanged
// before it is handed to the lifecycle consumer.
func NewSource(events <-chan core.Event, bus *core.Bus) lifecycle.Source {
	return &fixtureSource{
		events: events,
		bus:    bus,
		out:    make(chan lifecycle.Event),
	}
}

func (s *fixtureSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *fixtureSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if s.bus != nil {
					s.bus.Post(core.EventFixtureChanged, e)
				}
				// core.Event implements lifecycle.Event (has String())
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

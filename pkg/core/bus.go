package core

import (
	"log/slog"
	"sync"
)

// Well-known bus event names.
const (
	// EventAjax carries a Request for the action dispatcher.
	EventAjax = "ajax"
	// EventSpin marks the start of a busy period.
	EventSpin = "spin"
	// EventUnspin marks the end of a busy period.
	EventUnspin = "unspin"
	// EventFatal carries an error that must block the user.
	EventFatal = "fatal"
	// EventCurrentDocument is posted with the new *Document whenever a document is loaded.
	EventCurrentDocument = "current-document"
	// EventFixtureChanged is posted with an Event when a watched fixture changes.
	EventFixtureChanged = "fixture-changed"
)

// Listener receives the arguments of a posted event.
type Listener func(args ...any)

type registration struct {
	id uint64
	fn Listener
}

// Bus is a synchronous publish/subscribe channel keyed by event name.
//
// Post invokes every listener registered for the name, in registration order,
// before returning. No lock is held while listeners run, so a listener may post
// further events or (un)subscribe.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]registration
	nextID    uint64
	logger    *slog.Logger
}

// NewBus creates an empty bus. A nil logger disables debug tracing.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]registration),
		logger:    logger,
	}
}

// On registers fn for name and returns a function that removes it.
func (b *Bus) On(name string, fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.listeners[name] = append(b.listeners[name], registration{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.off(name, id) })
	}
}

func (b *Bus) off(name string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.listeners[name]
	for i, r := range regs {
		if r.id == id {
			// Copy so snapshots held by in-progress posts stay intact.
			next := make([]registration, 0, len(regs)-1)
			next = append(next, regs[:i]...)
			next = append(next, regs[i+1:]...)
			if len(next) == 0 {
				delete(b.listeners, name)
			} else {
				b.listeners[name] = next
			}
			return
		}
	}
}

// Post delivers args to every listener of name and returns the number of listeners invoked.
func (b *Bus) Post(name string, args ...any) int {
	b.mu.RLock()
	regs := b.listeners[name]
	b.mu.RUnlock()

	if b.logger != nil {
		b.logger.Debug("bus post", "event", name, "listeners", len(regs))
	}

	for _, r := range regs {
		r.fn(args...)
	}
	return len(regs)
}

// Listeners returns the number of listeners currently registered for name.
func (b *Bus) Listeners(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}

package fs

import (
	"sync"
	"time"

	"github.com/aretw0/annotate/pkg/core"
)

// debouncer coalesces events for the same fixture that arrive within interval.
// Editors typically produce CREATE+WRITE+CHMOD bursts for a single save.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	pending map[string]core.Event
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		pending:  make(map[string]core.Event),
		timers:   make(map[string]*time.Timer),
	}
}

// add schedules emit for e.ID. If a timer is already armed for the id, the
// pending event is merged and emitted when that timer fires.
func (d *debouncer) add(e core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if prev, ok := d.pending[e.ID]; ok {
		d.pending[e.ID] = coalesce(prev, e)
		return
	}
	d.pending[e.ID] = e

	id := e.ID
	d.wg.Add(1)
	d.timers[id] = time.AfterFunc(d.interval, func() {
		defer d.wg.Done()

		d.mu.Lock()
		ev, ok := d.pending[id]
		delete(d.pending, id)
		delete(d.timers, id)
		d.mu.Unlock()

		if ok {
			emit(ev)
		}
	})
}

// stopAndWait rejects further events, cancels timers that have not fired and
// waits up to timeout for running emits. It reports whether all emits finished.
func (d *debouncer) stopAndWait(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	for id, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, id)
		delete(d.pending, id)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

// coalesce merges a later event into an earlier pending one for the same id.
func coalesce(prev, next core.Event) core.Event {
	out := next
	switch {
	case next.Type == core.EventDelete:
		out.Type = core.EventDelete
	case prev.Type == core.EventCreate:
		out.Type = core.EventCreate
	case prev.Type == core.EventDelete:
		// Deleted and recreated within the window: the file was replaced.
		out.Type = core.EventModify
	}
	return out
}

package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/annotate/pkg/core"
)

func nextEvent(t *testing.T, ch <-chan core.Event) core.Event {
	t.Helper()
	select {
	case e, ok := <-ch:
		if !ok {
			t.Fatal("event channel closed")
		}
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for fixture event")
		return core.Event{}
	}
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	repo := NewRepository(Config{Path: root, DebounceInterval: 20 * time.Millisecond})
	if err := os.MkdirAll(filepath.Join(root, "ned"), 0755); err != nil {
		t.Fatal(err)
	}

	doc := filepath.Join(root, "ned", "doc-1.data.js")
	if err := os.WriteFile(doc, []byte(`jsonp = {"text": "v1"};`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Load(ctx, "ned/doc-1.data.js"); err != nil {
		t.Fatal(err)
	}

	events, err := repo.Watch(ctx, "**/*.data.js")
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	// Non-matching files are filtered out.
	if err := os.WriteFile(filepath.Join(root, "ned", "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(doc, []byte(`jsonp = {"text": "v2"};`), 0644); err != nil {
		t.Fatal(err)
	}

	e := nextEvent(t, events)
	if e.ID != "ned/doc-1.data.js" {
		t.Errorf("unexpected event id %q", e.ID)
	}
	if e.Type != core.EventModify {
		t.Errorf("expected MODIFY, got %s", e.Type)
	}
	if repo.cache.Len() != 0 {
		t.Errorf("expected cache entry to be invalidated")
	}

	// Fixtures in directories created after Watch are observed too.
	if err := os.MkdirAll(filepath.Join(root, "eng"), 0755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(root, "eng", "doc-2.data.js"), []byte("jsonp = {};"), 0644); err != nil {
		t.Fatal(err)
	}
	e = nextEvent(t, events)
	if e.ID != "eng/doc-2.data.js" || e.Type != core.EventCreate {
		t.Errorf("unexpected event %v", e)
	}

	state := repo.State().(RepositoryState)
	if !state.WatcherActive || state.LastEvent == nil {
		t.Errorf("unexpected watcher state %+v", state)
	}

	cancel()
	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(3 * time.Second):
		t.Fatal("event channel not closed after cancel")
	}
}

func TestDebouncer(t *testing.T) {
	t.Run("Coalesces Bursts", func(t *testing.T) {
		d := newDebouncer(30 * time.Millisecond)
		out := make(chan core.Event, 4)
		emit := func(e core.Event) { out <- e }

		d.add(core.Event{Type: core.EventCreate, ID: "a"}, emit)
		d.add(core.Event{Type: core.EventModify, ID: "a"}, emit)
		d.add(core.Event{Type: core.EventModify, ID: "b"}, emit)

		got := map[string]core.EventType{}
		for i := 0; i < 2; i++ {
			select {
			case e := <-out:
				got[e.ID] = e.Type
			case <-time.After(time.Second):
				t.Fatal("timeout waiting for debounced event")
			}
		}
		if got["a"] != core.EventCreate || got["b"] != core.EventModify {
			t.Errorf("unexpected coalesced events %v", got)
		}
		select {
		case e := <-out:
			t.Errorf("unexpected extra event %v", e)
		case <-time.After(60 * time.Millisecond):
		}
	})

	t.Run("Stop Drops Pending", func(t *testing.T) {
		d := newDebouncer(time.Hour)
		fired := false
		d.add(core.Event{Type: core.EventModify, ID: "a"}, func(core.Event) { fired = true })

		if !d.stopAndWait(time.Second) {
			t.Fatal("stopAndWait timed out")
		}
		d.add(core.Event{Type: core.EventModify, ID: "b"}, func(core.Event) { fired = true })
		if fired {
			t.Error("no event should fire after stop")
		}
	})
}

func TestCoalesce(t *testing.T) {
	cases := []struct {
		prev, next, want core.EventType
	}{
		{core.EventCreate, core.EventModify, core.EventCreate},
		{core.EventModify, core.EventDelete, core.EventDelete},
		{core.EventDelete, core.EventCreate, core.EventModify},
		{core.EventModify, core.EventModify, core.EventModify},
	}
	for _, c := range cases {
		got := coalesce(core.Event{Type: c.prev}, core.Event{Type: c.next})
		if got.Type != c.want {
			t.Errorf("coalesce(%s, %s) = %s, want %s", c.prev, c.next, got.Type, c.want)
		}
	}
}

package core_test

import (
	"errors"
	"testing"

	"github.com/aretw0/annotate/pkg/core"
)

func TestSession_LoadAnnouncesDocument(t *testing.T) {
	bus := core.NewBus(nil)
	session := core.NewSession(bus, nil)

	var announced *core.Document
	bus.On(core.EventCurrentDocument, func(args ...any) {
		announced = args[0].(*core.Document)
	})

	doc := &core.Document{Text: "Kyiv is big"}
	session.Load(doc, "/", "kyiv")

	if announced == nil || announced.Text != "Kyiv is big" {
		t.Fatalf("expected current-document event, got %+v", announced)
	}
	if c, d := session.Name(); c != "/" || d != "kyiv" {
		t.Errorf("unexpected name: %s %s", c, d)
	}
}

func TestSession_CurrentIsSnapshot(t *testing.T) {
	session := core.NewSession(nil, nil)
	session.Load(&core.Document{Text: "abc"}, "", "doc")

	snap := session.Current()
	snap.Entities = append(snap.Entities, core.Entity{ID: "T1"})

	if len(session.Current().Entities) != 0 {
		t.Errorf("mutating a snapshot leaked into the session")
	}
}

func TestSession_EditWithoutDocument(t *testing.T) {
	session := core.NewSession(nil, nil)

	_, err := session.Edit(func(a *core.Annotations) error { return nil })
	if !errors.Is(err, core.ErrNoDocument) {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}
}

func TestSession_EditMutatesCurrent(t *testing.T) {
	session := core.NewSession(nil, nil)
	session.Load(&core.Document{}, "", "doc")

	after, err := session.Edit(func(a *core.Annotations) error {
		a.CreateEntity("PER", []core.Span{{Start: 0, End: 4}}, "", nil)
		return nil
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if len(after.Entities) != 1 || len(session.Current().Entities) != 1 {
		t.Errorf("edit not applied")
	}

	state := session.State().(core.SessionState)
	if state.Edits != 1 || state.Entities != 1 || !state.Loaded {
		t.Errorf("unexpected state: %+v", state)
	}
}

func TestSession_BeginLoadRejectsConcurrentLoad(t *testing.T) {
	session := core.NewSession(nil, nil)

	done, err := session.BeginLoad()
	if err != nil {
		t.Fatalf("first BeginLoad failed: %v", err)
	}
	if _, err := session.BeginLoad(); !errors.Is(err, core.ErrLoadInFlight) {
		t.Fatalf("expected ErrLoadInFlight, got %v", err)
	}

	done()
	done()

	again, err := session.BeginLoad()
	if err != nil {
		t.Fatalf("BeginLoad after done failed: %v", err)
	}
	again()
}

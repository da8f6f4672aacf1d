package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/aretw0/annotate/pkg/adapters/lifecycle"
	"github.com/aretw0/annotate/pkg/core"
)

func TestSource_BridgesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := core.NewBus(nil)
	var posted []core.Event
	bus.On(core.EventFixtureChanged, func(args ...any) {
		posted = append(posted, args[0].(core.Event))
	})

	in := make(chan core.Event, 2)
	src := adapter.NewSource(in, bus)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, ID: "ned/doc-1.data.js"}

	select {
	case e := <-src.Events():
		assert.Equal(t, "MODIFY ned/doc-1.data.js", e.String())
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for bridged event")
	}
	require.Len(t, posted, 1)
	assert.Equal(t, "ned/doc-1.data.js", posted[0].ID)

	close(in)
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "output closes when the input closes")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for close")
	}
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := adapter.NewSource(make(chan core.Event), nil)
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not stop after cancel")
	}
}

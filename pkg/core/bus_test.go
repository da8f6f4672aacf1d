package core_test

import (
	"reflect"
	"testing"

	"github.com/aretw0/annotate/pkg/core"
)

func TestBus_DeliversInRegistrationOrder(t *testing.T) {
	bus := core.NewBus(nil)
	var order []string

	bus.On("ping", func(args ...any) { order = append(order, "a") })
	bus.On("ping", func(args ...any) { order = append(order, "b") })
	bus.On("other", func(args ...any) { order = append(order, "x") })
	bus.On("ping", func(args ...any) { order = append(order, "c") })

	if n := bus.Post("ping"); n != 3 {
		t.Errorf("expected 3 listeners invoked, got %d", n)
	}
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Errorf("unexpected order: %v", order)
	}
}

func TestBus_PassesArguments(t *testing.T) {
	bus := core.NewBus(nil)
	var got []any
	bus.On("args", func(args ...any) { got = args })

	bus.Post("args", 1, "two", nil)

	if !reflect.DeepEqual(got, []any{1, "two", nil}) {
		t.Errorf("unexpected args: %v", got)
	}
}

func TestBus_ReentrantPostIsSynchronous(t *testing.T) {
	bus := core.NewBus(nil)
	var trace []string

	bus.On("outer", func(args ...any) {
		trace = append(trace, "outer:start")
		bus.Post("inner")
		trace = append(trace, "outer:end")
	})
	bus.On("inner", func(args ...any) { trace = append(trace, "inner") })

	bus.Post("outer")
	trace = append(trace, "returned")

	want := []string{"outer:start", "inner", "outer:end", "returned"}
	if !reflect.DeepEqual(trace, want) {
		t.Errorf("expected %v, got %v", want, trace)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := core.NewBus(nil)
	calls := 0
	off := bus.On("tick", func(args ...any) { calls++ })

	bus.Post("tick")
	off()
	off()
	bus.Post("tick")

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if bus.Listeners("tick") != 0 {
		t.Errorf("expected no listeners left")
	}
}

func TestBus_UnsubscribeDuringDelivery(t *testing.T) {
	bus := core.NewBus(nil)
	var order []string
	var offSecond func()

	bus.On("tick", func(args ...any) {
		order = append(order, "first")
		offSecond()
	})
	offSecond = bus.On("tick", func(args ...any) { order = append(order, "second") })

	bus.Post("tick")
	bus.Post("tick")

	// The snapshot taken by the first post still includes the second listener.
	if !reflect.DeepEqual(order, []string{"first", "second", "first"}) {
		t.Errorf("unexpected order: %v", order)
	}
}

func TestBus_PostWithoutListeners(t *testing.T) {
	bus := core.NewBus(nil)
	if n := bus.Post("nobody"); n != 0 {
		t.Errorf("expected 0, got %d", n)
	}
}

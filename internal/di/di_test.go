package di

import (
	"sync"
	"sync/atomic"
	"testing"
)

type greeter struct{ name string }

func TestRegisterAndGet(t *testing.T) {
	c := NewContainer()
	c.Register("config", "value")

	if got := c.Get("config"); got != "value" {
		t.Errorf("Get() = %v, want value", got)
	}
	if !c.Has("config") || c.Has("missing") {
		t.Error("Has() reported wrong membership")
	}
}

func TestTokenFactoryIsLazySingleton(t *testing.T) {
	c := NewContainer()
	token := NewToken[*greeter]("test.greeter")

	var calls atomic.Int32
	RegisterToken(c, token, func(sr ServiceRegistry) *greeter {
		calls.Add(1)
		return &greeter{name: sr.Get("name").(string)}
	})
	c.Register("name", "scout")

	if calls.Load() != 0 {
		t.Fatal("factory should not run before first Get")
	}

	var wg sync.WaitGroup
	results := make([]*greeter, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = GetToken(c, token)
		}(i)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("factory ran %d times, want 1", calls.Load())
	}
	for _, g := range results {
		if g != results[0] || g.name != "scout" {
			t.Fatalf("expected the same instance, got %+v", g)
		}
	}
}

func TestGetMissingPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unregistered service")
		}
	}()
	NewContainer().Get("nope")
}

func TestGetTokenWrongTypePanics(t *testing.T) {
	c := NewContainer()
	c.Register("x", 42)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for mismatched type")
		}
	}()
	GetToken(c, NewToken[string]("x"))
}

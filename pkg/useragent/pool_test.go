package useragent

import (
	"sync"
	"testing"
)

func TestNewPool_FallsBackToDefaults(t *testing.T) {
	p := NewPool(nil)
	if p.Len() == 0 {
		t.Fatal("default pool should not be empty")
	}
	if p.Next() == "" {
		t.Error("expected a non-empty agent")
	}
}

func TestPool_RoundRobin(t *testing.T) {
	agents := []string{"ua-a", "ua-b", "ua-c"}
	p := NewPool(agents)

	for i := 0; i < 6; i++ {
		want := agents[i%3]
		if got := p.Next(); got != want {
			t.Errorf("call %d: got %q, want %q", i, got, want)
		}
	}
}

func TestPool_RandomStaysInPool(t *testing.T) {
	agents := []string{"ua-a", "ua-b"}
	p := NewPool(agents)
	members := map[string]bool{"ua-a": true, "ua-b": true}

	for i := 0; i < 20; i++ {
		if ua := p.Random(); !members[ua] {
			t.Fatalf("unexpected agent %q", ua)
		}
	}
}

func TestPool_ConcurrentNext(t *testing.T) {
	p := NewPool([]string{"ua-a", "ua-b", "ua-c"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if p.Next() == "" {
					t.Error("empty agent under concurrency")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNewPool_CopiesInput(t *testing.T) {
	agents := []string{"ua-a"}
	p := NewPool(agents)
	agents[0] = "mutated"

	if got := p.Next(); got != "ua-a" {
		t.Errorf("pool should be immune to caller mutation, got %q", got)
	}
}

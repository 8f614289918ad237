package reorder

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingSweeper struct {
	mu     sync.Mutex
	maxAge time.Duration
	calls  int
	evict  int
}

func (r *recordingSweeper) Sweep(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxAge = maxAge
	r.calls++
	return r.evict
}

func (r *recordingSweeper) snapshot() (int, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls, r.maxAge
}

func TestJanitor_SweepsUntilCancelled(t *testing.T) {
	sw := &recordingSweeper{evict: 2}
	j := NewJanitor(sw, 15*time.Millisecond, 30*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	deadline := time.Now().Add(time.Second)
	for {
		if calls, _ := sw.snapshot(); calls >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("janitor never swept")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v on cancel, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after cancel")
	}

	if _, maxAge := sw.snapshot(); maxAge != 30*time.Second {
		t.Errorf("janitor swept with maxAge %v, want 30s", maxAge)
	}
}

func TestJanitor_EvictsStaleCollectorGroups(t *testing.T) {
	c := NewCollector(time.Hour, func(g *PendingGroup) {
		t.Errorf("unexpected flush of group %q", g.ID)
	})
	c.Add("orphan", Item{Kind: KindPhoto, FileID: "a", UserID: 1, ChatID: 1, SentAt: time.Now().Add(-time.Minute)})

	j := NewJanitor(c, 15*time.Millisecond, 30*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go j.Run(ctx)

	deadline := time.Now().Add(time.Second)
	for c.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("stale group never evicted")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

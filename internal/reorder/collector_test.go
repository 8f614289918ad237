package reorder

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func waitForGroup(t *testing.T, ch <-chan *PendingGroup, timeout time.Duration) *PendingGroup {
	t.Helper()
	select {
	case g := <-ch:
		return g
	case <-time.After(timeout):
		t.Fatal("no group flushed before timeout")
		return nil
	}
}

func expectNoFlush(t *testing.T, ch <-chan *PendingGroup, within time.Duration) {
	t.Helper()
	select {
	case g := <-ch:
		t.Fatalf("unexpected flush of group %q with %d items", g.ID, len(g.Items))
	case <-time.After(within):
	}
}

func TestCollector_DebounceCoalescesBurst(t *testing.T) {
	const debounce = 70 * time.Millisecond
	flushed := make(chan *PendingGroup, 4)
	c := NewCollector(debounce, func(g *PendingGroup) { flushed <- g })

	item := func(id string) Item {
		return Item{Kind: KindPhoto, FileID: id, UserID: 1, ChatID: 1, SentAt: time.Now()}
	}

	start := time.Now()
	c.Add("g1", item("f1"))
	time.Sleep(30 * time.Millisecond)
	c.Add("g1", item("f2"))
	time.Sleep(30 * time.Millisecond)
	lastAdd := time.Now()
	c.Add("g1", item("f3"))

	g := waitForGroup(t, flushed, time.Second)
	if since := time.Since(lastAdd); since < debounce {
		t.Errorf("flush fired %v after last add, want at least %v", since, debounce)
	}
	if since := time.Since(start); since < 125*time.Millisecond {
		t.Errorf("flush fired %v after first add; earlier adds should not schedule it", since)
	}

	if got := g.Files(); !reflect.DeepEqual(got, []string{"f1", "f2", "f3"}) {
		t.Errorf("flushed files = %v, want arrival order", got)
	}
	if g.UserID != 1 || g.ChatID != 1 {
		t.Errorf("group owner = user %d chat %d, want 1/1", g.UserID, g.ChatID)
	}
	if c.Len() != 0 {
		t.Errorf("collector still holds %d groups after flush", c.Len())
	}

	// the burst must produce exactly one flush
	expectNoFlush(t, flushed, 200*time.Millisecond)
}

func TestCollector_GroupsFlushIndependently(t *testing.T) {
	flushed := make(chan *PendingGroup, 4)
	c := NewCollector(30*time.Millisecond, func(g *PendingGroup) { flushed <- g })

	c.Add("g1", Item{Kind: KindPhoto, FileID: "a", UserID: 1, ChatID: 1})
	c.Add("g2", Item{Kind: KindVideo, FileID: "b", UserID: 2, ChatID: 2})

	seen := map[string]int{}
	for i := 0; i < 2; i++ {
		g := waitForGroup(t, flushed, time.Second)
		seen[g.ID] = len(g.Items)
	}
	if seen["g1"] != 1 || seen["g2"] != 1 {
		t.Errorf("flushed groups = %v, want g1 and g2 with one item each", seen)
	}
}

func TestCollector_ClearUserStopsPendingFlush(t *testing.T) {
	flushed := make(chan *PendingGroup, 4)
	c := NewCollector(40*time.Millisecond, func(g *PendingGroup) { flushed <- g })

	c.Add("mine", Item{Kind: KindPhoto, FileID: "a", UserID: 1, ChatID: 1})
	c.Add("theirs", Item{Kind: KindPhoto, FileID: "b", UserID: 2, ChatID: 2})

	if dropped := c.ClearUser(1); dropped != 1 {
		t.Fatalf("ClearUser dropped %d groups, want 1", dropped)
	}

	g := waitForGroup(t, flushed, time.Second)
	if g.ID != "theirs" {
		t.Errorf("flushed group %q, want %q", g.ID, "theirs")
	}
	expectNoFlush(t, flushed, 150*time.Millisecond)
}

func TestCollector_SweepEvictsOldKeepsFresh(t *testing.T) {
	c := NewCollector(time.Hour, func(g *PendingGroup) {
		t.Errorf("unexpected flush of group %q", g.ID)
	})

	c.Add("stale", Item{Kind: KindPhoto, FileID: "a", UserID: 1, ChatID: 1, SentAt: time.Now().Add(-time.Minute)})
	c.Add("fresh", Item{Kind: KindPhoto, FileID: "b", UserID: 2, ChatID: 2, SentAt: time.Now()})

	if evicted := c.Sweep(30 * time.Second); evicted != 1 {
		t.Fatalf("Sweep evicted %d groups, want 1", evicted)
	}
	if c.Len() != 1 {
		t.Errorf("collector holds %d groups after sweep, want 1", c.Len())
	}

	// a second pass over the same state finds nothing
	if evicted := c.Sweep(30 * time.Second); evicted != 0 {
		t.Errorf("repeated Sweep evicted %d groups, want 0", evicted)
	}
}

func TestCollector_SweepFallsBackToCreationTime(t *testing.T) {
	c := NewCollector(time.Hour, func(*PendingGroup) {})

	// no platform timestamp on the item
	c.Add("g1", Item{Kind: KindDocument, FileID: "a", UserID: 1, ChatID: 1})

	time.Sleep(10 * time.Millisecond)
	if evicted := c.Sweep(time.Millisecond); evicted != 1 {
		t.Errorf("Sweep evicted %d groups, want 1 via creation-time fallback", evicted)
	}
}

func TestPendingGroup_Validate(t *testing.T) {
	items := func(kinds ...Kind) []Item {
		out := make([]Item, len(kinds))
		for i, k := range kinds {
			out[i] = Item{Kind: k, FileID: "f"}
		}
		return out
	}

	tests := []struct {
		name    string
		items   []Item
		wantErr bool
	}{
		{"two photos", items(KindPhoto, KindPhoto), false},
		{"ten documents", items(KindDocument, KindDocument, KindDocument, KindDocument, KindDocument, KindDocument, KindDocument, KindDocument, KindDocument, KindDocument), false},
		{"single item", items(KindPhoto), true},
		{"eleven items", items(KindPhoto, KindPhoto, KindPhoto, KindPhoto, KindPhoto, KindPhoto, KindPhoto, KindPhoto, KindPhoto, KindPhoto, KindPhoto), true},
		{"mixed photo and video", items(KindPhoto, KindVideo), true},
		{"mixed in the middle", items(KindAudio, KindDocument, KindAudio), true},
		{"empty group", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &PendingGroup{ID: "g", Items: tt.items}
			err := g.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrGroupComposition) {
					t.Errorf("Validate() = %v, want ErrGroupComposition", err)
				}
			} else if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

// Package reorder implements the media-group reorder pipeline: buffering a
// burst of attachments, debouncing its finalization, holding the resulting
// per-user session, and validating the requested order.
package reorder

import (
	"errors"
	"sync"
	"time"
)

// Kind is the media kind of a buffered attachment.
type Kind string

const (
	KindPhoto    Kind = "photo"
	KindVideo    Kind = "video"
	KindAudio    Kind = "audio"
	KindDocument Kind = "document"
)

// Album size bounds. Ten is also the Bot API's hard album limit.
const (
	MinGroupItems = 2
	MaxGroupItems = 10
)

// ErrGroupComposition rejects bursts that mix media kinds or fall outside
// the album size bounds.
var ErrGroupComposition = errors.New("group must contain 2-10 items of a single kind")

// Item is one buffered attachment of a media group.
type Item struct {
	Kind   Kind
	FileID string
	UserID int64
	ChatID int64
	SentAt time.Time // platform message date; zero when absent
}

// PendingGroup is a media group still inside its debounce window. Owner and
// chat come from the first buffered item.
type PendingGroup struct {
	ID        string
	UserID    int64
	ChatID    int64
	Items     []Item
	FirstAt   time.Time // first item's SentAt
	CreatedAt time.Time // wall clock at first append

	timer *time.Timer
	gen   uint64
}

// Validate checks that the buffered burst can become one album: a single
// kind and a count within [MinGroupItems, MaxGroupItems].
func (g *PendingGroup) Validate() error {
	if len(g.Items) < MinGroupItems || len(g.Items) > MaxGroupItems {
		return ErrGroupComposition
	}
	for _, it := range g.Items[1:] {
		if it.Kind != g.Items[0].Kind {
			return ErrGroupComposition
		}
	}
	return nil
}

// Kind returns the burst's media kind. Only meaningful after Validate.
func (g *PendingGroup) Kind() Kind {
	if len(g.Items) == 0 {
		return ""
	}
	return g.Items[0].Kind
}

// Files returns the buffered file references in arrival order.
func (g *PendingGroup) Files() []string {
	files := make([]string, len(g.Items))
	for i, it := range g.Items {
		files[i] = it.FileID
	}
	return files
}

// FlushFunc receives a popped group once its debounce window closes.
type FlushFunc func(group *PendingGroup)

// Collector buffers media-group attachments and debounces their
// finalization: every append re-arms the group's timer, so the flush runs
// one quiet period after the last attachment.
type Collector struct {
	mu     sync.Mutex
	groups map[string]*PendingGroup
	delay  time.Duration
	flush  FlushFunc
}

// NewCollector creates a collector that flushes a group after delay of quiet.
func NewCollector(delay time.Duration, flush FlushFunc) *Collector {
	return &Collector{
		groups: make(map[string]*PendingGroup),
		delay:  delay,
		flush:  flush,
	}
}

// Add buffers one attachment and re-arms the group's debounce timer,
// cancelling any previous one. The first item fixes the group's owner.
func (c *Collector) Add(groupID string, item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.groups[groupID]
	if !ok {
		g = &PendingGroup{
			ID:        groupID,
			UserID:    item.UserID,
			ChatID:    item.ChatID,
			FirstAt:   item.SentAt,
			CreatedAt: time.Now(),
		}
		c.groups[groupID] = g
	}
	g.Items = append(g.Items, item)

	if g.timer != nil {
		g.timer.Stop()
	}
	g.gen++
	gen := g.gen
	g.timer = time.AfterFunc(c.delay, func() {
		c.fire(groupID, gen)
	})
}

// fire pops and flushes the group. The generation check drops callbacks
// from superseded timers that slipped past Stop, keeping at most one
// finalize in flight per group id.
func (c *Collector) fire(groupID string, gen uint64) {
	c.mu.Lock()
	g, ok := c.groups[groupID]
	if !ok || g.gen != gen {
		c.mu.Unlock()
		return
	}
	delete(c.groups, groupID)
	c.mu.Unlock()

	c.flush(g)
}

// ClearUser drops every pending group owned by the user and reports how
// many were dropped. Used by the reset command.
func (c *Collector) ClearUser(userID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for id, g := range c.groups {
		if g.UserID != userID {
			continue
		}
		if g.timer != nil {
			g.timer.Stop()
		}
		delete(c.groups, id)
		dropped++
	}
	return dropped
}

// Sweep evicts groups older than maxAge and reports the eviction count.
// Age is measured from the first item's timestamp, falling back to the
// buffer's creation time when the platform supplied none.
func (c *Collector) Sweep(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	evicted := 0
	for id, g := range c.groups {
		ref := g.FirstAt
		if ref.IsZero() {
			ref = g.CreatedAt
		}
		if now.Sub(ref) > maxAge {
			if g.timer != nil {
				g.timer.Stop()
			}
			delete(c.groups, id)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of in-flight groups.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.groups)
}

package channels

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedUsers bounds the throttle map so unsolicited traffic cannot
// grow it without limit.
const maxTrackedUsers = 4096

type throttleEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// ReplyThrottle suppresses repeated warning replies per user: the first
// warning always goes out, then at most one per cooldown.
type ReplyThrottle struct {
	mu       sync.Mutex
	cooldown time.Duration
	users    map[int64]*throttleEntry
}

// NewReplyThrottle creates a throttle allowing one reply per cooldown per
// user.
func NewReplyThrottle(cooldown time.Duration) *ReplyThrottle {
	return &ReplyThrottle{
		cooldown: cooldown,
		users:    make(map[int64]*throttleEntry),
	}
}

// Allow reports whether a warning reply may go to the user now, consuming
// the user's budget when it may.
func (t *ReplyThrottle) Allow(userID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.users[userID]
	if !ok {
		if len(t.users) >= maxTrackedUsers {
			t.prune()
		}
		e = &throttleEntry{lim: rate.NewLimiter(rate.Every(t.cooldown), 1)}
		t.users[userID] = e
	}
	e.seen = time.Now()
	return e.lim.Allow()
}

// prune drops users idle past the cooldown, whose budget is full again, and
// hard-evicts arbitrary entries if the map is still at capacity. Called
// with the lock held.
func (t *ReplyThrottle) prune() {
	now := time.Now()
	for id, e := range t.users {
		if now.Sub(e.seen) >= t.cooldown {
			delete(t.users, id)
		}
	}
	for len(t.users) >= maxTrackedUsers {
		for id := range t.users {
			delete(t.users, id)
			break
		}
	}
}

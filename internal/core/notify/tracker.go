// Package notify implements incremental change detection over repeated
// full-collection snapshots of the complaint store. The store offers no
// change feed, so newly-arrived complaints are discovered by diffing each
// snapshot against previously observed state.
package notify

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MaxFeedSize is the cap on the unread notification feed. Older entries are
// discarded once the cap is reached.
const MaxFeedSize = 20

// Record is one complaint as seen in a snapshot. CreatedAt is the raw
// RFC3339 string from the store; records with a missing or malformed
// timestamp are treated as created at epoch zero.
type Record struct {
	ID        string
	Title     string
	CreatedAt string
}

// Notification is one unread entry in the feed.
type Notification struct {
	ID          string `json:"id"`
	ComplaintID string `json:"complaint_id"`
	Title       string `json:"title"`
	CreatedAt   string `json:"created_at"`
}

// Batch is the result of one reconciliation: the notifications generated by
// this call and the full feed after merging them in.
type Batch struct {
	Fresh []Notification
	Feed  []Notification
}

// Tracker detects complaints that are newly visible since the last snapshot.
// It keeps the set of previously seen IDs and the highest creation timestamp
// observed so far; a complaint qualifies as new when its ID was never seen or
// its timestamp is later than everything seen before. State lives only in
// memory and resets with the process.
type Tracker struct {
	mu         sync.Mutex
	knownIDs   map[string]struct{}
	latestSeen int64 // epoch millis, never decreases
	firstFetch bool
	feed       []Notification

	now func() time.Time
}

// NewTracker creates an empty tracker. The first snapshot it receives only
// primes the state and never produces notifications.
func NewTracker() *Tracker {
	return &Tracker{
		knownIDs:   make(map[string]struct{}),
		firstFetch: true,
		now:        time.Now,
	}
}

// parseTimestamp converts an RFC3339 string to epoch milliseconds.
// Missing or malformed values parse to 0.
func parseTimestamp(value string) int64 {
	if value == "" {
		return 0
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}

// Reconcile compares a freshly fetched snapshot against prior state and
// returns the notifications generated by this call plus the updated feed
// (most recent first, capped at MaxFeedSize). The snapshot fully replaces the
// known-ID set. Calls are serialized; overlapping snapshot handling is the
// caller's concern.
func (t *Tracker) Reconcile(snapshot []Record) Batch {
	t.mu.Lock()
	defer t.mu.Unlock()

	incomingIDs := make(map[string]struct{}, len(snapshot))
	var incomingMax int64
	for _, rec := range snapshot {
		incomingIDs[rec.ID] = struct{}{}
		if ts := parseTimestamp(rec.CreatedAt); ts > incomingMax {
			incomingMax = ts
		}
	}

	if t.firstFetch {
		// Bootstrapping must not alert on pre-existing data.
		t.firstFetch = false
		t.knownIDs = incomingIDs
		if incomingMax > t.latestSeen {
			t.latestSeen = incomingMax
		}
		return Batch{Feed: t.feedCopy()}
	}

	var fresh []Record
	for _, rec := range snapshot {
		_, known := t.knownIDs[rec.ID]
		if !known || parseTimestamp(rec.CreatedAt) > t.latestSeen {
			fresh = append(fresh, rec)
		}
	}

	// Stable sort keeps ties in snapshot order.
	sort.SliceStable(fresh, func(i, j int) bool {
		return parseTimestamp(fresh[i].CreatedAt) > parseTimestamp(fresh[j].CreatedAt)
	})

	var incoming []Notification
	if len(fresh) > 0 {
		generation := t.now().UnixMilli()
		held := make(map[string]struct{}, len(t.feed))
		for _, entry := range t.feed {
			held[entry.ComplaintID] = struct{}{}
		}

		for _, rec := range fresh {
			// First-seen-wins: a complaint already held unread is not
			// re-queued, even if it qualified again.
			if _, dup := held[rec.ID]; dup {
				continue
			}
			title := rec.Title
			if title == "" {
				title = "New complaint"
			}
			incoming = append(incoming, Notification{
				ID:          fmt.Sprintf("%s-%d", rec.ID, generation),
				ComplaintID: rec.ID,
				Title:       title,
				CreatedAt:   rec.CreatedAt,
			})
		}

		t.feed = append(incoming, t.feed...)
		if len(t.feed) > MaxFeedSize {
			t.feed = t.feed[:MaxFeedSize]
		}
	}

	t.knownIDs = incomingIDs
	if incomingMax > t.latestSeen {
		t.latestSeen = incomingMax
	}

	return Batch{Fresh: incoming, Feed: t.feedCopy()}
}

// Feed returns the current unread feed, most recent first.
func (t *Tracker) Feed() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.feedCopy()
}

// ClearFeed empties the visible feed ("mark all read"). The known-ID set and
// timestamp watermark are kept, so cleared complaints do not re-alert on the
// next poll.
func (t *Tracker) ClearFeed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.feed = nil
}

// UnreadCount returns the number of unread notifications.
func (t *Tracker) UnreadCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.feed)
}

func (t *Tracker) feedCopy() []Notification {
	out := make([]Notification, len(t.feed))
	copy(out, t.feed)
	return out
}

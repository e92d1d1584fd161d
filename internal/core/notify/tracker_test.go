package notify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(offset time.Duration) string {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return base.Add(offset).Format(time.RFC3339)
}

// TestFirstCallSuppression verifies the bootstrap snapshot never alerts,
// regardless of its contents.
func TestFirstCallSuppression(t *testing.T) {
	tracker := NewTracker()

	batch := tracker.Reconcile([]Record{
		{ID: "1", Title: "Broken AC", CreatedAt: ts(0)},
		{ID: "2", Title: "Wifi down", CreatedAt: ts(time.Minute)},
	})

	assert.Empty(t, batch.Fresh)
	assert.Empty(t, batch.Feed)
}

// TestNewIDDetection verifies a complaint with an unseen ID is surfaced on the
// second call.
func TestNewIDDetection(t *testing.T) {
	tracker := NewTracker()
	tracker.Reconcile([]Record{{ID: "1", CreatedAt: ts(0)}})

	batch := tracker.Reconcile([]Record{
		{ID: "1", CreatedAt: ts(0)},
		{ID: "2", Title: "Projector broken", CreatedAt: ts(time.Minute)},
	})

	require.Len(t, batch.Fresh, 1)
	assert.Equal(t, "2", batch.Fresh[0].ComplaintID)
	assert.Equal(t, "Projector broken", batch.Fresh[0].Title)
}

// TestTimestampTriggeredRenotify verifies a known ID with a newer timestamp
// qualifies again (same-ID record updates count as newly relevant).
func TestTimestampTriggeredRenotify(t *testing.T) {
	tracker := NewTracker()
	tracker.Reconcile([]Record{{ID: "1", CreatedAt: ts(0)}})

	batch := tracker.Reconcile([]Record{{ID: "1", CreatedAt: ts(5 * time.Minute)}})

	require.Len(t, batch.Fresh, 1)
	assert.Equal(t, "1", batch.Fresh[0].ComplaintID)
}

// TestNoDuplicateAlertOnIdenticalSnapshot verifies an unchanged snapshot
// yields zero new notifications.
func TestNoDuplicateAlertOnIdenticalSnapshot(t *testing.T) {
	tracker := NewTracker()
	snapshot := []Record{
		{ID: "1", CreatedAt: ts(0)},
		{ID: "2", CreatedAt: ts(time.Minute)},
	}
	tracker.Reconcile(snapshot)

	batch := tracker.Reconcile(snapshot)

	assert.Empty(t, batch.Fresh)
}

// TestMonotonicWatermark verifies the timestamp watermark never decreases,
// even when a later snapshot carries only older values.
func TestMonotonicWatermark(t *testing.T) {
	tracker := NewTracker()
	tracker.Reconcile([]Record{{ID: "1", CreatedAt: ts(time.Hour)}})
	high := tracker.latestSeen
	require.Greater(t, high, int64(0))

	tracker.Reconcile([]Record{{ID: "2", CreatedAt: ts(0)}})
	assert.Equal(t, high, tracker.latestSeen)

	tracker.Reconcile([]Record{})
	assert.Equal(t, high, tracker.latestSeen)
}

// TestFeedCap verifies the feed is truncated to MaxFeedSize and keeps the
// most recent entries.
func TestFeedCap(t *testing.T) {
	tracker := NewTracker()
	tracker.Reconcile(nil)

	var snapshot []Record
	for i := 1; i <= 25; i++ {
		snapshot = append(snapshot, Record{
			ID:        fmt.Sprintf("%d", i),
			CreatedAt: ts(time.Duration(i) * time.Minute),
		})
		batch := tracker.Reconcile(snapshot)
		assert.LessOrEqual(t, len(batch.Feed), MaxFeedSize)
	}

	feed := tracker.Feed()
	require.Len(t, feed, MaxFeedSize)
	// Most recent insertion first; complaint 25 arrived last.
	assert.Equal(t, "25", feed[0].ComplaintID)
	// The five oldest (1-5) have fallen off.
	for _, entry := range feed {
		assert.NotContains(t, []string{"1", "2", "3", "4", "5"}, entry.ComplaintID)
	}
}

// TestClearDoesNotReplay verifies mark-all-read empties the feed without
// resetting diff state, so an unchanged snapshot does not re-alert.
func TestClearDoesNotReplay(t *testing.T) {
	tracker := NewTracker()
	tracker.Reconcile([]Record{{ID: "1", CreatedAt: ts(0)}})
	batch := tracker.Reconcile([]Record{
		{ID: "1", CreatedAt: ts(0)},
		{ID: "2", CreatedAt: ts(time.Minute)},
	})
	require.Len(t, batch.Fresh, 1)
	require.Equal(t, 1, tracker.UnreadCount())

	tracker.ClearFeed()
	assert.Equal(t, 0, tracker.UnreadCount())

	batch = tracker.Reconcile([]Record{
		{ID: "1", CreatedAt: ts(0)},
		{ID: "2", CreatedAt: ts(time.Minute)},
	})
	assert.Empty(t, batch.Fresh)
	assert.Equal(t, 0, tracker.UnreadCount())
}

// TestMalformedTimestampSafety verifies missing or unparseable timestamps are
// treated as epoch zero and never disturb the watermark.
func TestMalformedTimestampSafety(t *testing.T) {
	tracker := NewTracker()
	tracker.Reconcile([]Record{{ID: "1", CreatedAt: ts(0)}})
	watermark := tracker.latestSeen

	batch := tracker.Reconcile([]Record{
		{ID: "1", CreatedAt: ts(0)},
		{ID: "2", CreatedAt: "not-a-date"},
		{ID: "3", CreatedAt: ""},
	})

	// New IDs still alert via the ID clause even with unusable timestamps.
	require.Len(t, batch.Fresh, 2)
	assert.Equal(t, watermark, tracker.latestSeen)
}

// TestTitleFallback verifies an untitled complaint gets the placeholder title.
func TestTitleFallback(t *testing.T) {
	tracker := NewTracker()
	tracker.Reconcile(nil)

	batch := tracker.Reconcile([]Record{{ID: "9", CreatedAt: ts(0)}})

	require.Len(t, batch.Fresh, 1)
	assert.Equal(t, "New complaint", batch.Fresh[0].Title)
}

// TestBatchOrdering verifies qualifying complaints are sorted most recent
// first and that equal timestamps keep snapshot order.
func TestBatchOrdering(t *testing.T) {
	tracker := NewTracker()
	tracker.Reconcile(nil)

	batch := tracker.Reconcile([]Record{
		{ID: "a", CreatedAt: ts(time.Minute)},
		{ID: "b", CreatedAt: ts(2 * time.Minute)},
		{ID: "c", CreatedAt: ts(2 * time.Minute)},
	})

	require.Len(t, batch.Fresh, 3)
	assert.Equal(t, "b", batch.Fresh[0].ComplaintID)
	assert.Equal(t, "c", batch.Fresh[1].ComplaintID)
	assert.Equal(t, "a", batch.Fresh[2].ComplaintID)
}

// TestSyntheticIDsUniquePerGeneration verifies the synthetic notification ID
// embeds the generation time, so the same complaint gets distinct IDs across
// separate reconciliations.
func TestSyntheticIDsUniquePerGeneration(t *testing.T) {
	tracker := NewTracker()
	var fakeNow int64 = 1_700_000_000_000
	tracker.now = func() time.Time { return time.UnixMilli(fakeNow) }

	tracker.Reconcile(nil)
	first := tracker.Reconcile([]Record{{ID: "7", CreatedAt: ts(0)}})
	require.Len(t, first.Fresh, 1)

	tracker.ClearFeed()
	fakeNow += 5000
	second := tracker.Reconcile([]Record{{ID: "7", CreatedAt: ts(time.Minute)}})
	require.Len(t, second.Fresh, 1)

	assert.NotEqual(t, first.Fresh[0].ID, second.Fresh[0].ID)
}

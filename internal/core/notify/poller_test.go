package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu       sync.Mutex
	snapshot []Record
	err      error
	calls    int
	block    chan struct{} // when set, Snapshot waits until the channel closes
}

func (f *stubFetcher) Snapshot(ctx context.Context) ([]Record, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	snapshot, err := f.snapshot, f.err
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return snapshot, err
}

func (f *stubFetcher) set(snapshot []Record, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = snapshot
	f.err = err
}

// TestRefreshFeedsTracker verifies an on-demand refresh runs a full
// fetch-reconcile cycle and surfaces new complaints.
func TestRefreshFeedsTracker(t *testing.T) {
	fetcher := &stubFetcher{snapshot: []Record{{ID: "1", CreatedAt: ts(0)}}}
	tracker := NewTracker()
	poller := NewPoller(fetcher, tracker, time.Minute)

	require.NoError(t, poller.Refresh(context.Background()))
	assert.Equal(t, 0, tracker.UnreadCount())

	fetcher.set([]Record{
		{ID: "1", CreatedAt: ts(0)},
		{ID: "2", CreatedAt: ts(time.Minute)},
	}, nil)
	require.NoError(t, poller.Refresh(context.Background()))
	assert.Equal(t, 1, tracker.UnreadCount())
}

// TestFetchFailureLeavesStateUntouched verifies a failed fetch performs no
// reconciliation: the next successful poll still sees the old watermark.
func TestFetchFailureLeavesStateUntouched(t *testing.T) {
	fetcher := &stubFetcher{snapshot: []Record{{ID: "1", CreatedAt: ts(0)}}}
	tracker := NewTracker()
	poller := NewPoller(fetcher, tracker, time.Minute)
	require.NoError(t, poller.Refresh(context.Background()))

	fetcher.set(nil, errors.New("connection refused"))
	err := poller.Refresh(context.Background())
	require.Error(t, err)

	// Recovery: the complaint created during the outage still alerts.
	fetcher.set([]Record{
		{ID: "1", CreatedAt: ts(0)},
		{ID: "2", CreatedAt: ts(time.Minute)},
	}, nil)
	require.NoError(t, poller.Refresh(context.Background()))
	assert.Equal(t, 1, tracker.UnreadCount())
}

// TestOverlappingPollDropped verifies a refresh arriving while another poll is
// in flight is rejected rather than applied concurrently.
func TestOverlappingPollDropped(t *testing.T) {
	block := make(chan struct{})
	fetcher := &stubFetcher{block: block}
	tracker := NewTracker()
	poller := NewPoller(fetcher, tracker, time.Minute)

	done := make(chan error, 1)
	go func() { done <- poller.Refresh(context.Background()) }()

	// Wait until the first fetch is underway.
	require.Eventually(t, func() bool {
		fetcher.mu.Lock()
		defer fetcher.mu.Unlock()
		return fetcher.calls == 1
	}, time.Second, 5*time.Millisecond)

	err := poller.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrPollInFlight)

	close(block)
	require.NoError(t, <-done)
}

// TestOnBatchCallback verifies non-empty batches reach the registered
// callback and empty ones do not.
func TestOnBatchCallback(t *testing.T) {
	fetcher := &stubFetcher{snapshot: []Record{{ID: "1", CreatedAt: ts(0)}}}
	tracker := NewTracker()
	poller := NewPoller(fetcher, tracker, time.Minute)

	var batches [][]Notification
	poller.OnBatch(func(fresh []Notification) { batches = append(batches, fresh) })

	require.NoError(t, poller.Refresh(context.Background()))
	assert.Empty(t, batches) // bootstrap produces nothing

	fetcher.set([]Record{
		{ID: "1", CreatedAt: ts(0)},
		{ID: "2", CreatedAt: ts(time.Minute)},
	}, nil)
	require.NoError(t, poller.Refresh(context.Background()))
	require.Len(t, batches, 1)
	assert.Equal(t, "2", batches[0][0].ComplaintID)
}

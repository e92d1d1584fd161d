package notify

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"
)

// ErrPollInFlight is returned by Refresh when a previous fetch has not yet
// applied its snapshot. The overlapping request is dropped, not queued, so
// snapshots can never be applied out of order.
var ErrPollInFlight = errors.New("poll already in flight")

// Fetcher supplies the full current complaint collection. Every call returns
// the whole collection; there is no pagination or filtering at this boundary.
type Fetcher interface {
	Snapshot(ctx context.Context) ([]Record, error)
}

// Poller drives the Tracker: it fetches a snapshot on a fixed interval and on
// explicit Refresh calls (the foreground-trigger analogue), and hands each
// snapshot to Reconcile. A failed fetch leaves tracker state untouched and is
// retried on the next tick with no backoff.
type Poller struct {
	fetcher  Fetcher
	tracker  *Tracker
	interval time.Duration

	// onBatch, when set, receives every non-empty batch of new notifications.
	onBatch func([]Notification)

	inFlight atomic.Bool
	stopChan chan struct{}
}

// NewPoller creates a poller over the given fetcher and tracker.
func NewPoller(fetcher Fetcher, tracker *Tracker, interval time.Duration) *Poller {
	return &Poller{
		fetcher:  fetcher,
		tracker:  tracker,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// OnBatch registers a callback for non-empty notification batches. Must be
// called before Start.
func (p *Poller) OnBatch(fn func([]Notification)) {
	p.onBatch = fn
}

// Start launches the polling loop in a background goroutine.
func (p *Poller) Start() {
	log.Printf("🔔 Notification poller started (interval %s)", p.interval)
	go p.run()
}

// Stop terminates the polling loop.
func (p *Poller) Stop() {
	close(p.stopChan)
	log.Println("🔔 Notification poller stopped")
}

func (p *Poller) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.pollOnce(context.Background()); err != nil && !errors.Is(err, ErrPollInFlight) {
				log.Printf("⚠️ Notification poll failed: %v", err)
			}
		case <-p.stopChan:
			return
		}
	}
}

// Refresh performs an immediate poll, the server-side equivalent of the
// window-focus trigger. Returns ErrPollInFlight if a poll is already running.
func (p *Poller) Refresh(ctx context.Context) error {
	return p.pollOnce(ctx)
}

// pollOnce fetches one snapshot and reconciles it. The in-flight guard
// serializes reconciliation: a snapshot that resolves while an earlier one is
// still being applied is dropped rather than applied concurrently.
func (p *Poller) pollOnce(ctx context.Context) error {
	if !p.inFlight.CompareAndSwap(false, true) {
		return ErrPollInFlight
	}
	defer p.inFlight.Store(false)

	snapshot, err := p.fetcher.Snapshot(ctx)
	if err != nil {
		return err
	}

	batch := p.tracker.Reconcile(snapshot)
	if len(batch.Fresh) > 0 && p.onBatch != nil {
		p.onBatch(batch.Fresh)
	}
	return nil
}

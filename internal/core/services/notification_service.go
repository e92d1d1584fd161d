package services

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"campus-complaintdesk/internal/adapters/persistence/repositories"
	"campus-complaintdesk/internal/core/notify"
)

// ============================================================
// SSE Hub
// ============================================================

// SSEEvent represents a server-sent event
type SSEEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID      string
	UserID  uint
	Channel chan SSEEvent
}

// SSEHub manages all SSE connections
type SSEHub struct {
	mu      sync.RWMutex
	clients map[string]*SSEClient
}

// NewSSEHub creates a new SSE hub
func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients: make(map[string]*SSEClient),
	}
}

// Register adds a new SSE client
func (h *SSEHub) Register(client *SSEClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	log.Printf("📡 SSE client registered: %s (user=%d) | total=%d",
		client.ID, client.UserID, len(h.clients))
}

// Unregister removes an SSE client
func (h *SSEHub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Channel)
		delete(h.clients, clientID)
		log.Printf("📡 SSE client unregistered: %s | total=%d", clientID, len(h.clients))
	}
}

// Broadcast sends an event to every connected client
func (h *SSEHub) Broadcast(event SSEEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, client := range h.clients {
		select {
		case client.Channel <- event:
			sent++
		default:
			// Client channel full, skip
			log.Printf("⚠️ SSE channel full for client %s, skipping", client.ID)
		}
	}
	if sent > 0 {
		log.Printf("📡 SSE broadcast [%s] → %d clients", event.Event, sent)
	}
}

// GetClientCount returns the number of connected clients
func (h *SSEHub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ============================================================
// NotificationService — diff tracker + poller + SSE
// ============================================================

// complaintFetcher adapts the complaint repository to the snapshot shape the
// diff tracker consumes.
type complaintFetcher struct {
	complaintRepo repositories.ComplaintRepository
}

// Snapshot returns the full complaint collection as diff records.
func (f *complaintFetcher) Snapshot(ctx context.Context) ([]notify.Record, error) {
	complaints, err := f.complaintRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]notify.Record, len(complaints))
	for i, c := range complaints {
		records[i] = notify.Record{
			ID:        strconv.FormatUint(uint64(c.ID), 10),
			Title:     c.Title,
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		}
	}
	return records, nil
}

// NotificationService watches the complaint collection for new arrivals and
// fans fresh alerts out to connected admin clients.
type NotificationService struct {
	Hub     *SSEHub
	tracker *notify.Tracker
	poller  *notify.Poller
}

// NewNotificationService creates a new notification service
func NewNotificationService(complaintRepo repositories.ComplaintRepository, pollInterval time.Duration) *NotificationService {
	hub := NewSSEHub()
	tracker := notify.NewTracker()
	poller := notify.NewPoller(&complaintFetcher{complaintRepo: complaintRepo}, tracker, pollInterval)

	poller.OnBatch(func(fresh []notify.Notification) {
		log.Printf("🔔 %d new complaint(s) detected", len(fresh))
		hub.Broadcast(SSEEvent{Event: "complaint_alert", Data: fresh})
	})

	return &NotificationService{
		Hub:     hub,
		tracker: tracker,
		poller:  poller,
	}
}

// Start begins the background polling loop
func (s *NotificationService) Start() {
	s.poller.Start()
	log.Println("🔔 Notification poller started")
}

// Stop halts the background polling loop
func (s *NotificationService) Stop() {
	s.poller.Stop()
	log.Println("🛑 Notification poller stopped")
}

// Refresh forces an immediate reconcile pass. Returns notify.ErrPollInFlight
// when a pass is already running.
func (s *NotificationService) Refresh(ctx context.Context) error {
	return s.poller.Refresh(ctx)
}

// Feed returns the retained notification feed, newest first.
func (s *NotificationService) Feed() []notify.Notification {
	return s.tracker.Feed()
}

// UnreadCount returns the number of retained notifications.
func (s *NotificationService) UnreadCount() int {
	return s.tracker.UnreadCount()
}

// ClearFeed empties the feed without forgetting which complaints have been
// seen, so cleared items are not re-announced on the next pass.
func (s *NotificationService) ClearFeed() {
	s.tracker.ClearFeed()
}

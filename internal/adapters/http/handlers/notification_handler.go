package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"campus-complaintdesk/internal/core/notify"
	"campus-complaintdesk/internal/core/services"
	"campus-complaintdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// NotificationHandler handles admin notification endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GetFeed returns the retained notification feed
// @Summary Get notification feed
// @Description Get the retained new-complaint notifications, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) GetFeed(c *fiber.Ctx) error {
	feed := h.notificationService.Feed()
	return response.Success(c, "Notifications retrieved", fiber.Map{
		"notifications": feed,
		"unread_count":  len(feed),
	})
}

// Refresh forces an immediate reconcile pass
// @Summary Refresh notifications
// @Description Force an immediate check of the complaint collection
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /notifications/refresh [post]
func (h *NotificationHandler) Refresh(c *fiber.Ctx) error {
	if err := h.notificationService.Refresh(c.Context()); err != nil {
		if errors.Is(err, notify.ErrPollInFlight) {
			return response.Conflict(c, "A refresh is already in progress")
		}
		return response.InternalServerError(c, "Failed to refresh notifications")
	}

	feed := h.notificationService.Feed()
	return response.Success(c, "Notifications refreshed", fiber.Map{
		"notifications": feed,
		"unread_count":  len(feed),
	})
}

// Clear empties the notification feed
// @Summary Clear notification feed
// @Description Empty the feed; cleared complaints are not re-announced
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications [delete]
func (h *NotificationHandler) Clear(c *fiber.Ctx) error {
	h.notificationService.ClearFeed()
	return response.Success(c, "Notifications cleared", nil)
}

// Stream delivers new-complaint alerts over SSE
// @Summary Notification event stream
// @Description Server-sent events pushing fresh complaint alerts as they are detected
// @Tags Notifications
// @Produce text/event-stream
// @Security BearerAuth
// @Router /notifications/stream [get]
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	clientID := fmt.Sprintf("admin-%d-%d", userID, time.Now().UnixNano())

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		client := &services.SSEClient{
			ID:      clientID,
			UserID:  userID,
			Channel: make(chan services.SSEEvent, 50),
		}

		h.notificationService.Hub.Register(client)
		defer h.notificationService.Hub.Unregister(clientID)

		// Send initial connection event
		fmt.Fprintf(w, "event: connected\ndata: {\"client_id\":%q}\n\n", clientID)
		w.Flush()

		// Heartbeat ticker
		heartbeat := time.NewTicker(30 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case event, ok := <-client.Channel:
				if !ok {
					return
				}
				writeSSEEvent(w, event)
				w.Flush()

			case <-heartbeat.C:
				fmt.Fprintf(w, ": heartbeat\n\n")
				if err := w.Flush(); err != nil {
					log.Printf("📡 SSE client disconnected: %s", clientID)
					return
				}
			}
		}
	}))

	return nil
}

// writeSSEEvent writes a formatted SSE event to the writer
func writeSSEEvent(w *bufio.Writer, event services.SSEEvent) {
	fmt.Fprintf(w, "event: %s\n", event.Event)

	data, err := json.Marshal(event.Data)
	if err != nil {
		fmt.Fprintf(w, "data: {}\n\n")
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}

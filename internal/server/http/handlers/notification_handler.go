package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/catering/internal/domain/model"
	"github.com/polkiloo/catering/internal/feed"
	"github.com/polkiloo/catering/internal/server/http/dto"
)

const defaultHeartbeat = 15 * time.Second

// NotificationHandler manages notification endpoints including the live stream.
type NotificationHandler struct {
	facade    NotificationFacade
	heartbeat time.Duration
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(facade NotificationFacade) *NotificationHandler {
	return &NotificationHandler{facade: facade, heartbeat: defaultHeartbeat}
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	filter, ok := roleFilter(c)
	if !ok {
		return
	}
	items, err := h.facade.Notifications(c.Request.Context(), CurrentActor(c).UserID, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(items) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, toNotificationResponses(items))
}

// Unread handles GET /api/notifications/unread.
func (h *NotificationHandler) Unread(c *gin.Context) {
	filter, ok := roleFilter(c)
	if !ok {
		return
	}
	count, err := h.facade.UnreadCount(c.Request.Context(), CurrentActor(c).UserID, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadResponse{Unread: count})
}

// MarkRead handles POST /api/notifications/read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	filter, ok := roleFilter(c)
	if !ok {
		return
	}
	updated, err := h.facade.MarkAllRead(c.Request.Context(), CurrentActor(c).UserID, filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkReadResponse{Updated: updated})
}

// Stream handles GET /api/notifications/stream. Every change of the feed is
// sent as a "feed" event carrying the whole snapshot; a slow client only ever
// receives the latest one.
func (h *NotificationHandler) Stream(c *gin.Context) {
	filter, ok := roleFilter(c)
	if !ok {
		return
	}
	userID := CurrentActor(c).UserID

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	updates := make(chan feed.Snapshot, 1)
	done := make(chan error, 1)
	go func() {
		done <- h.facade.FollowFeed(ctx, userID, filter, func(s feed.Snapshot) {
			offerLatest(updates, s)
		})
	}()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case s := <-updates:
			c.SSEvent("feed", toFeedResponse(s))
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", "")
			return true
		case err := <-done:
			select {
			case s := <-updates:
				c.SSEvent("feed", toFeedResponse(s))
			default:
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				c.SSEvent("error", dto.ErrorResponse{Error: err.Error()})
			}
			return false
		case <-ctx.Done():
			return false
		}
	})
}

// offerLatest leaves s as the only pending value in mailbox.
func offerLatest(mailbox chan feed.Snapshot, s feed.Snapshot) {
	for {
		select {
		case mailbox <- s:
			return
		default:
		}
		select {
		case <-mailbox:
		default:
		}
	}
}

func toFeedResponse(s feed.Snapshot) dto.FeedResponse {
	return dto.FeedResponse{Items: toNotificationResponses(s.Items), Unread: s.Unread}
}

func toNotificationResponses(items []model.Notification) []dto.NotificationResponse {
	resp := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		resp = append(resp, dto.NotificationResponse{
			ID:        n.ID,
			OrderID:   n.OrderID,
			Role:      string(n.Role),
			Event:     string(n.Event),
			Title:     n.Title,
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
			Read:      n.Read,
		})
	}
	return resp
}

package handler

import (
	"io"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/auth"
	"github.com/fekuna/omnipos-picklist-service/internal/httpx"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/realtime"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultHeartbeat = 25 * time.Second

// EventsHandler streams the caller's store changes as Server-Sent Events.
type EventsHandler struct {
	hub       *realtime.Hub
	logger    logger.ZapLogger
	heartbeat time.Duration
}

func NewEventsHandler(hub *realtime.Hub, log logger.ZapLogger) *EventsHandler {
	return &EventsHandler{hub: hub, logger: log, heartbeat: defaultHeartbeat}
}

func (h *EventsHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/events", h.Stream)
}

func (h *EventsHandler) Stream(c *gin.Context) {
	storeID := auth.StoreID(c.Request.Context())
	if storeID == "" {
		httpx.Error(c, h.logger, apperr.Unauthorized("login required"))
		return
	}

	changes, cancel := h.hub.Subscribe(storeID)
	defer cancel()
	h.logger.Debug("event stream opened", zap.String("store_id", storeID))

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"store_id": storeID})
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case change, ok := <-changes:
			if !ok {
				return false
			}
			c.SSEvent("change", change)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
	h.logger.Debug("event stream closed", zap.String("store_id", storeID))
}

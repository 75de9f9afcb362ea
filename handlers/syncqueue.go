package handlers

import (
	"errors"
	"net/http"

	"fieldops/services/queue"
	syncsvc "fieldops/services/sync"
	"fieldops/utils"

	"github.com/gin-gonic/gin"
)

// SyncHandler exposes the offline queue and the manual drain trigger.
type SyncHandler struct {
	Queue  queue.QueueService
	Engine *syncsvc.Engine
}

// NewSyncHandler returns a handler bound to the queue and engine.
func NewSyncHandler(q queue.QueueService, engine *syncsvc.Engine) *SyncHandler {
	return &SyncHandler{Queue: q, Engine: engine}
}

// GetQueueHandler reports the pending backlog.
func (h *SyncHandler) GetQueueHandler(c *gin.Context) {
	items, err := h.Queue.Pending(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read queue", err.Error())
		return
	}

	type itemSummary struct {
		ID         int64  `json:"id"`
		OrderID    string `json:"orderId"`
		Technician string `json:"technician"`
		EnqueuedAt string `json:"enqueuedAt"`
	}
	summaries := make([]itemSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, itemSummary{
			ID:         item.ID,
			OrderID:    item.Payload.OrderID,
			Technician: item.Payload.Technician,
			EnqueuedAt: item.EnqueuedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"pending":  len(items),
		"items":    summaries,
		"draining": h.Engine.Draining(),
	})
}

// SyncNowHandler triggers a drain. A drain already in progress is reported
// as a conflict, not started twice.
func (h *SyncHandler) SyncNowHandler(c *gin.Context) {
	result, err := h.Engine.SyncNow(c.Request.Context())
	if err != nil {
		if errors.Is(err, syncsvc.ErrDrainInProgress) {
			utils.JSONError(c, http.StatusConflict, "drain already in progress", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "drain failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

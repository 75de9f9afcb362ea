package handlers

import (
	"net/http"
	"time"

	trackingRepo "fieldops/database/repository/tracking"
	"fieldops/models"
	"fieldops/services/location"
	"fieldops/utils"

	"github.com/gin-gonic/gin"
)

// TrackingHandler exposes device fix ingestion and the tracking views.
type TrackingHandler struct {
	Repo     trackingRepo.TrackingRepository
	Provider *location.PushProvider
}

// NewTrackingHandler returns a handler bound to the tracking collaborators.
func NewTrackingHandler(repo trackingRepo.TrackingRepository, provider *location.PushProvider) *TrackingHandler {
	return &TrackingHandler{Repo: repo, Provider: provider}
}

// deviceFix is the payload pushed by the device geolocation layer. Either a
// position or an error code is present.
type deviceFix struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Accuracy   float64    `json:"accuracy"`
	CapturedAt *time.Time `json:"capturedAt"`
	ErrorCode  string     `json:"errorCode"`
}

// OfferFixHandler ingests one device fix (or geolocation error).
func (h *TrackingHandler) OfferFixHandler(c *gin.Context) {
	var fix deviceFix
	if err := c.ShouldBindJSON(&fix); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid fix", err.Error())
		return
	}

	switch fix.ErrorCode {
	case "":
		sample := models.LocationSample{
			Latitude:       fix.Latitude,
			Longitude:      fix.Longitude,
			AccuracyMeters: fix.Accuracy,
		}
		if fix.CapturedAt != nil {
			sample.CapturedAt = *fix.CapturedAt
		}
		h.Provider.Offer(sample)
	case string(location.ReasonPermissionDenied):
		h.Provider.OfferError(location.ReasonPermissionDenied)
	case string(location.ReasonUnavailable):
		h.Provider.OfferError(location.ReasonUnavailable)
	default:
		h.Provider.OfferError(location.ReasonUnavailable)
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

// LiveHandler returns every technician's last known position.
func (h *TrackingHandler) LiveHandler(c *gin.Context) {
	positions, err := h.Repo.AllLive(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load live positions", err.Error())
		return
	}
	c.JSON(http.StatusOK, positions)
}

// HistoryHandler returns one technician's trail inside a time window,
// newest first. Defaults to the current day.
func (h *TrackingHandler) HistoryHandler(c *gin.Context) {
	technician := c.Param("technician")

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.Add(24*time.Hour - time.Nanosecond)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid from", err.Error())
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid to", err.Error())
			return
		}
		to = parsed
	}

	entries, err := h.Repo.HistoryRange(c.Request.Context(), technician, from, to)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load history", err.Error())
		return
	}
	c.JSON(http.StatusOK, entries)
}

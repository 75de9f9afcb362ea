package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Submission endpoints.
	SubmitHandler gin.HandlerFunc

	// Queue / sync endpoints.
	GetQueueHandler gin.HandlerFunc
	SyncNowHandler  gin.HandlerFunc

	// Tracking endpoints.
	OfferFixHandler gin.HandlerFunc
	LiveHandler     gin.HandlerFunc
	HistoryHandler  gin.HandlerFunc

	// Stats endpoints.
	RankingHandler  gin.HandlerFunc
	GetStatsHandler gin.HandlerFunc

	// Technician endpoints.
	SetTechnicianHandler gin.HandlerFunc
	GetTechnicianHandler gin.HandlerFunc
}

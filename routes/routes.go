package routes

import (
	"time"

	"fieldops/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSubmissionRoutes registers the report write path.
func RegisterSubmissionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/submissions")
	{
		api.POST("", hb.SubmitHandler)
	}
}

// RegisterQueueRoutes registers queue inspection and manual sync.
func RegisterQueueRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/queue", hb.GetQueueHandler)
	r.POST("/api/sync", hb.SyncNowHandler)
}

// RegisterLocationRoutes registers fix ingestion and the tracking views.
func RegisterLocationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/location")
	{
		api.POST("/fix", hb.OfferFixHandler)
		api.GET("/live", hb.LiveHandler)
		api.GET("/:technician/history", hb.HistoryHandler)
	}
}

// RegisterStatsRoutes registers the aggregate read endpoints.
func RegisterStatsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/stats")
	{
		api.GET("/ranking", hb.RankingHandler)
		api.GET("/:technician", hb.GetStatsHandler)
	}
}

// RegisterTechnicianRoutes registers the device identity endpoints.
func RegisterTechnicianRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/technician")
	{
		api.PUT("", hb.SetTechnicianHandler)
		api.GET("", hb.GetTechnicianHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/healthz", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSubmissionRoutes(r, hb)
	RegisterQueueRoutes(r, hb)
	RegisterLocationRoutes(r, hb)
	RegisterStatsRoutes(r, hb)
	RegisterTechnicianRoutes(r, hb)
	RegisterHealthRoute(r)
}

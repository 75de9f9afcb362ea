package handlers

import (
	"net/http"
	"strconv"

	statsRepo "fieldops/database/repository/stats"
	"fieldops/utils"

	"github.com/gin-gonic/gin"
)

// StatsHandler serves the aggregate counters maintained by the write path.
type StatsHandler struct {
	Repo statsRepo.StatsRepository
}

func NewStatsHandler(repo statsRepo.StatsRepository) *StatsHandler {
	return &StatsHandler{Repo: repo}
}

// RankingHandler lists technicians ordered by total delivered orders.
// Accepts an optional ?limit= query.
func (h *StatsHandler) RankingHandler(c *gin.Context) {
	limit := int64(0)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid limit", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	ranking, err := h.Repo.Ranking(c.Request.Context(), limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load ranking", err.Error())
		return
	}
	c.JSON(http.StatusOK, ranking)
}

// GetStatsHandler returns one technician's counters.
func (h *StatsHandler) GetStatsHandler(c *gin.Context) {
	technician := c.Param("technician")
	stats, err := h.Repo.GetByTechnician(c.Request.Context(), technician)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load stats", err.Error())
		return
	}
	if stats == nil {
		utils.JSONError(c, http.StatusNotFound, "no stats for technician", technician)
		return
	}
	c.JSON(http.StatusOK, stats)
}

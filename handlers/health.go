package handlers

import (
	"net/http"

	"fieldops/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last observed state of the backing services.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	redisHealthy := true
	for _, ok := range status.Redis {
		if !ok {
			redisHealthy = false
		}
	}
	if !status.Mongo || !redisHealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

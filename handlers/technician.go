package handlers

import (
	"net/http"
	"strings"

	"fieldops/database/local"
	orderRepo "fieldops/database/repository/order"
	"fieldops/services/location"
	"fieldops/utils"

	"github.com/gin-gonic/gin"
)

// TechnicianHandler manages the device's bound technician identity.
type TechnicianHandler struct {
	Local   *local.Store
	Orders  orderRepo.OrderRepository
	Tracker *location.Tracker
}

func NewTechnicianHandler(store *local.Store, orders orderRepo.OrderRepository, tracker *location.Tracker) *TechnicianHandler {
	return &TechnicianHandler{Local: store, Orders: orders, Tracker: tracker}
}

type setTechnicianRequest struct {
	Name string `json:"name"`
}

// SetTechnicianHandler binds the device to a technician. The identity is
// persisted locally so it survives restarts, and registered remotely on a
// best-effort basis so tracking documents have a parent.
func (h *TechnicianHandler) SetTechnicianHandler(c *gin.Context) {
	var req setTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", "name is required")
		return
	}

	if err := h.Local.SetTechnician(c.Request.Context(), name); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to persist technician", err.Error())
		return
	}
	h.Tracker.SetTechnician(name)

	if err := h.Orders.EnsureTechnician(c.Request.Context(), name); err != nil {
		// Remote registration retries on the next delivery; the local
		// binding already took effect.
		c.JSON(http.StatusOK, gin.H{"technician": name, "registered": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"technician": name, "registered": true})
}

// GetTechnicianHandler returns the technician currently bound to the device.
func (h *TechnicianHandler) GetTechnicianHandler(c *gin.Context) {
	name, err := h.Local.Technician(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read technician", err.Error())
		return
	}
	if name == "" {
		utils.JSONError(c, http.StatusNotFound, "no technician bound", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"technician": name})
}

package handlers

import (
	"errors"
	"net/http"

	"fieldops/services/location"
	"fieldops/services/submission"
	"fieldops/utils"

	"github.com/gin-gonic/gin"
)

// SubmissionHandler exposes the work-order submission endpoint.
type SubmissionHandler struct {
	Service submission.SubmissionService
}

// NewSubmissionHandler returns a handler bound to the given service.
func NewSubmissionHandler(svc submission.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{Service: svc}
}

// SubmitHandler accepts a validated work-order report. The response status
// tells the UI whether the report reached the remote store or was saved
// offline.
func (h *SubmissionHandler) SubmitHandler(c *gin.Context) {
	var input submission.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	status, err := h.Service.Submit(c.Request.Context(), input)
	if err != nil {
		var validation submission.ValidationError
		if errors.As(err, &validation) {
			utils.JSONError(c, http.StatusBadRequest, "validation failed", validation.Error())
			return
		}
		var unavailable location.UnavailableError
		if errors.As(err, &unavailable) {
			utils.JSONError(c, http.StatusConflict, "location required", unavailable.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "submission failed", err.Error())
		return
	}

	code := http.StatusCreated
	if status == submission.StatusQueued {
		code = http.StatusAccepted
	}
	c.JSON(code, gin.H{"status": status})
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"optimeet/meethub/internal/service"
	"optimeet/meethub/pkg/response"
)

type ReadinessHandler struct {
	readinessService service.ReadinessService
}

func NewReadinessHandler(readinessService service.ReadinessService) *ReadinessHandler {
	return &ReadinessHandler{readinessService: readinessService}
}

type SetReadyRequest struct {
	IsReady *bool `json:"is_ready" binding:"required"`
}

// SetReady flips the caller's done-editing flag.
func (h *ReadinessHandler) SetReady(c *gin.Context) {
	caller, err := callerName(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req SetReadyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	user, err := h.readinessService.SetReady(c.Request.Context(), caller, *req.IsReady)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "set ready failed")
		}
		return
	}

	response.Success(c, user)
}

// Resolved reports whether every contributor to the session has
// signaled readiness. Callers poll this on whatever cadence they like;
// the answer is recomputed each time.
func (h *ReadinessHandler) Resolved(c *gin.Context) {
	resolved, err := h.readinessService.IsSessionResolved(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.InternalError(c, "resolve readiness failed")
		return
	}

	response.Success(c, gin.H{"resolved": resolved})
}

package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"optimeet/meethub/internal/service"
	"optimeet/meethub/pkg/response"
)

type AvailabilityHandler struct {
	availabilityService service.AvailabilityService
}

func NewAvailabilityHandler(availabilityService service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

type AddIntervalRequest struct {
	SessionCode string `json:"session_code" binding:"required"`
	UserName    string `json:"user_name" binding:"required"`
	DayOfWeek   *int   `json:"day_of_week" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
}

func (h *AvailabilityHandler) Add(c *gin.Context) {
	caller, err := callerName(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	var req AddIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	interval, err := h.availabilityService.Add(c.Request.Context(), caller, service.AddIntervalInput{
		SessionCode: req.SessionCode,
		UserName:    req.UserName,
		DayOfWeek:   *req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotSameUser):
			response.Forbidden(c, err.Error())
		case errors.Is(err, service.ErrInvalidDayOfWeek),
			errors.Is(err, service.ErrInvalidTimeFormat),
			errors.Is(err, service.ErrInvalidTimeRange),
			errors.Is(err, service.ErrInvalidSessionCode):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrSessionNotFound),
			errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrDuplicateInterval):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, "add interval failed")
		}
		return
	}

	response.Success(c, interval)
}

// ListOwn returns the caller's intervals across all sessions.
func (h *AvailabilityHandler) ListOwn(c *gin.Context) {
	caller, err := callerName(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	intervals, err := h.availabilityService.ListByUser(c.Request.Context(), caller)
	if err != nil {
		response.InternalError(c, "list intervals failed")
		return
	}

	response.Success(c, intervals)
}

func (h *AvailabilityHandler) ListBySession(c *gin.Context) {
	intervals, err := h.availabilityService.ListBySession(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.InternalError(c, "list session intervals failed")
		return
	}

	response.Success(c, intervals)
}

func (h *AvailabilityHandler) Remove(c *gin.Context) {
	caller, err := callerName(c)
	if err != nil {
		response.Unauthorized(c, "invalid user context")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid interval id")
		return
	}

	if err := h.availabilityService.Remove(c.Request.Context(), id, caller); err != nil {
		switch {
		case errors.Is(err, service.ErrIntervalNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrNotIntervalOwner):
			response.Forbidden(c, err.Error())
		case errors.Is(err, service.ErrSessionReadOnly):
			response.Conflict(c, err.Error())
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "remove interval failed")
		}
		return
	}

	response.Success(c, nil)
}

// RemoveAny is the privileged delete path: no ownership check.
func (h *AvailabilityHandler) RemoveAny(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid interval id")
		return
	}

	if err := h.availabilityService.RemoveAny(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrIntervalNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "remove interval failed")
		}
		return
	}

	response.Success(c, nil)
}

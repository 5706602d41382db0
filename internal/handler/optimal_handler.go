package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"optimeet/meethub/internal/service"
	"optimeet/meethub/pkg/response"
)

// defaultMinDurationMinutes applies when the query parameter is absent.
const defaultMinDurationMinutes = 60

type OptimalTimeHandler struct {
	optimalService service.OptimalTimeService
}

func NewOptimalTimeHandler(optimalService service.OptimalTimeService) *OptimalTimeHandler {
	return &OptimalTimeHandler{optimalService: optimalService}
}

func (h *OptimalTimeHandler) Compute(c *gin.Context) {
	minDuration := defaultMinDurationMinutes
	if raw := c.Query("min_duration"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "min_duration must be an integer")
			return
		}
		minDuration = parsed
	}

	candidates, err := h.optimalService.Compute(c.Request.Context(), c.Param("code"), minDuration)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMinDuration),
			errors.Is(err, service.ErrInvalidSessionCode):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "compute optimal times failed")
		}
		return
	}

	response.Success(c, candidates)
}

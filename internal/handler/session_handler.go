package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"optimeet/meethub/internal/service"
	"optimeet/meethub/pkg/response"
)

type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) Create(c *gin.Context) {
	session, err := h.sessionService.Create(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeGenerationExhausted):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, "create session failed")
		}
		return
	}

	response.Success(c, session)
}

func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessionService.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSessionCode):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "resolve session failed")
		}
		return
	}

	response.Success(c, session)
}

func (h *SessionHandler) Extend(c *gin.Context) {
	session, err := h.sessionService.Extend(c.Request.Context(), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSessionCode):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrSessionNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "extend session failed")
		}
		return
	}

	response.Success(c, session)
}

func (h *SessionHandler) PurgeExpired(c *gin.Context) {
	deleted, err := h.sessionService.PurgeExpired(c.Request.Context())
	if err != nil {
		response.InternalError(c, "purge expired sessions failed")
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

package api

import (
	"errors"
	"net/http"

	reqdto "clinic-parking/internal/handler/dto/request"
	resdto "clinic-parking/internal/handler/dto/response"
	"clinic-parking/internal/handler/httperr"
	"clinic-parking/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ExtendHandler struct {
	extend usecase.ExtendCommands
}

func NewExtendHandler(extend usecase.ExtendCommands) *ExtendHandler {
	return &ExtendHandler{extend: extend}
}

// GetInfo backs the self-service extension page reached from the SMS link.
// The token rides in the query string; without a valid one the session's
// existence is not confirmed or denied.
func (h *ExtendHandler) GetInfo(c *gin.Context) {
	sessionID, token, ok := h.extractLink(c)
	if !ok {
		return
	}

	info, err := h.extend.GetInfo(c.Request.Context(), sessionID, token)
	if err != nil {
		h.abortExtendError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.NewExtensionInfoResponse(info))
}

func (h *ExtendHandler) RequestExtension(c *gin.Context) {
	sessionID, token, ok := h.extractLink(c)
	if !ok {
		return
	}

	var req reqdto.ExtendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	checkout, err := h.extend.RequestExtension(c.Request.Context(), sessionID, token, req.Hours)
	if err != nil {
		h.abortExtendError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.ExtensionCheckoutResponse{RedirectURL: checkout.URL})
}

// AdminExtend bumps an active session by a fixed increment, for front-desk
// staff. Admin-authenticated, no extension token involved.
func (h *ExtendHandler) AdminExtend(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid session id", nil)
		return
	}

	expiresAt, err := h.extend.AdminExtend(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSessionNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Session not found", nil)
		case errors.Is(err, usecase.ErrSessionNotExtendable):
			httperr.AbortWithError(c, http.StatusConflict, err, "Session is not active", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.AdminExtendResponse{ExpiresAt: expiresAt})
}

func (h *ExtendHandler) extractLink(c *gin.Context) (uuid.UUID, string, bool) {
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid session id", nil)
		return uuid.Nil, "", false
	}
	token := c.Query("token")
	if token == "" {
		httperr.AbortWithError(c, http.StatusForbidden, usecase.ErrInvalidExtensionToken, "Invalid extension link", nil)
		return uuid.Nil, "", false
	}
	return sessionID, token, true
}

func (h *ExtendHandler) abortExtendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidExtensionToken):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Invalid extension link", nil)
	case errors.Is(err, usecase.ErrSessionNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Session not found", nil)
	case errors.Is(err, usecase.ErrExpiredTooLong):
		httperr.AbortWithError(c, http.StatusConflict, err, "Session expired too long ago to extend", nil)
	case errors.Is(err, usecase.ErrSessionNotExtendable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Session cannot be extended", nil)
	case errors.Is(err, usecase.ErrInvalidHours):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Hours must be between 1 and 12", nil)
	case errors.Is(err, usecase.ErrCheckoutFailed):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment provider unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

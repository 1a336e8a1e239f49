package api

import (
	"errors"
	"net/http"

	reqdto "clinic-parking/internal/handler/dto/request"
	resdto "clinic-parking/internal/handler/dto/response"
	"clinic-parking/internal/handler/httperr"
	"clinic-parking/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth usecase.AuthCommands
}

func NewAuthHandler(auth usecase.AuthCommands) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAuthenticationFailed):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid email or password", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: result.Token,
		Email:       result.Email,
		Role:        result.Role,
	})
}

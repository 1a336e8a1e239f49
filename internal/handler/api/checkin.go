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

type CheckinHandler struct {
	checkin usecase.CheckinCommands
}

func NewCheckinHandler(checkin usecase.CheckinCommands) *CheckinHandler {
	return &CheckinHandler{checkin: checkin}
}

func (h *CheckinHandler) CheckIn(c *gin.Context) {
	var req reqdto.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.checkin.CheckIn(c.Request.Context(), req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPlate):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid license plate", nil)
		case errors.Is(err, usecase.ErrInvalidHours):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Hours must be between 1 and 12", nil)
		case errors.Is(err, usecase.ErrSpotNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Spot not found", nil)
		case errors.Is(err, usecase.ErrSpotInactive):
			httperr.AbortWithError(c, http.StatusConflict, err, "Spot is closed", nil)
		case errors.Is(err, usecase.ErrSpotOccupied):
			httperr.AbortWithError(c, http.StatusConflict, err, "Spot is already occupied", nil)
		case errors.Is(err, usecase.ErrInvalidAccessCode):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Invalid access code and no valid permit", nil)
		case errors.Is(err, usecase.ErrCheckoutFailed):
			httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment provider unavailable", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.NewCheckinResponse(result))
}

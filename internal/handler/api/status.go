package api

import (
	"net/http"

	resdto "clinic-parking/internal/handler/dto/response"
	"clinic-parking/internal/handler/httperr"
	"clinic-parking/internal/usecase"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	queries usecase.LotQueries
}

func NewStatusHandler(queries usecase.LotQueries) *StatusHandler {
	return &StatusHandler{queries: queries}
}

// Status is the public availability listing shown on the lot's landing page.
func (h *StatusHandler) Status(c *gin.Context) {
	rows, err := h.queries.SpotStatus(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.NewLotStatusResponse(rows))
}

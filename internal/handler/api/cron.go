package api

import (
	"net/http"

	resdto "clinic-parking/internal/handler/dto/response"
	"clinic-parking/internal/handler/httperr"
	"clinic-parking/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CronHandler struct {
	notify usecase.NotifyCommands
}

func NewCronHandler(notify usecase.NotifyCommands) *CronHandler {
	return &CronHandler{notify: notify}
}

// CheckExpiring runs one reminder sweep. Exposed over HTTP so an external
// scheduler can drive it; the in-process cron calls the same usecase.
func (h *CronHandler) CheckExpiring(c *gin.Context) {
	report, err := h.notify.Tick(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Expiry sweep failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.NewTickReportResponse(report))
}

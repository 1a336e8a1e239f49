package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "clinic-parking/internal/handler/dto/request"
	resdto "clinic-parking/internal/handler/dto/response"
	"clinic-parking/internal/handler/httperr"
	"clinic-parking/internal/usecase"
	"clinic-parking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin    usecase.AdminCommands
	queries  usecase.LotQueries
	opConfig usecase.OpConfigProvider
}

func NewAdminHandler(admin usecase.AdminCommands, queries usecase.LotQueries, opConfig usecase.OpConfigProvider) *AdminHandler {
	return &AdminHandler{admin: admin, queries: queries, opConfig: opConfig}
}

func (h *AdminHandler) GetConfig(c *gin.Context) {
	cfg, err := h.opConfig.Snapshot(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rateCents":        cfg.RateCents,
		"weekendRateCents": cfg.WeekendRateCents,
		"durationMinutes":  cfg.DurationMinutes,
		"graceMinutes":     cfg.GraceMinutes,
		"accessCode":       cfg.AccessCode,
	})
}

func (h *AdminHandler) ListSessions(c *gin.Context) {
	filter := shared.SessionFilter{
		Status:     c.Query("status"),
		PlateQuery: c.Query("plate"),
		SpotLabel:  c.Query("spot"),
	}

	rows, err := h.queries.Sessions(c.Request.Context(), filter)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": resdto.NewAdminSessions(rows)})
}

func (h *AdminHandler) ListPermits(c *gin.Context) {
	rows, err := h.queries.Permits(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permits": resdto.NewPermits(rows)})
}

func (h *AdminHandler) CreatePermits(c *gin.Context) {
	var req reqdto.PermitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	ids, err := h.admin.CreatePermits(c.Request.Context(), req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPlate):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid license plate", nil)
		case errors.Is(err, usecase.ErrInvalidPermitWindow):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Permit window is invalid", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	created := make([]string, 0, len(ids))
	for _, id := range ids {
		created = append(created, id.String())
	}
	c.JSON(http.StatusCreated, gin.H{"created": created})
}

func (h *AdminHandler) SetSpotActive(c *gin.Context) {
	var req reqdto.SpotActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.admin.SetSpotActive(c.Request.Context(), c.Param("label"), *req.Active); err != nil {
		switch {
		case errors.Is(err, usecase.ErrSpotNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Spot not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) UpdateConfig(c *gin.Context) {
	var req reqdto.ConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.admin.UpdateConfig(c.Request.Context(), req.Values); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidConfigKey):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown config key", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// Revenue reports daily totals for the requested range, defaulting to the
// last 30 days.
func (h *AdminHandler) Revenue(c *gin.Context) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid from date", nil)
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid to date", nil)
			return
		}
		// Inclusive end date
		to = parsed.AddDate(0, 0, 1)
	}

	rows, err := h.queries.Revenue(c.Request.Context(), from, to)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue": resdto.NewRevenue(rows)})
}

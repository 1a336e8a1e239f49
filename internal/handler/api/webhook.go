package api

import (
	"errors"
	"net/http"

	"clinic-parking/internal/handler/httperr"
	"clinic-parking/internal/infra/stripecheckout"
	"clinic-parking/internal/usecase"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	decoder   *stripecheckout.WebhookDecoder
	reconcile usecase.ReconcileCommands
}

func NewWebhookHandler(decoder *stripecheckout.WebhookDecoder, reconcile usecase.ReconcileCommands) *WebhookHandler {
	return &WebhookHandler{decoder: decoder, reconcile: reconcile}
}

// HandleStripe absorbs provider events. Anything durably absorbed returns
// 200 so the provider stops redelivering; a transient failure returns 500
// and relies on redelivery.
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Unreadable payload", nil)
		return
	}

	ref, intent, ok, err := h.decoder.Decode(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, stripecheckout.ErrInvalidSignature):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Signature verification failed", nil)
		default:
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Malformed event", nil)
		}
		return
	}
	if !ok {
		// Event type we don't act on; acknowledged so it is not redelivered.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	result, err := h.reconcile.Reconcile(c.Request.Context(), ref, intent)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Reconciliation failed", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true, "outcome": result.Outcome})
}

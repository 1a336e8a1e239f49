package stripecheckout

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"clinic-parking/internal/pkg/errs"
	"clinic-parking/internal/usecase"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	ErrInvalidSignature = errs.New("webhook signature verification failed")
	ErrMalformedEvent   = errs.New("malformed webhook event")
)

// WebhookDecoder verifies event signatures and translates completed
// checkouts into intents. Decoding happens once, here; everything past this
// boundary works with typed intents.
type WebhookDecoder struct {
	signingSecret string
}

func NewWebhookDecoder(signingSecret string) *WebhookDecoder {
	return &WebhookDecoder{signingSecret: signingSecret}
}

// Decode returns the checkout reference and intent for a completed checkout.
// ok=false means the event is validly signed but not ours to act on: an
// event type this service ignores, or a completed checkout whose metadata
// we did not write (another product on the same Stripe account, or mangled
// metadata). Those must be acknowledged, not erred on, or the provider
// redelivers forever. An error is reserved for events we cannot trust at
// all: bad signature or an undecodable payload.
func (d *WebhookDecoder) Decode(payload []byte, signature string) (ref string, intent usecase.CheckoutIntent, ok bool, err error) {
	event, err := webhook.ConstructEvent(payload, signature, d.signingSecret)
	if err != nil {
		return "", nil, false, errs.Mark(err, ErrInvalidSignature)
	}

	if event.Type != "checkout.session.completed" {
		return "", nil, false, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return "", nil, false, errs.Mark(err, ErrMalformedEvent)
	}

	intent, known := intentFromMetadata(session.Metadata)
	if !known {
		slog.Warn("completed checkout with unrecognized metadata, acknowledging without action",
			"checkout_ref", session.ID, "metadata_type", session.Metadata["type"])
		return "", nil, false, nil
	}
	return session.ID, intent, true, nil
}

func intentFromMetadata(meta map[string]string) (usecase.CheckoutIntent, bool) {
	switch meta["type"] {
	case "extension":
		sessionID, err := uuid.Parse(meta["sessionId"])
		if err != nil {
			return nil, false
		}
		hours, err := strconv.Atoi(meta["hours"])
		if err != nil || hours <= 0 {
			return nil, false
		}
		return usecase.ExtensionIntent{SessionID: sessionID, Hours: hours}, true

	case "checkin":
		if meta["plate"] == "" || meta["spotLabel"] == "" {
			return nil, false
		}
		durationMinutes, err := strconv.Atoi(meta["durationMinutes"])
		if err != nil || durationMinutes <= 0 {
			return nil, false
		}
		return usecase.CheckinIntent{
			Plate:           meta["plate"],
			SpotLabel:       meta["spotLabel"],
			DurationMinutes: durationMinutes,
		}, true

	default:
		return nil, false
	}
}

package response

import (
	"time"

	"clinic-parking/internal/usecase"
)

type ExtensionInfoResponse struct {
	SessionID string     `json:"sessionId"`
	Spot      string     `json:"spot"`
	Plate     string     `json:"plate"`
	ExpiresAt *time.Time `json:"expiresAt"`
	RateCents int64      `json:"rateCents"`
	IsWeekend bool       `json:"isWeekend"`
}

func NewExtensionInfoResponse(info *usecase.ExtensionInfo) ExtensionInfoResponse {
	return ExtensionInfoResponse{
		SessionID: info.SessionID.String(),
		Spot:      info.SpotLabel,
		Plate:     info.Plate,
		ExpiresAt: info.ExpiresAt,
		RateCents: info.RateCents,
		IsWeekend: info.IsWeekend,
	}
}

type ExtensionCheckoutResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

type AdminExtendResponse struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

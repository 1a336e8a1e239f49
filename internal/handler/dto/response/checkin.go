package response

import (
	"time"

	"clinic-parking/internal/usecase"
)

type CheckinResponse struct {
	Approved    bool       `json:"approved"`
	Message     string     `json:"message,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	RedirectURL string     `json:"redirectUrl,omitempty"`
}

func NewCheckinResponse(r *usecase.CheckinResult) CheckinResponse {
	return CheckinResponse{
		Approved:    r.Approved,
		Message:     r.Message,
		ExpiresAt:   r.ExpiresAt,
		RedirectURL: r.RedirectURL,
	}
}

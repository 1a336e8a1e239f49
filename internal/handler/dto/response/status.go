package response

import (
	"time"

	"clinic-parking/internal/usecase/shared"
)

type SpotStatus struct {
	Label     string     `json:"label"`
	IsActive  bool       `json:"isActive"`
	Occupied  bool       `json:"occupied"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type LotStatusResponse struct {
	Spots     []SpotStatus `json:"spots"`
	Available int          `json:"available"`
}

func NewLotStatusResponse(rows []shared.SpotStatusRow) LotStatusResponse {
	resp := LotStatusResponse{Spots: make([]SpotStatus, 0, len(rows))}
	for _, r := range rows {
		resp.Spots = append(resp.Spots, SpotStatus{
			Label:     r.Label,
			IsActive:  r.IsActive,
			Occupied:  r.Occupied,
			ExpiresAt: r.ExpiresAt,
		})
		if r.IsActive && !r.Occupied {
			resp.Available++
		}
	}
	return resp
}

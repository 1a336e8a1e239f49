package response

import (
	"time"

	"clinic-parking/internal/usecase"
	"clinic-parking/internal/usecase/shared"
)

type AdminSession struct {
	ID         string     `json:"id"`
	Status     string     `json:"status"`
	Origin     string     `json:"origin"`
	StartedAt  time.Time  `json:"startedAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	Plate      string     `json:"plate"`
	OwnerEmail *string    `json:"ownerEmail,omitempty"`
	OwnerPhone *string    `json:"ownerPhone,omitempty"`
	Spot       string     `json:"spot"`
}

func NewAdminSessions(rows []shared.AdminSessionRow) []AdminSession {
	out := make([]AdminSession, 0, len(rows))
	for _, r := range rows {
		out = append(out, AdminSession{
			ID:         r.ID.String(),
			Status:     r.Status,
			Origin:     r.Origin,
			StartedAt:  r.StartedAt,
			ExpiresAt:  r.ExpiresAt,
			Notes:      r.Notes,
			Plate:      r.Plate,
			OwnerEmail: r.OwnerEmail,
			OwnerPhone: r.OwnerPhone,
			Spot:       r.SpotLabel,
		})
	}
	return out
}

type Permit struct {
	ID        string    `json:"id"`
	Plate     string    `json:"plate"`
	Kind      string    `json:"kind"`
	ValidFrom time.Time `json:"validFrom"`
	ValidTo   time.Time `json:"validTo"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewPermits(rows []shared.PermitRow) []Permit {
	out := make([]Permit, 0, len(rows))
	for _, r := range rows {
		out = append(out, Permit{
			ID:        r.ID.String(),
			Plate:     r.Plate,
			Kind:      r.Kind,
			ValidFrom: r.ValidFrom,
			ValidTo:   r.ValidTo,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

type RevenueDay struct {
	Day        string `json:"day"`
	TotalCents int64  `json:"totalCents"`
	Payments   int64  `json:"payments"`
}

func NewRevenue(rows []shared.RevenueRow) []RevenueDay {
	out := make([]RevenueDay, 0, len(rows))
	for _, r := range rows {
		out = append(out, RevenueDay{
			Day:        r.Day.Format("2006-01-02"),
			TotalCents: r.TotalCents,
			Payments:   r.Payments,
		})
	}
	return out
}

type TickReportResponse struct {
	Scanned int `json:"scanned"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

func NewTickReportResponse(r *usecase.TickReport) TickReportResponse {
	return TickReportResponse{Scanned: r.Scanned, Sent: r.Sent, Failed: r.Failed}
}

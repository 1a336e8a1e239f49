package request

import (
	"clinic-parking/internal/usecase"
)

type CheckinRequest struct {
	Plate      string  `json:"plate" binding:"required"`
	Spot       string  `json:"spot" binding:"required"`
	Mode       string  `json:"mode" binding:"required,oneof=free_access paid"`
	AccessCode string  `json:"accessCode"`
	Hours      int     `json:"hours"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
}

func (r CheckinRequest) ToParams() usecase.CheckinParams {
	return usecase.CheckinParams{
		Plate:      r.Plate,
		Email:      r.Email,
		Phone:      r.Phone,
		SpotLabel:  r.Spot,
		Mode:       usecase.AccessMode(r.Mode),
		AccessCode: r.AccessCode,
		Hours:      r.Hours,
	}
}

package request

import (
	"time"

	"clinic-parking/internal/usecase"
)

type PermitRequest struct {
	Plates    []string  `json:"plates" binding:"required,min=1,dive,required"`
	Kind      string    `json:"kind" binding:"required,oneof=staff patient vendor"`
	ValidFrom time.Time `json:"validFrom" binding:"required"`
	ValidTo   time.Time `json:"validTo" binding:"required"`
}

func (r PermitRequest) ToParams() usecase.PermitParams {
	return usecase.PermitParams{
		Plates:    r.Plates,
		Kind:      r.Kind,
		ValidFrom: r.ValidFrom,
		ValidTo:   r.ValidTo,
	}
}

type SpotActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type ConfigUpdateRequest struct {
	Values map[string]string `json:"values" binding:"required,min=1"`
}

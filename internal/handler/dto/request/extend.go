package request

type ExtendRequest struct {
	Hours int `json:"hours" binding:"required,min=1,max=12"`
}

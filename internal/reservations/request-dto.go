package reservations

type CreateReservationRequest struct {
	SpaceID   string `json:"space_id" binding:"required,uuid"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	PromoCode string `json:"promo_code"`
}

type ListFilters struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

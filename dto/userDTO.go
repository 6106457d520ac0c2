package dto

type UpdateProfileRequest struct {
	Nickname string  `json:"nickname"`
	PhotoURL *string `json:"photoURL"`
}

type ProfileResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Nickname    string `json:"nickname"`
	PhotoURL    string `json:"photoURL"`
	Email       string `json:"email"`
	CreatedAt   string `json:"createdAt"`
}

type CapacityRequest struct {
	WeeklyCapacity *float64 `json:"weeklyCapacity" binding:"required"`
}

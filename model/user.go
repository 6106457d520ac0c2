package model

import "time"

// Identity is what the identity provider tells us about the caller.
type Identity struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

// UserProfile is stored at users/{uid}.
type UserProfile struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Nickname    string    `json:"nickname,omitempty"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Settings struct {
	WeeklyCapacity float64 `json:"weeklyCapacity"`
}

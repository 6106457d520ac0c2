package model

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of the HMAC access tokens accepted in hmac mode.
type AccessClaims struct {
	UserID  string `json:"userId"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts the claims into the caller identity.
func (c AccessClaims) Identity() Identity {
	uid := c.UserID
	if uid == "" {
		uid = c.Subject
	}
	return Identity{
		UserID:      uid,
		DisplayName: c.Name,
		Email:       c.Email,
		PhotoURL:    c.Picture,
	}
}

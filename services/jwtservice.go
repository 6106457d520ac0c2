package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/auth"
	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"

	"lifedashboard/model"
)

const tokenIssuer = "lifedashboard"

var ErrInvalidToken = errors.New("token is expired or invalid")

// TokenVerifier turns a bearer token into the caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (model.Identity, error)
}

// HMACVerifier accepts HS256 access tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(ctx context.Context, tokenString string) (model.Identity, error) {
	claims := &model.AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Identity{}, ErrInvalidToken
	}
	who := claims.Identity()
	if who.UserID == "" {
		return model.Identity{}, ErrInvalidToken
	}
	return who, nil
}

// CreateAccessToken signs an HS256 token for who. Used by tooling and tests
// when the server runs in hmac mode.
func CreateAccessToken(secret string, who model.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &model.AccessClaims{
		UserID:  who.UserID,
		Email:   who.Email,
		Name:    who.DisplayName,
		Picture: who.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   who.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// FirebaseVerifier accepts Firebase Authentication ID tokens.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, tokenString string) (model.Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, tokenString)
	if err != nil {
		return model.Identity{}, ErrInvalidToken
	}
	claim := func(name string) string {
		s, _ := token.Claims[name].(string)
		return s
	}
	return model.Identity{
		UserID:      token.UID,
		DisplayName: claim("name"),
		Email:       claim("email"),
		PhotoURL:    claim("picture"),
	}, nil
}

type oidcClaims struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Picture           string `json:"picture"`
	jwt.RegisteredClaims
}

// JWKSVerifier accepts tokens from an external OpenID provider, checking
// signatures against its published key set.
type JWKSVerifier struct {
	jwks     *keyfunc.JWKS
	issuer   string
	audience string
}

// NewJWKSVerifier fetches the key set once and keeps refreshing it in the background.
func NewJWKSVerifier(jwksURL, issuer, audience string) (*JWKSVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:  time.Hour,
		RefreshRateLimit: 5 * time.Minute,
		RefreshTimeout:   10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	return &JWKSVerifier{jwks: jwks, issuer: issuer, audience: audience}, nil
}

func (v *JWKSVerifier) Verify(ctx context.Context, tokenString string) (model.Identity, error) {
	opts := []jwt.ParserOption{jwt.WithLeeway(30 * time.Second)}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &oidcClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc, opts...)
	if err != nil || !token.Valid || claims.Subject == "" {
		return model.Identity{}, ErrInvalidToken
	}
	name := claims.Name
	if name == "" {
		name = claims.PreferredUsername
	}
	return model.Identity{
		UserID:      claims.Subject,
		DisplayName: name,
		Email:       claims.Email,
		PhotoURL:    claims.Picture,
	}, nil
}

func (v *JWKSVerifier) Close() {
	v.jwks.EndBackground()
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lifedashboard/model"
)

func TestHMACVerifier(t *testing.T) {
	v := NewHMACVerifier("secret")
	ctx := context.Background()

	token, err := CreateAccessToken("secret", alice, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	who, err := v.Verify(ctx, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if who != alice {
		t.Errorf("identity = %+v, want %+v", who, alice)
	}

	wrongKey, _ := CreateAccessToken("other", alice, time.Hour)
	expired, _ := CreateAccessToken("secret", alice, -time.Minute)
	noUser, _ := CreateAccessToken("secret", model.Identity{}, time.Hour)
	for name, tok := range map[string]string{"wrong key": wrongKey, "expired": expired, "no user": noUser, "garbage": "abc.def.ghi"} {
		if _, err := v.Verify(ctx, tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestHMACVerifierRejectsOtherAlgorithms(t *testing.T) {
	claims := &model.AccessClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewHMACVerifier("secret").Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg none accepted: %v", err)
	}
}

func TestAccessClaimsFallBackToSubject(t *testing.T) {
	c := model.AccessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "sub-1"}}
	if got := c.Identity().UserID; got != "sub-1" {
		t.Errorf("UserID = %q", got)
	}
}

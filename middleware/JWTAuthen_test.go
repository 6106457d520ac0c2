package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"lifedashboard/model"
	"lifedashboard/services"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AccessTokenMiddleware(services.NewHMACVerifier("secret")), func(c *gin.Context) {
		who := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"userId": c.MustGet("userId"), "email": who.Email})
	})
	return r
}

func TestAccessTokenMiddleware(t *testing.T) {
	r := newTestRouter()
	who := model.Identity{UserID: "u1", Email: "a@example.com"}
	valid, err := services.CreateAccessToken("secret", who, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	forged, _ := services.CreateAccessToken("nope", who, time.Hour)

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"bearer", "Bearer " + valid, "", http.StatusOK},
		{"lowercase scheme", "bearer " + valid, "", http.StatusOK},
		{"query token", "", valid, http.StatusOK},
		{"wrong scheme", "Basic " + valid, "", http.StatusUnauthorized},
		{"forged", "Bearer " + forged, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/me"
			if tt.query != "" {
				url += "?access_token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

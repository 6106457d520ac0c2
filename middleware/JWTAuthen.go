package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"lifedashboard/model"
	"lifedashboard/services"
)

const identityKey = "identity"

// AccessTokenMiddleware verifies the bearer token and stores the caller
// identity on the context. EventSource clients cannot set headers, so the
// token may also come from the access_token query parameter.
func AccessTokenMiddleware(verifier services.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Authorization header is missing"})
			return
		}

		who, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "Token is expired or invalid"})
			return
		}
		if who.UserID == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Invalid userId in token claims"})
			return
		}

		c.Set("userId", who.UserID)
		c.Set(identityKey, who)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.Request.Header.Get("Authorization")
	if header == "" {
		return c.Query("access_token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// CurrentIdentity returns the identity set by AccessTokenMiddleware.
func CurrentIdentity(c *gin.Context) model.Identity {
	who, _ := c.MustGet(identityKey).(model.Identity)
	return who
}

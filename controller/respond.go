package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifedashboard/services"
)

// RespondError writes the status matching err. Store failures are already
// logged by the services, so the client only gets a generic message.
func RespondError(c *gin.Context, err error, action string) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotMember), errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

func BadInput(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
}

// BindOptionalJSON binds the body when there is one. Empty bodies leave obj untouched.
func BindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		BadInput(c)
		return false
	}
	return true
}

// Stream relays updates as server-sent events until the client goes away.
// A nil update means the document was deleted and ends the stream.
func Stream[T any](c *gin.Context, updates <-chan *T, render func(*T) interface{}) {
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case v, ok := <-updates:
			if !ok {
				return false
			}
			if v == nil {
				c.SSEvent("deleted", gin.H{})
				return false
			}
			c.SSEvent("update", render(v))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lifedashboard/services"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrTitleRequired, http.StatusBadRequest},
		{services.ErrConfirmationRequired, http.StatusBadRequest},
		{services.ErrNotMember, http.StatusForbidden},
		{services.ErrNotOwner, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", services.ErrNotFound), http.StatusNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		RespondError(c, tt.err, "save project")
		if w.Code != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.want)
		}
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondError(c, errors.New("secret detail"), "save project")
	if body := w.Body.String(); body != `{"error":"Failed to save project"}` {
		t.Errorf("500 body leaks detail: %s", body)
	}
}

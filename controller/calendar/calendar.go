package calendar

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lifedashboard/controller"
	"lifedashboard/middleware"
	"lifedashboard/model"
	"lifedashboard/services"
)

func CalendarController(router *gin.Engine, auth gin.HandlerFunc, calendar *services.CalendarService) {
	router.GET("/calendar", auth, func(c *gin.Context) {
		GetCalendar(c, calendar)
	})
}

// GetCalendar returns every dated item keyed by day, or one day's items when
// ?date=YYYY-MM-DD is given.
func GetCalendar(c *gin.Context, calendar *services.CalendarService) {
	date := c.Query("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
			return
		}
	}

	who := middleware.CurrentIdentity(c)
	days, err := calendar.ForUser(c.Request.Context(), who.UserID)
	if err != nil {
		controller.RespondError(c, err, "load calendar")
		return
	}
	if date == "" {
		c.JSON(http.StatusOK, days)
		return
	}
	items := days[date]
	if items == nil {
		items = []model.CalendarItem{}
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "items": items})
}

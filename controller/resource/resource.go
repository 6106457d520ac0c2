package resource

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifedashboard/controller"
	"lifedashboard/dto"
	"lifedashboard/middleware"
	"lifedashboard/services"
)

func ResourceController(router *gin.Engine, auth gin.HandlerFunc, resources *services.ResourceService) {
	routes := router.Group("/resources", auth)
	{
		routes.GET("", func(c *gin.Context) {
			who := middleware.CurrentIdentity(c)
			summary, err := resources.Summary(c.Request.Context(), who.UserID)
			if err != nil {
				controller.RespondError(c, err, "load resources")
				return
			}
			c.JSON(http.StatusOK, summary)
		})
		routes.GET("/capacity", func(c *gin.Context) {
			who := middleware.CurrentIdentity(c)
			capacity, err := resources.Capacity(c.Request.Context(), who.UserID)
			if err != nil {
				controller.RespondError(c, err, "load capacity")
				return
			}
			c.JSON(http.StatusOK, gin.H{"weeklyCapacity": capacity})
		})
		routes.PUT("/capacity", func(c *gin.Context) {
			UpdateCapacity(c, resources)
		})
	}
}

func UpdateCapacity(c *gin.Context, resources *services.ResourceService) {
	var req dto.CapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadInput(c)
		return
	}
	who := middleware.CurrentIdentity(c)
	if err := resources.SetCapacity(c.Request.Context(), who.UserID, *req.WeeklyCapacity); err != nil {
		controller.RespondError(c, err, "save capacity")
		return
	}
	c.JSON(http.StatusOK, gin.H{"weeklyCapacity": *req.WeeklyCapacity})
}

package content

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lifedashboard/controller"
	"lifedashboard/dto"
	"lifedashboard/services"
)

func TaskController(routes *gin.RouterGroup, editor Editor) {
	tasks := routes.Group("/goals/:goalId/tasks")
	{
		tasks.POST("", func(c *gin.Context) {
			CreateTask(c, editor)
		})
		tasks.PUT("/:taskId", func(c *gin.Context) {
			var req dto.TaskRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				controller.BadInput(c)
				return
			}
			apply(c, editor, http.StatusOK, services.EditTask(c.Param("goalId"), c.Param("taskId"), req.Input()))
		})
		tasks.DELETE("/:taskId", func(c *gin.Context) {
			apply(c, editor, http.StatusOK, services.DeleteTask(c.Param("goalId"), c.Param("taskId")))
		})
		tasks.POST("/:taskId/toggle", func(c *gin.Context) {
			ToggleTask(c, editor)
		})
	}
}

func CreateTask(c *gin.Context, editor Editor) {
	var taskReq dto.TaskRequest
	if err := c.ShouldBindJSON(&taskReq); err != nil {
		controller.BadInput(c)
		return
	}
	apply(c, editor, http.StatusCreated, services.AddTask(c.Param("goalId"), taskReq.Input()))
}

// ToggleTask flips done. The body may carry the completion date; it defaults to today.
func ToggleTask(c *gin.Context, editor Editor) {
	var req dto.ToggleTaskRequest
	if !controller.BindOptionalJSON(c, &req) {
		return
	}
	if req.CompletedAt != "" {
		if _, err := time.Parse("2006-01-02", req.CompletedAt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid completedAt format"})
			return
		}
	}
	apply(c, editor, http.StatusOK, services.ToggleTask(c.Param("goalId"), c.Param("taskId"), req.CompletedAt, time.Now()))
}

package content

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifedashboard/controller"
	"lifedashboard/dto"
	"lifedashboard/middleware"
	"lifedashboard/model"
	"lifedashboard/services"
)

// Editor is the project kind the goal, task and issue routes write to.
// Edit applies the change, saves it and returns the response body.
type Editor interface {
	Load(ctx context.Context, who model.Identity, projectID string) (model.Content, error)
	Edit(ctx context.Context, who model.Identity, projectID string, edit services.ContentEdit) (interface{}, error)
}

// ContentController registers goal, task and issue routes on a group whose
// path ends in /:id.
func ContentController(routes *gin.RouterGroup, editor Editor) {
	routes.POST("/goals", func(c *gin.Context) {
		var req dto.GoalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controller.BadInput(c)
			return
		}
		apply(c, editor, http.StatusCreated, services.AddGoal(req.Input()))
	})
	routes.PUT("/goals/:goalId", func(c *gin.Context) {
		var req dto.GoalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controller.BadInput(c)
			return
		}
		apply(c, editor, http.StatusOK, services.EditGoal(c.Param("goalId"), req.Input()))
	})
	routes.DELETE("/goals/:goalId", func(c *gin.Context) {
		apply(c, editor, http.StatusOK, services.DeleteGoal(c.Param("goalId")))
	})

	TaskController(routes, editor)
	IssueController(routes, editor)
}

func apply(c *gin.Context, editor Editor, status int, edit services.ContentEdit) {
	who := middleware.CurrentIdentity(c)
	body, err := editor.Edit(c.Request.Context(), who, c.Param("id"), edit)
	if err != nil {
		controller.RespondError(c, err, "save project")
		return
	}
	c.JSON(status, body)
}

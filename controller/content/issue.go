package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifedashboard/controller"
	"lifedashboard/dto"
	"lifedashboard/middleware"
	"lifedashboard/services"
)

func IssueController(routes *gin.RouterGroup, editor Editor) {
	routes.GET("/issues", func(c *gin.Context) {
		who := middleware.CurrentIdentity(c)
		content, err := editor.Load(c.Request.Context(), who, c.Param("id"))
		if err != nil {
			controller.RespondError(c, err, "load issues")
			return
		}
		c.JSON(http.StatusOK, services.ResolveIssues(content))
	})
	routes.POST("/issues", func(c *gin.Context) {
		var req dto.IssueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controller.BadInput(c)
			return
		}
		apply(c, editor, http.StatusCreated, services.AddIssue(req.Input()))
	})
	routes.PUT("/issues/:issueId", func(c *gin.Context) {
		var req dto.IssueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controller.BadInput(c)
			return
		}
		apply(c, editor, http.StatusOK, services.EditIssue(c.Param("issueId"), req.Input()))
	})
	routes.DELETE("/issues/:issueId", func(c *gin.Context) {
		apply(c, editor, http.StatusOK, services.DeleteIssue(c.Param("issueId")))
	})
}

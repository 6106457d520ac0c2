package project

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lifedashboard/controller"
	"lifedashboard/dto"
	"lifedashboard/middleware"
	"lifedashboard/services"
)

// RoutineController registers routine routes. Routines live on private
// projects only.
func RoutineController(routes *gin.RouterGroup, projects *services.ProjectService) {
	routes.POST("/routines", func(c *gin.Context) {
		var req dto.RoutineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controller.BadInput(c)
			return
		}
		editRoutines(c, projects, http.StatusCreated, services.AddRoutine(req.Input()))
	})
	routes.PUT("/routines/:routineId", func(c *gin.Context) {
		var req dto.RoutineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			controller.BadInput(c)
			return
		}
		editRoutines(c, projects, http.StatusOK, services.EditRoutine(c.Param("routineId"), req.Input()))
	})
	routes.DELETE("/routines/:routineId", func(c *gin.Context) {
		editRoutines(c, projects, http.StatusOK, services.DeleteRoutine(c.Param("routineId")))
	})
}

func editRoutines(c *gin.Context, projects *services.ProjectService, status int, edit services.RoutineEdit) {
	who := middleware.CurrentIdentity(c)
	p, err := projects.EditRoutines(c.Request.Context(), who, c.Param("id"), edit)
	if err != nil {
		controller.RespondError(c, err, "save routines")
		return
	}
	c.JSON(status, dto.NewProjectDetail(p))
}

package project

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifedashboard/controller"
	"lifedashboard/controller/content"
	"lifedashboard/dto"
	"lifedashboard/middleware"
	"lifedashboard/model"
	"lifedashboard/services"
)

func ProjectController(router *gin.Engine, auth gin.HandlerFunc, projects *services.ProjectService) {
	routes := router.Group("/projects", auth)
	{
		routes.GET("", func(c *gin.Context) {
			ListProjects(c, projects)
		})
		routes.POST("", func(c *gin.Context) {
			CreateProject(c, projects)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetProject(c, projects)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateProject(c, projects)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteProject(c, projects)
		})
		routes.GET("/:id/stream", func(c *gin.Context) {
			StreamProject(c, projects)
		})
	}

	item := routes.Group("/:id")
	content.ContentController(item, editor{projects})
	RoutineController(item, projects)
}

func ListProjects(c *gin.Context, projects *services.ProjectService) {
	who := middleware.CurrentIdentity(c)
	list, err := projects.List(c.Request.Context(), who.UserID)
	if err != nil {
		controller.RespondError(c, err, "load projects")
		return
	}
	if list == nil {
		list = []model.Project{}
	}
	c.JSON(http.StatusOK, list)
}

func CreateProject(c *gin.Context, projects *services.ProjectService) {
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadInput(c)
		return
	}
	who := middleware.CurrentIdentity(c)
	p, err := projects.Create(c.Request.Context(), who, req.Input())
	if err != nil {
		controller.RespondError(c, err, "create project")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func GetProject(c *gin.Context, projects *services.ProjectService) {
	who := middleware.CurrentIdentity(c)
	p, err := projects.Get(c.Request.Context(), who.UserID, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err, "load project")
		return
	}
	c.JSON(http.StatusOK, dto.NewProjectDetail(p))
}

func UpdateProject(c *gin.Context, projects *services.ProjectService) {
	var req dto.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadInput(c)
		return
	}
	who := middleware.CurrentIdentity(c)
	p, err := projects.Update(c.Request.Context(), who, c.Param("id"), req.Input())
	if err != nil {
		controller.RespondError(c, err, "update project")
		return
	}
	c.JSON(http.StatusOK, p)
}

func DeleteProject(c *gin.Context, projects *services.ProjectService) {
	who := middleware.CurrentIdentity(c)
	if err := projects.Delete(c.Request.Context(), who, c.Param("id")); err != nil {
		controller.RespondError(c, err, "delete project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

func StreamProject(c *gin.Context, projects *services.ProjectService) {
	who := middleware.CurrentIdentity(c)
	ctx := c.Request.Context()
	if _, err := projects.Get(ctx, who.UserID, c.Param("id")); err != nil {
		controller.RespondError(c, err, "load project")
		return
	}
	updates, err := projects.Watch(ctx, who.UserID, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err, "watch project")
		return
	}
	controller.Stream(c, updates, func(p *model.Project) interface{} {
		return dto.NewProjectDetail(*p)
	})
}

type editor struct {
	projects *services.ProjectService
}

func (e editor) Load(ctx context.Context, who model.Identity, id string) (model.Content, error) {
	p, err := e.projects.Get(ctx, who.UserID, id)
	return p.Content, err
}

func (e editor) Edit(ctx context.Context, who model.Identity, id string, edit services.ContentEdit) (interface{}, error) {
	p, err := e.projects.EditContent(ctx, who, id, edit)
	if err != nil {
		return nil, err
	}
	return dto.NewProjectDetail(p), nil
}

package shared

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

func SharedProjectController(router *gin.Engine, auth gin.HandlerFunc, shared *services.SharedProjectService, baseURL string) {
	routes := router.Group("/shared/:id", auth)
	{
		routes.GET("", func(c *gin.Context) {
			GetSharedProject(c, shared)
		})
		routes.GET("/link", func(c *gin.Context) {
			ShareLink(c, shared, baseURL)
		})
		routes.GET("/stream", func(c *gin.Context) {
			StreamSharedProject(c, shared)
		})
		routes.POST("/join", func(c *gin.Context) {
			JoinSharedProject(c, shared)
		})
		routes.POST("/leave", func(c *gin.Context) {
			LeaveSharedProject(c, shared)
		})
		routes.PUT("/members/me", func(c *gin.Context) {
			SyncMemberProfile(c, shared)
		})
	}
	content.ContentController(routes, editor{shared})
}

// GetSharedProject is open to non-members so the client can offer to join.
func GetSharedProject(c *gin.Context, shared *services.SharedProjectService) {
	who := middleware.CurrentIdentity(c)
	p, err := shared.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		controller.RespondError(c, err, "load shared project")
		return
	}
	c.JSON(http.StatusOK, dto.NewSharedProjectResponse(p, who.UserID))
}

func StreamSharedProject(c *gin.Context, shared *services.SharedProjectService) {
	who := middleware.CurrentIdentity(c)
	ctx := c.Request.Context()
	if _, err := shared.Get(ctx, c.Param("id")); err != nil {
		controller.RespondError(c, err, "load shared project")
		return
	}
	updates, err := shared.Watch(ctx, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err, "watch shared project")
		return
	}
	controller.Stream(c, updates, func(p *model.SharedProject) interface{} {
		return dto.NewSharedProjectResponse(*p, who.UserID)
	})
}

func JoinSharedProject(c *gin.Context, shared *services.SharedProjectService) {
	var req dto.JoinRequest
	if !controller.BindOptionalJSON(c, &req) {
		return
	}
	who := middleware.CurrentIdentity(c)
	p, err := shared.Join(c.Request.Context(), who, c.Param("id"), req.DisplayName)
	if err != nil {
		controller.RespondError(c, err, "join shared project")
		return
	}
	c.JSON(http.StatusOK, dto.NewSharedProjectResponse(p, who.UserID))
}

// LeaveSharedProject dispatches to member leave, last-member delete or owner
// handoff depending on the caller's role.
func LeaveSharedProject(c *gin.Context, shared *services.SharedProjectService) {
	var req dto.LeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadInput(c)
		return
	}
	who := middleware.CurrentIdentity(c)
	outcome, err := shared.Leave(c.Request.Context(), who, c.Param("id"), services.LeaveRequest{
		NewOwnerID: req.NewOwnerID,
		Confirmed:  req.Confirm,
	})
	if err != nil {
		controller.RespondError(c, err, "leave shared project")
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

func SyncMemberProfile(c *gin.Context, shared *services.SharedProjectService) {
	var req dto.MemberProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BadInput(c)
		return
	}
	who := middleware.CurrentIdentity(c)
	p, changed, err := shared.SyncMemberProfile(c.Request.Context(), who, c.Param("id"), req.DisplayName, req.AvatarURL)
	if err != nil {
		controller.RespondError(c, err, "update member profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"changed": changed,
		"project": dto.NewSharedProjectResponse(p, who.UserID),
	})
}

type editor struct {
	shared *services.SharedProjectService
}

func (e editor) Load(ctx context.Context, who model.Identity, id string) (model.Content, error) {
	p, err := e.shared.Get(ctx, id)
	if err != nil {
		return model.Content{}, err
	}
	if p.StateOf(who.UserID) == model.NotMember {
		return model.Content{}, services.ErrNotMember
	}
	return p.Content, nil
}

func (e editor) Edit(ctx context.Context, who model.Identity, id string, edit services.ContentEdit) (interface{}, error) {
	p, err := e.shared.EditContent(ctx, who, id, edit)
	if err != nil {
		return nil, err
	}
	return dto.NewSharedProjectResponse(p, who.UserID), nil
}

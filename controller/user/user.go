package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lifedashboard/controller"
	"lifedashboard/dto"
	"lifedashboard/middleware"
	"lifedashboard/model"
	"lifedashboard/services"
)

func UserController(router *gin.Engine, auth gin.HandlerFunc, users *services.UserService) {
	routes := router.Group("/user", auth)
	{
		routes.GET("/profile", func(c *gin.Context) {
			GetProfile(c, users)
		})
		routes.PUT("/profile", func(c *gin.Context) {
			UpdateProfileUser(c, users)
		})
		routes.POST("/avatar", func(c *gin.Context) {
			UploadAvatar(c, users)
		})
		routes.DELETE("/avatar", func(c *gin.Context) {
			DeleteAvatar(c, users)
		})
	}
}

func profileResponse(p model.UserProfile, email string) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Nickname:    p.Nickname,
		PhotoURL:    p.PhotoURL,
		Email:       email,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

// GetProfile creates the profile document on the first call.
func GetProfile(c *gin.Context, users *services.UserService) {
	who := middleware.CurrentIdentity(c)
	profile, created, err := users.EnsureProfile(c.Request.Context(), who)
	if err != nil {
		controller.RespondError(c, err, "load profile")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, profileResponse(profile, who.Email))
}

func UpdateProfileUser(c *gin.Context, users *services.UserService) {
	var updateProfile dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&updateProfile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	who := middleware.CurrentIdentity(c)
	profile, changed, err := users.UpdateProfile(c.Request.Context(), who, services.ProfileInput{
		Nickname: updateProfile.Nickname,
		PhotoURL: updateProfile.PhotoURL,
	})
	if err != nil {
		controller.RespondError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Profile updated successfully",
		"profile":         profileResponse(profile, who.Email),
		"updatedProjects": changed,
	})
}

// UploadAvatar takes the image from the multipart field "avatar".
func UploadAvatar(c *gin.Context, users *services.UserService) {
	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Avatar file is required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read avatar"})
		return
	}
	defer f.Close()

	who := middleware.CurrentIdentity(c)
	url, err := users.UploadAvatar(c.Request.Context(), who, f)
	if err != nil {
		controller.RespondError(c, err, "upload avatar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"photoURL": url})
}

func DeleteAvatar(c *gin.Context, users *services.UserService) {
	who := middleware.CurrentIdentity(c)
	if err := users.DeleteAvatar(c.Request.Context(), who); err != nil && !errors.Is(err, services.ErrNotFound) {
		controller.RespondError(c, err, "delete avatar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Avatar deleted successfully"})
}

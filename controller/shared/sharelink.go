package shared

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"lifedashboard/controller"
	"lifedashboard/dto"
	"lifedashboard/services"
)

// ShareLink returns the URL that opens the join prompt for the project.
func ShareLink(c *gin.Context, shared *services.SharedProjectService, baseURL string) {
	p, err := shared.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		controller.RespondError(c, err, "load shared project")
		return
	}

	params := url.Values{}
	params.Add("projectId", p.ID)
	deepLink := base64.URLEncoding.EncodeToString([]byte(params.Encode()))

	c.JSON(http.StatusOK, dto.ShareLinkResponse{
		ProjectID: p.ID,
		URL:       ShareURL(baseURL, p.ID),
		DeepLink:  deepLink,
	})
}

func ShareURL(baseURL, projectID string) string {
	return strings.TrimRight(baseURL, "/") + "/shared/" + url.PathEscape(projectID)
}

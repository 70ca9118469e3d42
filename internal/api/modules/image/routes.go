package image

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the routes for the image module
func RegisterRoutes(g *gin.RouterGroup, c *Controller) {
	g.POST("/sessions/:uuid/image", c.GenerateImage)
}

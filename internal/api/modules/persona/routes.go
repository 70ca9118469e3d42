package persona

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the routes for the persona module
func RegisterRoutes(g *gin.RouterGroup, c *Controller) {
	g.GET("/personas", c.ListPersonas)
}

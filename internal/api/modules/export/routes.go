package export

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the routes for the export module
func RegisterRoutes(g *gin.RouterGroup, c *Controller) {
	g.GET("/sessions/:uuid/export", c.ExportCSV)            // Download the transcript as CSV
	g.POST("/sessions/:uuid/export/drive", c.ExportToDrive) // Upload an export to Drive
}

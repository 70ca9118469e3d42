package chat

import (
	"github.com/ethanbaker/api/pkg/api_key"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the routes for the chat module
func RegisterRoutes(g *gin.RouterGroup, ctl *Controller) {
	// Create base group for session routes
	group := g.Group("/sessions")

	// Gate mutating session routes behind an API key when one is configured
	if key := ctl.cfg.Get("API_KEY"); key != "" {
		group.Handlers = append(group.Handlers, api_key.APIKeyHeaderHandler(func(k string) bool {
			return k == key
		}))
	}

	// Session management routes
	group.POST("", ctl.CreateSession)              // Start a chat with a persona
	group.GET("/:uuid", ctl.GetSession)            // Get a session and its transcript
	group.POST("/:uuid/message", ctl.PostMessage)  // Send a message and relay it to the backend
	group.POST("/:uuid/attachment", ctl.AttachCSV) // Stage a CSV for the next message
	group.POST("/:uuid/clear", ctl.ClearSession)   // Start a new conversation in place
	group.DELETE("/:uuid", ctl.DeleteSession)      // Delete a session
}

package image

import (
	"net/http"

	"github.com/ethanbaker/fanchat/internal/images"
	"github.com/ethanbaker/fanchat/internal/stores/transcript"
	"github.com/ethanbaker/fanchat/pkg/sdk"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller serves image generation from conversation snippets
type Controller struct {
	store  transcript.Store
	images *images.Service
}

// New creates the image controller. imageService may be nil, which disables
// generation
func New(store transcript.Store, imageService *images.Service) *Controller {
	return &Controller{
		store:  store,
		images: imageService,
	}
}

// GenerateImage handles POST requests to illustrate one transcript turn
func (ctl *Controller) GenerateImage(c *gin.Context) {
	if ctl.images == nil {
		c.JSON(sdk.NewErrorResponse(http.StatusServiceUnavailable, "Image generation is not configured", nil).AsGinResponse())
		return
	}

	id, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid session id", err.Error()).AsGinResponse())
		return
	}

	sess, err := ctl.store.GetSession(c.Request.Context(), id)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusNotFound, "Session not found", err.Error()).AsGinResponse())
		return
	}

	// Parse request body
	var req sdk.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body", err.Error()).AsGinResponse())
		return
	}

	turn, err := sess.Turn(req.TurnIndex)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid turn index", err.Error()).AsGinResponse())
		return
	}

	img, err := ctl.images.GenerateFromSnippet(c.Request.Context(), turn.Content)
	if err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadGateway, "Image generation failed", err.Error()).AsGinResponse())
		return
	}

	c.JSON(sdk.NewSuccessResponse("Image generated successfully", sdk.GenerateImageResponse{
		URL:     img.URL,
		B64JSON: img.B64JSON,
	}).AsGinResponse())
}

package persona

import (
	"github.com/ethanbaker/fanchat/pkg/persona"
	"github.com/ethanbaker/fanchat/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Controller serves the persona registry over HTTP
type Controller struct {
	registry *persona.Registry
}

// New creates the persona controller
func New(registry *persona.Registry) *Controller {
	return &Controller{registry: registry}
}

// ListPersonas handles GET requests for the available personas
func (ctl *Controller) ListPersonas(c *gin.Context) {
	var personas []sdk.Persona
	for _, p := range ctl.registry.All() {
		personas = append(personas, sdk.Persona{
			Name:   p.Name,
			Avatar: p.Avatar,
		})
	}

	c.JSON(sdk.NewSuccessResponse("Personas retrieved successfully", personas).AsGinResponse())
}

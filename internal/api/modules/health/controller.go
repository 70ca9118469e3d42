package health

import (
	"github.com/ethanbaker/fanchat/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// status is the health endpoint's payload
type status struct {
	Service string `json:"service"`
	Status  string `json:"status"`
}

// Return status of the API
func getStatus(c *gin.Context) {
	res := sdk.NewSuccessResponse("OK", status{Service: "fanchat", Status: "ok"})
	c.JSON(res.AsGinResponse())
}

package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h Handler) {
	rg.POST("/recognize", h.Recognize)
	rg.POST("/domain", h.Domain)
	rg.GET("/info", h.Info)
}

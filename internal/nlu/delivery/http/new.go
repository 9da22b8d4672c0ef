package http

import (
	"github.com/gin-gonic/gin"

	"nlu-service/internal/nlu"
	"nlu-service/pkg/log"
)

// Handler is the public interface for the nlu HTTP delivery layer.
type Handler interface {
	Recognize(c *gin.Context)
	Domain(c *gin.Context)
	Info(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc nlu.UseCase
}

// New creates a new HTTP handler for the nlu domain.
func New(l log.Logger, uc nlu.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}

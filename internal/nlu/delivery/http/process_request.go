package http

import (
	"github.com/gin-gonic/gin"
)

// processRecognizeReq binds and validates the recognize request body.
func (h *handler) processRecognizeReq(c *gin.Context) (recognizeReq, error) {
	var req recognizeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

// processDomainReq binds and validates the domain classification request body.
func (h *handler) processDomainReq(c *gin.Context) (domainReq, error) {
	var req domainReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

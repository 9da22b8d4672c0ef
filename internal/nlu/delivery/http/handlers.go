package http

import (
	"github.com/gin-gonic/gin"

	"nlu-service/pkg/response"
)

// Recognize godoc
// @Summary     Recognize an utterance
// @Description Maps a short utterance to a domain, an intent, and semantic slots.
// @Tags        NLU
// @Accept      json
// @Produce     json
// @Param       body body recognizeReq true "Utterance"
// @Success     200 {object} recognizeResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/nlu/recognize [POST]
func (h *handler) Recognize(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processRecognizeReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	data, err := h.uc.Recognize(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Recognize: %v", err)
		response.InternalError(c, err)
		return
	}

	response.OK(c, newRecognizeResp(data))
}

// Domain godoc
// @Summary     Classify the domain of an utterance
// @Description Runs only the embedding-based domain classifier.
// @Tags        NLU
// @Accept      json
// @Produce     json
// @Param       body body domainReq true "Utterance"
// @Success     200 {object} domainResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/nlu/domain [POST]
func (h *handler) Domain(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processDomainReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	out, err := h.uc.ClassifyDomain(ctx, req.Text)
	if err != nil {
		h.l.Errorf(ctx, "uc.ClassifyDomain: %v", err)
		response.InternalError(c, err)
		return
	}

	response.OK(c, newDomainResp(out))
}

// Info godoc
// @Summary     Pipeline info
// @Description Reports loaded domains, rules, intents, and cache sizes.
// @Tags        NLU
// @Produce     json
// @Success     200 {object} infoResp
// @Router      /api/v1/nlu/info [GET]
func (h *handler) Info(c *gin.Context) {
	ctx := c.Request.Context()

	response.OK(c, newInfoResp(h.uc.Info(ctx)))
}

package http

import (
	"errors"

	"github.com/google/uuid"

	"nlu-service/internal/model"
	"nlu-service/internal/nlu"
)

// --- Request DTOs ---

type recognizeReq struct {
	Text      string         `json:"text" binding:"required"`
	Domain    string         `json:"domain"`
	Context   map[string]any `json:"context"`
	SessionID string         `json:"session_id"`
}

func (r recognizeReq) validate() error {
	if len(r.Text) > maxTextLength {
		return errTextTooLong
	}
	return nil
}

func (r recognizeReq) toInput() nlu.RecognizeInput {
	sessionID := r.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return nlu.RecognizeInput{
		Text:      r.Text,
		Domain:    r.Domain,
		Context:   r.Context,
		SessionID: sessionID,
	}
}

// ---

type domainReq struct {
	Text string `json:"text" binding:"required"`
}

func (r domainReq) validate() error {
	if len(r.Text) > maxTextLength {
		return errTextTooLong
	}
	return nil
}

// --- Response DTOs ---

// recognizeResp mirrors model.IntentData on the wire.
type recognizeResp struct {
	Intent     string            `json:"intent"`
	Domain     string            `json:"domain"`
	Semantic   map[string]string `json:"semantic,omitempty"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities,omitempty"`
	RawText    string            `json:"raw_text"`
	Method     string            `json:"method"`
}

func newRecognizeResp(data model.IntentData) recognizeResp {
	return recognizeResp{
		Intent:     data.Intent,
		Domain:     data.Domain,
		Semantic:   data.Semantic,
		Confidence: data.Confidence,
		Entities:   data.Entities,
		RawText:    data.RawText,
		Method:     data.Method,
	}
}

type domainResp struct {
	Domain     string  `json:"domain"`
	Confidence float64 `json:"confidence"`
	RawText    string  `json:"raw_text"`
	Method     string  `json:"method"`
}

func newDomainResp(out nlu.DomainOutput) domainResp {
	return domainResp{
		Domain:     out.Domain,
		Confidence: out.Confidence,
		RawText:    out.RawText,
		Method:     "model",
	}
}

type infoResp struct {
	Domains         []string       `json:"domains"`
	RuleCount       int            `json:"rule_count"`
	IntentCount     int            `json:"intent_count"`
	VocabularyCount int            `json:"vocabulary_count"`
	CacheSizes      map[string]int `json:"cache_sizes"`
}

func newInfoResp(out nlu.InfoOutput) infoResp {
	return infoResp{
		Domains:         out.Domains,
		RuleCount:       out.RuleCount,
		IntentCount:     out.IntentCount,
		VocabularyCount: out.VocabularyCount,
		CacheSizes:      out.CacheSizes,
	}
}

// ---

const maxTextLength = 512

var errTextTooLong = errors.New("text exceeds maximum length")

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	nluHTTP "nlu-service/internal/nlu/delivery/http"
	"nlu-service/internal/model"
	"nlu-service/internal/nlu"
	"nlu-service/pkg/log"
	"nlu-service/pkg/response"
)

type mockUseCase struct {
	recognizeFunc func(ctx context.Context, input nlu.RecognizeInput) (model.IntentData, error)
	classifyFunc  func(ctx context.Context, text string) (nlu.DomainOutput, error)
}

func (m *mockUseCase) Recognize(ctx context.Context, input nlu.RecognizeInput) (model.IntentData, error) {
	return m.recognizeFunc(ctx, input)
}

func (m *mockUseCase) ClassifyDomain(ctx context.Context, text string) (nlu.DomainOutput, error) {
	return m.classifyFunc(ctx, text)
}

func (m *mockUseCase) Info(ctx context.Context) nlu.InfoOutput {
	return nlu.InfoOutput{Domains: []string{"车控"}, RuleCount: 3}
}

func newRouter(uc nlu.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	nluHTTP.RegisterRoutes(router.Group("/api/v1/nlu"), nluHTTP.New(log.NewNop(), uc))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRecognize(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		uc := &mockUseCase{
			recognizeFunc: func(ctx context.Context, input nlu.RecognizeInput) (model.IntentData, error) {
				if input.Text != "打开车窗" {
					t.Errorf("unexpected text %q", input.Text)
				}
				if input.SessionID == "" {
					t.Errorf("a session id must be generated when absent")
				}
				return model.IntentData{
					Intent:     "vehicle_control",
					Domain:     "车控",
					Semantic:   map[string]string{"action": "open", "target": "window"},
					Confidence: 0.95,
					Entities:   map[string]string{"action": "打开", "target": "车窗"},
					RawText:    input.Text,
					Method:     model.MethodRegexGlobal,
				}, nil
			},
		}

		w := postJSON(t, newRouter(uc), "/api/v1/nlu/recognize", `{"text":"打开车窗"}`)
		if w.Code != nethttp.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp response.Resp
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		data, ok := resp.Data.(map[string]interface{})
		if !ok {
			t.Fatalf("unexpected data payload: %v", resp.Data)
		}
		if data["intent"] != "vehicle_control" || data["method"] != "regex_global" {
			t.Errorf("unexpected payload: %v", data)
		}
		semantic, ok := data["semantic"].(map[string]interface{})
		if !ok || semantic["action"] != "open" {
			t.Errorf("unexpected semantic: %v", data["semantic"])
		}
	})

	t.Run("Empty Semantic Omitted", func(t *testing.T) {
		uc := &mockUseCase{
			recognizeFunc: func(ctx context.Context, input nlu.RecognizeInput) (model.IntentData, error) {
				return model.NoneResult(input.Text, "通用"), nil
			},
		}

		w := postJSON(t, newRouter(uc), "/api/v1/nlu/recognize", `{"text":"今天天气如何"}`)

		var resp response.Resp
		json.Unmarshal(w.Body.Bytes(), &resp)
		data := resp.Data.(map[string]interface{})
		if _, present := data["semantic"]; present {
			t.Errorf("nil semantic must be omitted from JSON: %v", data)
		}
		if _, present := data["entities"]; present {
			t.Errorf("nil entities must be omitted from JSON: %v", data)
		}
	})

	t.Run("Missing Text", func(t *testing.T) {
		uc := &mockUseCase{
			recognizeFunc: func(ctx context.Context, input nlu.RecognizeInput) (model.IntentData, error) {
				t.Errorf("use case must not be called on a bad request")
				return model.IntentData{}, nil
			},
		}

		w := postJSON(t, newRouter(uc), "/api/v1/nlu/recognize", `{}`)
		if w.Code != nethttp.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("UseCase Error", func(t *testing.T) {
		uc := &mockUseCase{
			recognizeFunc: func(ctx context.Context, input nlu.RecognizeInput) (model.IntentData, error) {
				return model.IntentData{}, errors.New("boom")
			},
		}

		w := postJSON(t, newRouter(uc), "/api/v1/nlu/recognize", `{"text":"打开车窗"}`)
		if w.Code != nethttp.StatusInternalServerError {
			t.Errorf("expected 500, got %d", w.Code)
		}
	})
}

func TestDomain(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		uc := &mockUseCase{
			classifyFunc: func(ctx context.Context, text string) (nlu.DomainOutput, error) {
				return nlu.DomainOutput{Domain: "音乐", Confidence: 0.8, RawText: text}, nil
			},
		}

		w := postJSON(t, newRouter(uc), "/api/v1/nlu/domain", `{"text":"放首歌"}`)
		if w.Code != nethttp.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var resp response.Resp
		json.Unmarshal(w.Body.Bytes(), &resp)
		data := resp.Data.(map[string]interface{})
		if data["domain"] != "音乐" || data["method"] != "model" {
			t.Errorf("unexpected payload: %v", data)
		}
	})

	t.Run("Missing Text", func(t *testing.T) {
		uc := &mockUseCase{}
		w := postJSON(t, newRouter(uc), "/api/v1/nlu/domain", `{"no_text":1}`)
		if w.Code != nethttp.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestInfo(t *testing.T) {
	uc := &mockUseCase{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/api/v1/nlu/info", nil)
	newRouter(uc).ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp response.Resp
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]interface{})
	if data["rule_count"] != float64(3) {
		t.Errorf("unexpected payload: %v", data)
	}
}

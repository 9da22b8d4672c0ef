package usecase

import (
	"testing"

	"nlu-service/internal/model"
	"nlu-service/pkg/log"
)

func TestMethodRank(t *testing.T) {
	// Dead-heat precedence: regex_global > regex_domain > model.
	if !(methodRank(model.MethodRegexGlobal) < methodRank(model.MethodRegexDomain)) {
		t.Errorf("regex_global must outrank regex_domain")
	}
	if !(methodRank(model.MethodRegexDomain) < methodRank(model.MethodModel)) {
		t.Errorf("regex_domain must outrank model")
	}
	if methodRank("anything else") <= methodRank(model.MethodModel) {
		t.Errorf("unknown methods must rank last")
	}
}

func TestShapeResult(t *testing.T) {
	uc := New(log.NewNop(), nil, nil, nil, nil, Config{FallbackDomain: "通用"})

	t.Run("Empty Maps Dropped", func(t *testing.T) {
		res := pathResult{
			method: model.MethodRegexDomain,
			data: model.IntentData{
				Intent:   "vehicle_control",
				Domain:   "车控",
				Semantic: map[string]string{},
				Entities: map[string]string{},
			},
		}
		data := uc.shapeResult(res, "打开车窗", "车控")
		if data.Semantic != nil || data.Entities != nil {
			t.Errorf("empty maps must become nil for JSON omission: %+v", data)
		}
		if data.RawText != "打开车窗" {
			t.Errorf("raw_text must be set, got %q", data.RawText)
		}
	})

	t.Run("Missing Domain Resolved", func(t *testing.T) {
		res := pathResult{method: model.MethodModel, data: model.IntentData{Intent: "x"}}

		data := uc.shapeResult(res, "文本", "音乐")
		if data.Domain != "音乐" {
			t.Errorf("expected resolved domain, got %q", data.Domain)
		}

		data = uc.shapeResult(res, "文本", "")
		if data.Domain != "通用" {
			t.Errorf("expected fallback domain, got %q", data.Domain)
		}
	})
}

func TestDrainPrecedence(t *testing.T) {
	// Two acceptable results already buffered: the better-ranked one must be
	// returned regardless of arrival order.
	uc := New(log.NewNop(), nil, nil, nil, nil, Config{FallbackDomain: "通用"})

	results := make(chan pathResult, 4)
	results <- pathResult{method: model.MethodModel, ok: true, data: model.IntentData{Intent: "a", Method: model.MethodModel}}
	results <- pathResult{method: model.MethodRegexGlobal, ok: true, data: model.IntentData{Intent: "b", Method: model.MethodRegexGlobal}}

	best := <-results
	for drained := false; !drained; {
		select {
		case extra := <-results:
			if extra.ok && methodRank(extra.method) < methodRank(best.method) {
				best = extra
			}
		default:
			drained = true
		}
	}

	data := uc.shapeResult(best, "文本", "车控")
	if data.Method != model.MethodRegexGlobal {
		t.Errorf("expected regex_global to win the dead heat, got %s", data.Method)
	}
}

package rules_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nlu-service/internal/rules"
	"nlu-service/internal/vocabulary"
	"nlu-service/pkg/log"
)

const vocabConfig = `{
  "groups": {
    "action_open": {"items": ["打开", "开启", "启动", "开"], "alias": "open"},
    "action_close": {"items": ["关闭", "停止", "关上", "关"], "alias": "close"},
    "target_window": {"items": ["车窗", "窗户", "窗"], "alias": "window"},
    "target_music": {"items": ["音乐", "歌曲", "歌"], "alias": "music"},
    "position_driver": {"items": ["主驾驶", "主驾", "驾驶位"], "alias": "driver"}
  }
}`

const vehicleRules = `{
  "domain": "车控",
  "patterns": [
    {
      "pattern": "(?P<action>{{action_open}}|{{action_close}})(?P<position>{{position_driver}})?(?P<target>{{target_window}})",
      "intent": "vehicle_control",
      "confidence": 0.9
    }
  ]
}`

const globalRules = `{
  "domain": "__global__",
  "patterns": [
    {
      "pattern": "^(?P<action>{{action_open}})(?P<target>{{target_window}})$",
      "intent": "vehicle_control",
      "confidence": 0.95,
      "domain": "车控"
    }
  ]
}`

const musicRules = `{
  "domain": "音乐",
  "patterns": [
    {
      "pattern": "下一首",
      "intent": "music.next",
      "action": "next",
      "target": "music",
      "confidence": 0.9
    },
    {
      "pattern": "(播放|放)(.+)",
      "intent": "music.play",
      "confidence": 0.85,
      "group_names": ["action", "value"]
    }
  ]
}`

func writeFixtures(t *testing.T, files map[string]string) (vocabPath, ruleDir string) {
	t.Helper()
	dir := t.TempDir()

	vocabPath = filepath.Join(dir, "vocabulary_groups.json")
	if err := os.WriteFile(vocabPath, []byte(vocabConfig), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}

	ruleDir = filepath.Join(dir, "regex")
	if err := os.Mkdir(ruleDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(ruleDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return vocabPath, ruleDir
}

func newMatcher(t *testing.T, files map[string]string) *rules.Matcher {
	t.Helper()
	vocabPath, ruleDir := writeFixtures(t, files)

	vocab, err := vocabulary.New(log.NewNop(), vocabPath)
	if err != nil {
		t.Fatalf("vocabulary: %v", err)
	}
	m, err := rules.New(log.NewNop(), vocab, ruleDir)
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	return m
}

func defaultMatcher(t *testing.T) *rules.Matcher {
	return newMatcher(t, map[string]string{
		"global.json":  globalRules,
		"vehicle.json": vehicleRules,
		"music.json":   musicRules,
	})
}

func TestNew(t *testing.T) {
	t.Run("Unknown Group Aborts Startup", func(t *testing.T) {
		vocabPath, ruleDir := writeFixtures(t, map[string]string{
			"bad.json": `{"domain":"x","patterns":[{"pattern":"{{missing_group}}","intent":"i","confidence":0.9}]}`,
		})
		vocab, _ := vocabulary.New(log.NewNop(), vocabPath)
		_, err := rules.New(log.NewNop(), vocab, ruleDir)
		if !errors.Is(err, vocabulary.ErrUnknownGroup) {
			t.Errorf("expected ErrUnknownGroup, got %v", err)
		}
	})

	t.Run("Bad Pattern Aborts Startup", func(t *testing.T) {
		vocabPath, ruleDir := writeFixtures(t, map[string]string{
			"bad.json": `{"domain":"x","patterns":[{"pattern":"([unclosed","intent":"i","confidence":0.9}]}`,
		})
		vocab, _ := vocabulary.New(log.NewNop(), vocabPath)
		_, err := rules.New(log.NewNop(), vocab, ruleDir)
		if !errors.Is(err, rules.ErrBadPattern) {
			t.Errorf("expected ErrBadPattern, got %v", err)
		}
	})

	t.Run("Missing Domain Aborts Startup", func(t *testing.T) {
		vocabPath, ruleDir := writeFixtures(t, map[string]string{
			"bad.json": `{"patterns":[{"pattern":"x","intent":"i","confidence":0.9}]}`,
		})
		vocab, _ := vocabulary.New(log.NewNop(), vocabPath)
		_, err := rules.New(log.NewNop(), vocab, ruleDir)
		if !errors.Is(err, rules.ErrInvalidRuleFile) {
			t.Errorf("expected ErrInvalidRuleFile, got %v", err)
		}
	})
}

func TestMatch(t *testing.T) {
	m := defaultMatcher(t)
	ctx := context.Background()

	t.Run("Open Window", func(t *testing.T) {
		res, ok := m.Match(ctx, "打开车窗", "车控")
		if !ok {
			t.Fatalf("expected match")
		}
		if res.Intent != "vehicle_control" || res.Domain != "车控" {
			t.Errorf("unexpected result: %+v", res)
		}
		if res.Semantic["action"] != "open" || res.Semantic["target"] != "window" {
			t.Errorf("unexpected semantic: %v", res.Semantic)
		}
		if res.Entities["action"] != "打开" || res.Entities["target"] != "车窗" {
			t.Errorf("unexpected entities: %v", res.Entities)
		}
		if res.Confidence != 0.9 {
			t.Errorf("expected confidence 0.9, got %v", res.Confidence)
		}
	})

	t.Run("Driver Position Longest Alternative", func(t *testing.T) {
		res, ok := m.Match(ctx, "打开主驾车窗", "车控")
		if !ok {
			t.Fatalf("expected match")
		}
		if res.Entities["position"] != "主驾" {
			t.Errorf("expected position entity 主驾, got %q", res.Entities["position"])
		}
		if res.Semantic["position"] != "driver" {
			t.Errorf("expected position alias driver, got %q", res.Semantic["position"])
		}
	})

	t.Run("Global Pass Declared Domain Wins", func(t *testing.T) {
		res, ok := m.Match(ctx, "打开车窗", "")
		if !ok {
			t.Fatalf("expected match")
		}
		// The __global__ file sorts first; its rule declares 车控.
		if res.Domain != "车控" {
			t.Errorf("declared domain must win, got %s", res.Domain)
		}
		if res.Confidence != 0.95 {
			t.Errorf("expected the global rule (0.95), got %v", res.Confidence)
		}
	})

	t.Run("Default Action And Target", func(t *testing.T) {
		res, ok := m.Match(ctx, "下一首", "音乐")
		if !ok {
			t.Fatalf("expected match")
		}
		if res.Semantic["action"] != "next" || res.Semantic["target"] != "music" {
			t.Errorf("defaults not applied: %v", res.Semantic)
		}
		if len(res.Entities) != 0 {
			t.Errorf("defaults must not create entities: %v", res.Entities)
		}
	})

	t.Run("Positional Group Names", func(t *testing.T) {
		res, ok := m.Match(ctx, "播放周杰伦的歌", "音乐")
		if !ok {
			t.Fatalf("expected match")
		}
		if res.Entities["action"] != "播放" {
			t.Errorf("expected positional action entity, got %v", res.Entities)
		}
		if res.Entities["value"] != "周杰伦的歌" {
			t.Errorf("expected positional value entity, got %v", res.Entities)
		}
	})

	t.Run("Domain Restriction", func(t *testing.T) {
		if _, ok := m.Match(ctx, "下一首", "车控"); ok {
			t.Errorf("music rule must not match in 车控")
		}
	})

	t.Run("No Match", func(t *testing.T) {
		if _, ok := m.Match(ctx, "今天天气如何", ""); ok {
			t.Errorf("expected no match")
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, ok := m.Match(cancelled, "打开车窗", "车控"); ok {
			t.Errorf("cancelled context must yield no match")
		}
	})
}

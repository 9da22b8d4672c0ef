package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"nlu-service/internal/model"
	"nlu-service/internal/vocabulary"
	"nlu-service/pkg/log"
)

// Matcher holds the compiled rule sets, indexed by domain. Immutable after
// New, safe for concurrent use.
type Matcher struct {
	l        log.Logger
	vocab    *vocabulary.Manager
	byDomain map[string][]compiledRule
	domains  []string // sorted, for the deterministic global pass
}

// New loads every *.json rule file under dir, expands each pattern through
// the vocabulary manager, and compiles it. Any failure aborts startup.
func New(l log.Logger, vocab *vocabulary.Manager, dir string) (*Matcher, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read rule directory: %w", err)
	}

	m := &Matcher{
		l:        l,
		vocab:    vocab,
		byDomain: make(map[string][]compiledRule),
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		n, err := m.loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		total += n
	}

	for domain := range m.byDomain {
		m.domains = append(m.domains, domain)
	}
	sort.Strings(m.domains)

	l.Infof(context.Background(), "Loaded %d regex rules across %d domains from %s", total, len(m.domains), dir)

	return m, nil
}

func (m *Matcher) loadFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var doc ruleFileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRuleFile, err)
	}
	if doc.Domain == "" {
		return 0, fmt.Errorf("%w: missing domain", ErrInvalidRuleFile)
	}

	for i, p := range doc.Patterns {
		if p.Pattern == "" {
			return 0, fmt.Errorf("%w: pattern %d is empty", ErrInvalidRuleFile, i)
		}

		expanded, err := m.vocab.Expand(p.Pattern)
		if err != nil {
			return 0, fmt.Errorf("pattern %d: %w", i, err)
		}

		re, err := regexp.Compile(expanded)
		if err != nil {
			return 0, fmt.Errorf("%w: pattern %d %q: %v", ErrBadPattern, i, expanded, err)
		}

		ruleDomain := p.Domain
		if ruleDomain == "" {
			ruleDomain = doc.Domain
		}

		m.byDomain[doc.Domain] = append(m.byDomain[doc.Domain], compiledRule{
			re:            re,
			source:        p.Pattern,
			intent:        p.Intent,
			defaultAction: p.Action,
			defaultTarget: p.Target,
			confidence:    p.Confidence,
			domain:        ruleDomain,
			groupNames:    p.GroupNames,
		})
	}

	return len(doc.Patterns), nil
}

// Match runs text against one domain's rule set, or against every domain in
// sorted order when domain is empty. Rules are tried in declaration order;
// the first hit wins. Returns ok=false when nothing matches or the context
// is cancelled.
func (m *Matcher) Match(ctx context.Context, text, domain string) (Result, bool) {
	if domain != "" {
		return m.matchDomain(ctx, text, domain)
	}
	for _, d := range m.domains {
		if res, ok := m.matchDomain(ctx, text, d); ok {
			return res, ok
		}
		if ctx.Err() != nil {
			return Result{}, false
		}
	}
	return Result{}, false
}

func (m *Matcher) matchDomain(ctx context.Context, text, domain string) (Result, bool) {
	for _, rule := range m.byDomain[domain] {
		if ctx.Err() != nil {
			return Result{}, false
		}
		loc := rule.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		if ctx.Err() != nil {
			return Result{}, false
		}
		return m.extract(rule, text, loc), true
	}
	return Result{}, false
}

// extract builds the structured result from a hit: named slot captures are
// alias-mapped into Semantic while their raw surface goes into Entities, and
// rule-level defaults fill slots whose group did not capture.
func (m *Matcher) extract(rule compiledRule, text string, loc []int) Result {
	res := Result{
		Intent:     rule.intent,
		Domain:     rule.domain,
		Semantic:   make(map[string]string),
		Entities:   make(map[string]string),
		Confidence: rule.confidence,
	}

	names := rule.re.SubexpNames()
	for i := 1; i < len(names) && 2*i+1 < len(loc); i++ {
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			continue
		}
		surface := text[start:end]

		name := names[i]
		if name == "" && i-1 < len(rule.groupNames) {
			name = rule.groupNames[i-1]
		}
		if name == "" || surface == "" {
			continue
		}

		res.Entities[name] = surface
		if isSlot(name) {
			if alias, _, ok := m.vocab.AliasOf(surface); ok {
				res.Semantic[name] = alias
			}
		}
	}

	// Defaults are already aliases by convention; they apply only when the
	// corresponding group captured nothing at all.
	if _, captured := res.Entities[model.SlotAction]; !captured && rule.defaultAction != "" {
		res.Semantic[model.SlotAction] = rule.defaultAction
	}
	if _, captured := res.Entities[model.SlotTarget]; !captured && rule.defaultTarget != "" {
		res.Semantic[model.SlotTarget] = rule.defaultTarget
	}

	return res
}

func isSlot(name string) bool {
	for _, s := range model.SlotNames {
		if name == s {
			return true
		}
	}
	return false
}

// Domains returns the loaded domain names in sorted order.
func (m *Matcher) Domains() []string {
	return append([]string(nil), m.domains...)
}

// RuleCount returns the number of compiled rules across all domains.
func (m *Matcher) RuleCount() int {
	n := 0
	for _, rs := range m.byDomain {
		n += len(rs)
	}
	return n
}

package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"nlu-service/internal/model"
	"nlu-service/internal/vocabulary"
	"nlu-service/pkg/embedding"
	"nlu-service/pkg/log"
	"nlu-service/pkg/vector"
)

// slotPrefixes maps a group-id prefix to the slot it fills.
var slotPrefixes = map[string]string{
	"action_":   model.SlotAction,
	"target_":   model.SlotTarget,
	"position_": model.SlotPosition,
	"value_":    model.SlotValue,
}

// Matcher predicts the best intent within a domain by cosine similarity
// against per-intent centroids, plus a vocabulary scan for slots.
type Matcher struct {
	l         log.Logger
	embedder  embedding.IEmbedder
	vocab     *vocabulary.Manager
	threshold float64
	// centroids maps domain → intent → centroid. Intents are additionally
	// kept sorted per domain for deterministic argmax ties.
	centroids map[string]map[string][]float32
	intents   map[string][]string

	embedCache *lru.Cache[string, []float32]
	predCache  *lru.Cache[string, Prediction]
	flight     singleflight.Group
}

// New loads the intent example document, computes one centroid per
// (domain, intent), and prepares the caches. Embedding happens at startup.
func New(ctx context.Context, l log.Logger, embedder embedding.IEmbedder, vocab *vocabulary.Manager, path string, threshold float64, cacheSize int) (*Matcher, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intent examples: %w", err)
	}

	var doc configDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse intent examples: %w", err)
	}
	if len(doc.IntentExamples) == 0 {
		return nil, fmt.Errorf("no intent examples defined in %s", path)
	}

	embedCache, err := lru.New[string, []float32](cacheSize)
	if err != nil {
		return nil, err
	}
	predCache, err := lru.New[string, Prediction](cacheSize)
	if err != nil {
		return nil, err
	}

	m := &Matcher{
		l:          l,
		embedder:   embedder,
		vocab:      vocab,
		threshold:  threshold,
		centroids:  make(map[string]map[string][]float32),
		intents:    make(map[string][]string),
		embedCache: embedCache,
		predCache:  predCache,
	}

	total := 0
	for name, in := range doc.IntentExamples {
		if len(in.Examples) == 0 {
			continue
		}
		domain := in.Domain
		if domain == "" {
			domain = model.FallbackDomain
		}

		vecs, err := embedder.Embed(ctx, in.Examples)
		if err != nil {
			return nil, fmt.Errorf("embed examples for intent %s: %w", name, err)
		}
		for i, v := range vecs {
			vecs[i] = vector.Normalize(v)
		}

		if m.centroids[domain] == nil {
			m.centroids[domain] = make(map[string][]float32)
		}
		m.centroids[domain][name] = vector.Centroid(vecs)
		m.intents[domain] = append(m.intents[domain], name)
		total += len(in.Examples)
	}
	for domain := range m.intents {
		sort.Strings(m.intents[domain])
	}

	l.Infof(ctx, "Precomputed centroids for %d intents (%d examples)", len(doc.IntentExamples), total)

	return m, nil
}

// Predict picks the best intent for text within domain. A top similarity
// below the threshold yields the unknown intent with the similarity
// unchanged; the caller decides whether to reject it. Slot extraction runs
// regardless of the intent choice.
func (m *Matcher) Predict(ctx context.Context, text, domain string) (Prediction, error) {
	cacheKey := text + "|" + domain
	if cached, ok := m.predCache.Get(cacheKey); ok {
		return cached, nil
	}

	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	emb, err := m.embed(ctx, text)
	if err != nil {
		return Prediction{}, err
	}

	pred := Prediction{Intent: model.FallbackIntent}
	first := true
	for _, name := range m.intents[domain] {
		sim := vector.Dot(emb, m.centroids[domain][name])
		if first || sim > pred.Confidence {
			pred = Prediction{Intent: name, Confidence: sim}
			first = false
		}
	}

	if pred.Confidence < m.threshold {
		pred.Intent = model.FallbackIntent
	}

	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	pred.Semantic, pred.Entities = m.extractSlots(text)

	m.predCache.Add(cacheKey, pred)

	return pred, nil
}

// embed returns the unit-normalized embedding for text, deduplicating
// concurrent calls for the same input and caching the result.
func (m *Matcher) embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := m.embedCache.Get(text); ok {
		return cached, nil
	}

	v, err, _ := m.flight.Do(text, func() (interface{}, error) {
		vecs, err := m.embedder.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		emb := vector.Normalize(vecs[0])
		m.embedCache.Add(text, emb)
		return emb, nil
	})
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	return v.([]float32), nil
}

// extractSlots scans text for the longest non-overlapping vocabulary items
// of slot-typed groups. Per slot the leftmost longest occurrence wins; a
// later candidate replaces an earlier one only when strictly longer.
func (m *Matcher) extractSlots(text string) (semantic, entities map[string]string) {
	semantic = make(map[string]string)
	entities = make(map[string]string)

	type claim struct{ start, end int }
	var claimed []claim

	overlaps := func(start, end int) bool {
		for _, c := range claimed {
			if start < c.end && c.start < end {
				return true
			}
		}
		return false
	}

	for _, slot := range model.SlotNames {
		bestItem, bestAlias := "", ""
		bestStart, bestLen := -1, 0

		for _, g := range m.vocab.Groups() {
			if slotOf(g.ID) != slot {
				continue
			}
			for _, item := range g.Items {
				idx := indexNonOverlapping(text, item, overlaps)
				if idx < 0 {
					continue
				}
				runes := len([]rune(item))
				if runes > bestLen || (runes == bestLen && bestStart >= 0 && idx < bestStart) {
					bestItem, bestAlias = item, g.Alias
					bestStart, bestLen = idx, runes
				}
			}
		}

		if bestStart >= 0 {
			entities[slot] = bestItem
			semantic[slot] = bestAlias
			claimed = append(claimed, claim{start: bestStart, end: bestStart + len(bestItem)})
		}
	}

	return semantic, entities
}

// indexNonOverlapping finds the first occurrence of item in text whose span
// is not already claimed.
func indexNonOverlapping(text, item string, overlaps func(start, end int) bool) int {
	offset := 0
	for {
		idx := strings.Index(text[offset:], item)
		if idx < 0 {
			return -1
		}
		start := offset + idx
		end := start + len(item)
		if !overlaps(start, end) {
			return start
		}
		offset = start + 1
		if offset >= len(text) {
			return -1
		}
	}
}

func slotOf(groupID string) string {
	for prefix, slot := range slotPrefixes {
		if strings.HasPrefix(groupID, prefix) {
			return slot
		}
	}
	return ""
}

// Intents returns the intent names configured for a domain, sorted.
func (m *Matcher) Intents(domain string) []string {
	return append([]string(nil), m.intents[domain]...)
}

// IntentCount returns the total number of configured intents.
func (m *Matcher) IntentCount() int {
	n := 0
	for _, names := range m.intents {
		n += len(names)
	}
	return n
}

// CacheLen reports the prediction cache occupancy.
func (m *Matcher) CacheLen() int {
	return m.predCache.Len()
}

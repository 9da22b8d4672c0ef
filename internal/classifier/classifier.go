package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"nlu-service/pkg/embedding"
	"nlu-service/pkg/log"
	"nlu-service/pkg/vector"
)

// Prediction is one domain classification.
type Prediction struct {
	Domain     string
	Confidence float64
}

// Classifier predicts the best domain label for a sentence by cosine
// similarity against precomputed per-domain centroids.
type Classifier struct {
	l         log.Logger
	embedder  embedding.IEmbedder
	threshold float64
	fallback  string
	domains   []string // sorted, for deterministic tie-breaking
	centroids map[string][]float32
	cache     *lru.Cache[string, Prediction]
}

// New loads the domain example document ({"<domain>": ["...", ...]}), embeds
// every example, and stores one renormalized centroid per domain. The
// embedding calls happen once, at startup.
func New(ctx context.Context, l log.Logger, embedder embedding.IEmbedder, path string, threshold float64, fallback string, cacheSize int) (*Classifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read domain examples: %w", err)
	}

	var examples map[string][]string
	if err := json.Unmarshal(raw, &examples); err != nil {
		return nil, fmt.Errorf("parse domain examples: %w", err)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("no domain examples defined in %s", path)
	}

	cache, err := lru.New[string, Prediction](cacheSize)
	if err != nil {
		return nil, err
	}

	c := &Classifier{
		l:         l,
		embedder:  embedder,
		threshold: threshold,
		fallback:  fallback,
		centroids: make(map[string][]float32, len(examples)),
		cache:     cache,
	}

	for domain, texts := range examples {
		if len(texts) == 0 {
			continue
		}
		vecs, err := embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed examples for domain %s: %w", domain, err)
		}
		for i, v := range vecs {
			vecs[i] = vector.Normalize(v)
		}
		c.centroids[domain] = vector.Centroid(vecs)
		c.domains = append(c.domains, domain)
	}
	sort.Strings(c.domains)

	l.Infof(ctx, "Precomputed centroids for %d domains", len(c.domains))

	return c, nil
}

// Classify returns the best domain for text. Below-threshold matches fall
// back to the configured general domain, carrying the observed confidence.
// Equal similarities resolve alphabetically on domain name.
func (c *Classifier) Classify(ctx context.Context, text string) (Prediction, error) {
	if cached, ok := c.cache.Get(text); ok {
		return cached, nil
	}

	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	vecs, err := c.embedder.Embed(ctx, []string{text})
	if err != nil {
		return Prediction{}, fmt.Errorf("embed text: %w", err)
	}
	emb := vector.Normalize(vecs[0])

	best := Prediction{Domain: c.fallback}
	first := true
	for _, domain := range c.domains {
		sim := vector.Dot(emb, c.centroids[domain])
		if first || sim > best.Confidence {
			best = Prediction{Domain: domain, Confidence: sim}
			first = false
		}
	}

	if best.Confidence < 0 {
		best.Confidence = 0
	}
	if best.Confidence < c.threshold {
		best.Domain = c.fallback
	}

	c.cache.Add(text, best)

	return best, nil
}

// Domains returns the known domain labels in sorted order.
func (c *Classifier) Domains() []string {
	return append([]string(nil), c.domains...)
}

// CacheLen reports the current cache occupancy.
func (c *Classifier) CacheLen() int {
	return c.cache.Len()
}

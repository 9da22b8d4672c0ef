package usecase

import (
	"context"
	"time"

	"nlu-service/internal/classifier"
	"nlu-service/internal/intent"
	"nlu-service/internal/rules"
	"nlu-service/internal/vocabulary"
	"nlu-service/pkg/log"
)

// RuleMatcher is the regex path dependency.
type RuleMatcher interface {
	Match(ctx context.Context, text, domain string) (rules.Result, bool)
	RuleCount() int
}

// DomainClassifier is the embedding-based domain path dependency.
type DomainClassifier interface {
	Classify(ctx context.Context, text string) (classifier.Prediction, error)
	Domains() []string
	CacheLen() int
}

// IntentMatcher is the embedding-based intent path dependency.
type IntentMatcher interface {
	Predict(ctx context.Context, text, domain string) (intent.Prediction, error)
	IntentCount() int
	CacheLen() int
}

// Vocabulary exposes the loaded group inventory.
type Vocabulary interface {
	Groups() []vocabulary.Group
}

// Config carries the orchestration tunables.
type Config struct {
	ConfidenceThreshold float64       // gates the regex paths
	SimilarityThreshold float64       // gates the model path
	FallbackDomain      string        // used when no domain resolves
	RecognizeTimeout    time.Duration // overall deadline; zero means none
}

// implUseCase is the private implementation of nlu.UseCase.
type implUseCase struct {
	l          log.Logger
	vocab      Vocabulary
	rules      RuleMatcher
	classifier DomainClassifier
	intents    IntentMatcher
	cfg        Config
}

// New creates a new nlu UseCase implementation.
func New(l log.Logger, vocab Vocabulary, ruleMatcher RuleMatcher, domainClassifier DomainClassifier, intentMatcher IntentMatcher, cfg Config) *implUseCase {
	if cfg.FallbackDomain == "" {
		cfg.FallbackDomain = "通用"
	}
	return &implUseCase{
		l:          l,
		vocab:      vocab,
		rules:      ruleMatcher,
		classifier: domainClassifier,
		intents:    intentMatcher,
		cfg:        cfg,
	}
}

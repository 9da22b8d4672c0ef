package usecase

import (
	"context"

	"nlu-service/internal/nlu"
)

// Info reports what the pipeline loaded at startup and how full the caches
// are.
func (uc *implUseCase) Info(ctx context.Context) nlu.InfoOutput {
	return nlu.InfoOutput{
		Domains:         uc.classifier.Domains(),
		RuleCount:       uc.rules.RuleCount(),
		IntentCount:     uc.intents.IntentCount(),
		VocabularyCount: len(uc.vocab.Groups()),
		CacheSizes: map[string]int{
			"domain_predictions": uc.classifier.CacheLen(),
			"intent_predictions": uc.intents.CacheLen(),
		},
	}
}

package usecase

import (
	"context"

	"nlu-service/internal/nlu"
)

// ClassifyDomain exposes the domain classifier on its own.
func (uc *implUseCase) ClassifyDomain(ctx context.Context, text string) (nlu.DomainOutput, error) {
	pred, err := uc.classifier.Classify(ctx, text)
	if err != nil {
		return nlu.DomainOutput{}, err
	}
	return nlu.DomainOutput{
		Domain:     pred.Domain,
		Confidence: pred.Confidence,
		RawText:    text,
	}, nil
}

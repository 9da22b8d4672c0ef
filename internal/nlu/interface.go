package nlu

import (
	"context"

	"nlu-service/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	// Recognize maps an utterance to a structured semantic frame, racing the
	// regex and model paths. It never fails for request-level reasons: an
	// unrecognized utterance is a successful none result.
	Recognize(ctx context.Context, input RecognizeInput) (model.IntentData, error)

	// ClassifyDomain runs only the embedding-based domain classifier.
	ClassifyDomain(ctx context.Context, text string) (DomainOutput, error)

	// Info reports what the pipeline has loaded.
	Info(ctx context.Context) InfoOutput
}

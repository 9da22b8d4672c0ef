package embedding

import (
	"context"
)

// IEmbedder defines the interface for the sentence-embedding provider.
// Implementations are safe for concurrent use and must return vectors of a
// fixed dimension for the lifetime of the client.
type IEmbedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

package domain

import "context"

// EmbeddingPurpose tells the provider what the vectors will be used for.
type EmbeddingPurpose string

const (
	EmbeddingPurposeFinding EmbeddingPurpose = "finding"
	EmbeddingPurposeQuery   EmbeddingPurpose = "query"
)

// EmbeddingClient returns one vector per input text, in input order.
type EmbeddingClient interface {
	EmbedBatch(ctx context.Context, texts []string, purpose EmbeddingPurpose) ([][]float32, error)
}

// JudgeClient is a text-completion model used for naming, yes/no
// contradiction checks and short explanations.
type JudgeClient interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

// SynthesisJournal receives every emitted update for audit. Engines never
// read from it.
type SynthesisJournal interface {
	CreateRun(ctx context.Context, sessionID string, createdBy string) error
	AppendUpdate(ctx context.Context, sessionID string, update *SynthesisUpdate) error
	SaveFinal(ctx context.Context, sessionID string, synthesis *Synthesis) error
}

package domain

import "errors"

var (
	// ErrEmbeddingCountMismatch means the embedding provider broke its
	// one-vector-per-input contract. Alignment cannot be guessed.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
	ErrEngineFinalized        = errors.New("synthesis engine already finalized")
	// ErrUnassignedFinding means a finding ended a round outside every live theme.
	ErrUnassignedFinding = errors.New("finding not assigned to any theme")
	ErrSessionNotFound   = errors.New("synthesis session not found")
	ErrInvalidConfig     = errors.New("invalid engine config")
)

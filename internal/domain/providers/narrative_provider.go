package providers

import "context"

// NarrativeGenerator produces patient-facing narrative text from a system
// role instruction and a constructed prompt. Output length is bounded by
// maxTokens. Implementations block on network I/O and honor ctx deadlines.
type NarrativeGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

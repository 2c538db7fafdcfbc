package port

import "context"

// LLM represents a generative model used to compose grounded answers.
type LLM interface {
	// GenerateWithSystem runs a single chat-style completion with a
	// system instruction and a user message, returning the response text.
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}

// Package generation defines the text generation capability used to phrase answers.
package generation

import "context"

// Generator turns one prompt into text. Calls are independent and stateless.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

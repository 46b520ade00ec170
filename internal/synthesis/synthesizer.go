// Package synthesis phrases an answer from retrieved records through a generation model.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chitravaani/internal/domain"
	"chitravaani/internal/generation"
)

// DefaultMaxTokens caps generated answers when no limit is configured.
const DefaultMaxTokens = 256

// Synthesizer builds the constrained prompt and returns the model's text verbatim.
type Synthesizer struct {
	gen       generation.Generator
	maxTokens int
}

func New(gen generation.Generator, maxTokens int) *Synthesizer {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Synthesizer{gen: gen, maxTokens: maxTokens}
}

// Synthesize answers question from records, which must already be in rank order.
// Any model failure, including blank output, is reported as domain.ErrGeneration.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, records []domain.Record) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("no records to synthesize from: %w", domain.ErrGeneration)
	}
	prompt := BuildPrompt(BuildContext(records), question)
	text, err := s.gen.Generate(ctx, prompt, s.maxTokens)
	if err != nil {
		if errors.Is(err, domain.ErrGeneration) {
			return "", err
		}
		return "", fmt.Errorf("%s: %w: %w", s.gen.Name(), domain.ErrGeneration, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s returned blank text: %w", s.gen.Name(), domain.ErrGeneration)
	}
	return text, nil
}

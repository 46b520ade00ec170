// Package extractive answers from the prompt's context block without a language model.
// Output is deterministic: the same prompt always yields the same text.
package extractive

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"chitravaani/internal/domain"
	"chitravaani/internal/synthesis"
)

// Generator picks the "key: value" lines whose key matches a word of the question.
type Generator struct {
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewGenerator creates an extractive generator.
func NewGenerator() *Generator {
	return &Generator{
		tokenPattern: regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`),
		stopwords:    defaultStopwords(),
	}
}

func (g *Generator) Name() string { return "extractive" }

// Generate answers from the best matching context block, or returns the refusal
// text when no line matches the question. maxTokens caps the answer in words.
func (g *Generator) Generate(_ context.Context, prompt string, maxTokens int) (string, error) {
	contextBlock, question, ok := synthesis.ParsePrompt(prompt)
	if !ok {
		return "", errors.New("prompt has no context and question sections")
	}
	qTokens := g.questionTokens(question)
	if len(qTokens) == 0 {
		return domain.RefusalText, nil
	}
	blocks := parseBlocks(contextBlock)

	// Blocks whose values mention the question's words first; ties keep rank order.
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(blocks))
	for i, b := range blocks {
		scores[i] = pair{i, g.valueOverlap(qTokens, b)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	for _, p := range scores {
		lines := g.matchingLines(qTokens, blocks[p.idx])
		if len(lines) > 0 {
			return capWords(strings.Join(lines, "\n"), maxTokens), nil
		}
	}
	return domain.RefusalText, nil
}

type line struct {
	key   string
	value string
	raw   string
}

func parseBlocks(contextBlock string) [][]line {
	var blocks [][]line
	for _, chunk := range strings.Split(contextBlock, "\n\n") {
		var b []line
		for _, raw := range strings.Split(chunk, "\n") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			key, value, found := strings.Cut(raw, ": ")
			if !found {
				key, value = "", raw
			}
			b = append(b, line{key: key, value: value, raw: raw})
		}
		if len(b) > 0 {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func (g *Generator) matchingLines(qTokens []string, block []line) []string {
	best := 0
	var out []string
	for _, l := range block {
		score := 0
		for _, kt := range g.tokens(l.key) {
			for _, qt := range qTokens {
				if stemMatch(qt, kt) {
					score++
					break
				}
			}
		}
		switch {
		case score == 0 || score < best:
		case score > best:
			best = score
			out = []string{l.raw}
		default:
			out = append(out, l.raw)
		}
	}
	return out
}

func (g *Generator) valueOverlap(qTokens []string, block []line) float64 {
	seen := make(map[string]struct{})
	for _, l := range block {
		for _, t := range g.tokens(l.value) {
			seen[t] = struct{}{}
		}
	}
	n := 0
	for _, q := range qTokens {
		if _, ok := seen[q]; ok {
			n++
		}
	}
	return float64(n)
}

func (g *Generator) questionTokens(question string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, t := range g.tokens(question) {
		if _, stop := g.stopwords[t]; stop {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (g *Generator) tokens(text string) []string {
	return g.tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// stemMatch treats words sharing a long enough prefix as the same word,
// e.g. "directed" and "director", "songs" and "song".
func stemMatch(a, b string) bool {
	if a == b {
		return true
	}
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n >= 4 && n >= min(len(a), len(b))-3
}

func capWords(text string, maxWords int) string {
	if maxWords <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ")
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"who", "whom", "what", "which", "when", "where", "why", "how", "did", "does", "do", "list", "tell", "me", "give", "show", "movie", "film",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

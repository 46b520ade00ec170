// Package grounding decides whether retrieved records are enough evidence to answer a question.
package grounding

import (
	"strings"

	"chitravaani/internal/domain"
)

// Decision is the gate's binary verdict.
type Decision int

const (
	Accept Decision = iota
	RejectNoEvidence
)

func (d Decision) String() string {
	if d == Accept {
		return "accept"
	}
	return "reject_no_evidence"
}

// Result is a decision together with the rule that produced it.
type Result struct {
	Decision Decision
	Reason   string
}

const (
	ReasonEmptyQuestion  = "empty question"
	ReasonNoRetrieval    = "no records retrieved"
	ReasonUnknownSubject = "asks about a dataset attribute of a title not in the dataset"
	ReasonGrounded       = "grounded"
)

// DefaultKeywords are question words that signal a dataset-shaped attribute.
// Keywords match at word starts, so "song" also matches "songs".
func DefaultKeywords() []string {
	return []string{
		"budget", "director", "directed", "song", "cast", "imdb", "rating",
		"box office", "collection", "music", "composer", "producer", "produced",
		"award", "release", "runtime", "genre",
	}
}

// Gate holds the normalised dataset identifiers and the attribute keyword list.
type Gate struct {
	identifiers  []string
	keywords     []string
	keywordCheck bool
}

// Option configures a Gate.
type Option func(*Gate)

// WithKeywords replaces the attribute keyword list.
func WithKeywords(keywords []string) Option {
	return func(g *Gate) { g.keywords = normalizeAll(keywords) }
}

// WithoutKeywordCheck leaves only the empty-retrieval rule in force.
func WithoutKeywordCheck() Option {
	return func(g *Gate) { g.keywordCheck = false }
}

// NewGate builds a gate for a corpus with the given record identifiers.
func NewGate(identifiers []string, opts ...Option) *Gate {
	g := &Gate{
		identifiers:  normalizeAll(identifiers),
		keywords:     normalizeAll(DefaultKeywords()),
		keywordCheck: true,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// ShouldAnswer reports whether an answer may be attempted.
func (g *Gate) ShouldAnswer(question string, retrieved []domain.Scored) bool {
	return g.Check(question, retrieved).Decision == Accept
}

// Check applies the gate's rules in order.
func (g *Gate) Check(question string, retrieved []domain.Scored) Result {
	q := Normalize(question)
	if strings.TrimSpace(q) == "" {
		return Result{Decision: RejectNoEvidence, Reason: ReasonEmptyQuestion}
	}
	if len(retrieved) == 0 {
		return Result{Decision: RejectNoEvidence, Reason: ReasonNoRetrieval}
	}
	if g.keywordCheck && containsAny(q, g.keywords, true) && !g.mentionsIdentifier(q) {
		return Result{Decision: RejectNoEvidence, Reason: ReasonUnknownSubject}
	}
	return Result{Decision: Accept, Reason: ReasonGrounded}
}

// mentionsIdentifier reports whether the normalised question names a dataset identifier.
func (g *Gate) mentionsIdentifier(q string) bool {
	return containsAny(q, g.identifiers, false)
}

// containsAny matches normalised phrases against a normalised question.
// Prefix matches only need to start at a word boundary.
func containsAny(q string, phrases []string, prefix bool) bool {
	for _, p := range phrases {
		needle := p
		if prefix {
			needle = strings.TrimSuffix(p, " ")
		}
		if strings.Contains(q, needle) {
			return true
		}
	}
	return false
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		n := Normalize(s)
		if strings.TrimSpace(n) == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

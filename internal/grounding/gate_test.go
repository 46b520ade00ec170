package grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chitravaani/internal/domain"
)

var retrieved = []domain.Scored{{Record: domain.Record{Identifier: "Baahubali: The Beginning"}, Score: 0.1}}

func TestNormalize(t *testing.T) {
	assert.Equal(t, " who directed baahubali the beginning ", Normalize("Who directed  Baahubali: The Beginning?"))
	assert.Equal(t, " ", Normalize("?!"))
	// NFKC folds the full-width letters.
	assert.Equal(t, " eega ", Normalize("ＥＥＧＡ"))
}

func TestAcceptsKnownTitle(t *testing.T) {
	g := NewGate([]string{"Baahubali: The Beginning"})
	r := g.Check("Who directed Baahubali: The Beginning?", retrieved)
	assert.Equal(t, Accept, r.Decision)
	assert.Equal(t, ReasonGrounded, r.Reason)
	assert.True(t, g.ShouldAnswer("who directed baahubali the beginning", retrieved))
}

func TestRejectsAttributeOfUnknownTitle(t *testing.T) {
	g := NewGate([]string{"Baahubali: The Beginning"})
	r := g.Check("What is the budget of Avatar?", retrieved)
	assert.Equal(t, RejectNoEvidence, r.Decision)
	assert.Equal(t, ReasonUnknownSubject, r.Reason)
}

func TestKeywordMatchesWordStart(t *testing.T) {
	g := NewGate([]string{"Eega"})
	assert.False(t, g.ShouldAnswer("List the songs of Avatar", retrieved))
	// "broadcast" contains "cast" but not at a word start.
	assert.True(t, g.ShouldAnswer("Was Avatar a broadcast event?", retrieved))
}

func TestRejectsEmptyRetrieval(t *testing.T) {
	g := NewGate([]string{"Baahubali: The Beginning"})
	r := g.Check("Who directed Baahubali: The Beginning?", nil)
	assert.Equal(t, RejectNoEvidence, r.Decision)
	assert.Equal(t, ReasonNoRetrieval, r.Reason)
}

func TestRejectsEmptyQuestion(t *testing.T) {
	g := NewGate([]string{"Eega"})
	assert.Equal(t, ReasonEmptyQuestion, g.Check("  ?? ", retrieved).Reason)
}

func TestQuestionWithoutAttributeIsAccepted(t *testing.T) {
	g := NewGate([]string{"Eega"})
	assert.True(t, g.ShouldAnswer("Tell me about Avatar", retrieved))
}

func TestCustomKeywordsAndDisabledCheck(t *testing.T) {
	g := NewGate([]string{"Eega"}, WithKeywords([]string{"villain"}))
	assert.False(t, g.ShouldAnswer("Who is the villain in Avatar?", retrieved))
	assert.True(t, g.ShouldAnswer("What is the budget of Avatar?", retrieved))

	off := NewGate([]string{"Eega"}, WithoutKeywordCheck())
	assert.True(t, off.ShouldAnswer("What is the budget of Avatar?", retrieved))
	assert.False(t, off.ShouldAnswer("What is the budget of Avatar?", nil))
}

func TestIdentifierNeedsWholeWords(t *testing.T) {
	g := NewGate([]string{"Eega"})
	assert.False(t, g.mentionsIdentifier(Normalize("Who directed Eegathon?")))
	assert.True(t, g.mentionsIdentifier(Normalize("who DIRECTED eega")))
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "accept", Accept.String())
	assert.Equal(t, "reject_no_evidence", RejectNoEvidence.String())
}

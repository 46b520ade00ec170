package domain

// RefusalText is returned verbatim whenever the dataset cannot support an answer.
const RefusalText = "The requested information is not available in the provided dataset."

// UnknownIdentifier is used for records that lack the identifier field.
const UnknownIdentifier = "Unknown"

// Record is a single flattened dataset entry.
// Records are created once by the catalog and never mutated afterwards.
type Record struct {
	// Position is the record's index in the corpus.
	Position   int
	Identifier string
	Text       string
	// Vector is nil until the corpus has been indexed.
	Vector []float64
}

// Scored pairs a record with its similarity to a query.
type Scored struct {
	Record Record
	Score  float64
}

// Refusal explains why an Answer carries the refusal text.
type Refusal int

const (
	// RefusalNone means the answer text came from generation.
	RefusalNone Refusal = iota
	// RefusalNoEvidence means retrieval or the gate found nothing to ground an answer on.
	RefusalNoEvidence
	// RefusalGenerationFailed means the generation model could not be invoked.
	RefusalGenerationFailed
)

func (r Refusal) String() string {
	switch r {
	case RefusalNone:
		return "none"
	case RefusalNoEvidence:
		return "no_evidence"
	case RefusalGenerationFailed:
		return "generation_failed"
	default:
		return "unknown"
	}
}

// Answer is the result of a single question.
// When Citations is empty, Text is always RefusalText.
type Answer struct {
	Text      string
	Citations []Record
	Refusal   Refusal
	// Failure holds the generation error when Refusal is RefusalGenerationFailed.
	Failure error
}

// Refused builds a refusal answer with no citations.
func Refused(reason Refusal, cause error) Answer {
	return Answer{Text: RefusalText, Refusal: reason, Failure: cause}
}

// Identifiers returns the identifiers of the cited records in citation order.
func (a Answer) Identifiers() []string {
	out := make([]string, 0, len(a.Citations))
	for _, r := range a.Citations {
		out = append(out, r.Identifier)
	}
	return out
}

// Package lexical ranks records by word overlap with the question.
// It backs retrieval when the query embedding carries no signal.
package lexical

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"chitravaani/internal/domain"
)

var unicodeWordRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)

// Rank scores records with the Ochiai coefficient |A∩B| / sqrt(|A||B|) over
// distinct lower-cased words. Equal scores keep corpus order.
func Rank(query string, records []domain.Record, topK int) []domain.Scored {
	qset := toTokenSet(query)
	scores := make([]domain.Scored, len(records))
	for i, r := range records {
		scores[i] = domain.Scored{Record: r, Score: overlapOchiai(qset, r.Text)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	if topK <= 0 {
		topK = 5
	}
	if topK > len(scores) {
		topK = len(scores)
	}
	return scores[:topK]
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func overlapOchiai(qset map[string]struct{}, text string) float64 {
	seen := toTokenSet(text)
	if len(qset) == 0 || len(seen) == 0 {
		return 0
	}
	inter := 0
	for t := range seen {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return float64(inter) / (math.Sqrt(float64(len(qset))) * math.Sqrt(float64(len(seen))))
}

package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chitravaani/internal/domain"
)

func TestRankPrefersOverlap(t *testing.T) {
	records := []domain.Record{
		{Position: 0, Identifier: "Pushpa", Text: "movie_name: Pushpa\ndirector: Sukumar"},
		{Position: 1, Identifier: "Eega", Text: "movie_name: Eega\ndirector: Rajamouli"},
	}
	res := Rank("movies by Rajamouli", records, 3)
	assert.Len(t, res, 2)
	assert.Equal(t, "Eega", res[0].Record.Identifier)
	assert.Greater(t, res[0].Score, res[1].Score)
	assert.LessOrEqual(t, res[0].Score, 1.0)
}

func TestRankTiesKeepOrder(t *testing.T) {
	records := []domain.Record{
		{Position: 0, Identifier: "A", Text: "alpha"},
		{Position: 1, Identifier: "B", Text: "beta"},
		{Position: 2, Identifier: "C", Text: "gamma"},
	}
	res := Rank("nothing matches", records, 2)
	assert.Equal(t, "A", res[0].Record.Identifier)
	assert.Equal(t, "B", res[1].Record.Identifier)
	assert.Zero(t, res[0].Score)
}

func TestRankEmpty(t *testing.T) {
	assert.Empty(t, Rank("anything", nil, 3))
}

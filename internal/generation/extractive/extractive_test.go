package extractive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitravaani/internal/domain"
	"chitravaani/internal/synthesis"
)

const movies = "movie_name: Eega\ndirector: S. S. Rajamouli\nbudget: 26 crore\n\n" +
	"movie_name: Baahubali: The Beginning\ndirector: S. S. Rajamouli\nmusic_composer: M. M. Keeravani\nsongs: Dhivara, Manohari"

func TestGenerateAnswersFromBestBlock(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, "extractive", g.Name())

	out, err := g.Generate(context.Background(), synthesis.BuildPrompt(movies, "Who directed Baahubali: The Beginning?"), 0)
	require.NoError(t, err)
	assert.Equal(t, "director: S. S. Rajamouli", out)

	out, err = g.Generate(context.Background(), synthesis.BuildPrompt(movies, "Who composed the music for Baahubali?"), 0)
	require.NoError(t, err)
	assert.Equal(t, "music_composer: M. M. Keeravani", out)

	out, err = g.Generate(context.Background(), synthesis.BuildPrompt(movies, "What was the budget of Eega?"), 0)
	require.NoError(t, err)
	assert.Equal(t, "budget: 26 crore", out)
}

func TestGenerateRefusesWithoutMatchingField(t *testing.T) {
	g := NewGenerator()
	out, err := g.Generate(context.Background(), synthesis.BuildPrompt(movies, "What is the IMDb rating of Eega?"), 0)
	require.NoError(t, err)
	assert.Equal(t, domain.RefusalText, out)

	out, err = g.Generate(context.Background(), synthesis.BuildPrompt(movies, "Who?"), 0)
	require.NoError(t, err)
	assert.Equal(t, domain.RefusalText, out)
}

func TestGenerateCapsWords(t *testing.T) {
	out, err := NewGenerator().Generate(context.Background(), synthesis.BuildPrompt(movies, "List the songs in Baahubali"), 2)
	require.NoError(t, err)
	assert.Equal(t, "songs: Dhivara,", out)
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewGenerator()
	p := synthesis.BuildPrompt(movies, "Who directed Eega?")
	first, err := g.Generate(context.Background(), p, 0)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := g.Generate(context.Background(), p, 0)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGenerateRejectsMalformedPrompt(t *testing.T) {
	_, err := NewGenerator().Generate(context.Background(), "no sections here", 0)
	assert.Error(t, err)
}

func TestStemMatch(t *testing.T) {
	assert.True(t, stemMatch("directed", "director"))
	assert.True(t, stemMatch("songs", "song"))
	assert.True(t, stemMatch("composed", "composer"))
	assert.False(t, stemMatch("song", "sound"))
	assert.False(t, stemMatch("budget", "music"))
}

package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitravaani/internal/config"
	"chitravaani/internal/embedding"
)

func TestBuildDefaults(t *testing.T) {
	emb, err := buildEmbedder(config.EmbedderConfig{Type: "tfidf"})
	require.NoError(t, err)
	assert.Equal(t, "tfidf", emb.Name())

	gen, err := buildGenerator(config.GeneratorConfig{Type: "extractive"})
	require.NoError(t, err)
	assert.Equal(t, "extractive", gen.Name())

	_, err = buildStorage(config.VectorStoreConfig{Type: "memory"})
	require.NoError(t, err)
}

func TestBuildOllamaEmbedderIsCached(t *testing.T) {
	emb, err := buildEmbedder(config.EmbedderConfig{
		Type:   "ollama",
		OpenAI: &config.OpenAIConfig{BaseURL: "http://localhost:11434/v1", Model: "nomic-embed-text"},
	})
	require.NoError(t, err)
	assert.IsType(t, &embedding.Cached{}, emb)
	assert.Equal(t, "openai:nomic-embed-text", emb.Name())
}

func TestBuildRejectsUnknown(t *testing.T) {
	_, err := buildEmbedder(config.EmbedderConfig{Type: "bert"})
	assert.Error(t, err)
	_, err = buildStorage(config.VectorStoreConfig{Type: "faiss"})
	assert.Error(t, err)
	_, err = buildGenerator(config.GeneratorConfig{Type: "openai"})
	assert.Error(t, err)
}

func TestGateOptions(t *testing.T) {
	assert.Empty(t, gateOptions(config.GateConfig{}))
	assert.Len(t, gateOptions(config.GateConfig{Keywords: []string{"budget"}, DisableKeywordCheck: true}), 2)
}

func TestUILoggerStaysOffTerminal(t *testing.T) {
	cfg := config.LogConfig{Level: "info", Format: "text"}

	ui, closeUI, err := newLogger(cfg, false)
	require.NoError(t, err)
	defer closeUI()
	assert.False(t, ui.Enabled(context.Background(), slog.LevelWarn))

	cli, closeCLI, err := newLogger(cfg, true)
	require.NoError(t, err)
	defer closeCLI()
	assert.True(t, cli.Enabled(context.Background(), slog.LevelInfo))
}

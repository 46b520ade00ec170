package main

import (
	"fmt"
	"time"

	"chitravaani/internal/config"
	"chitravaani/internal/embedding"
	embopenai "chitravaani/internal/embedding/openai"
	"chitravaani/internal/embedding/tfidf"
	"chitravaani/internal/generation"
	"chitravaani/internal/generation/extractive"
	genopenai "chitravaani/internal/generation/openai"
	"chitravaani/internal/grounding"
	"chitravaani/internal/vectorstore"
	"chitravaani/internal/vectorstore/memory"
	"chitravaani/internal/vectorstore/qdrant"
)

func secs(n int) time.Duration { return time.Duration(n) * time.Second }

func buildEmbedder(cfg config.EmbedderConfig) (embedding.Embedder, error) {
	switch cfg.Type {
	case "tfidf", "":
		return tfidf.NewEmbedder(), nil
	case "openai", "ollama":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("%s embedder config missing", cfg.Type)
		}
		client, err := embopenai.NewClient(embopenai.Config{
			BaseURL:           cfg.OpenAI.BaseURL,
			APIKeyEnv:         cfg.OpenAI.APIKeyEnv,
			Model:             cfg.OpenAI.Model,
			Timeout:           secs(cfg.OpenAI.TimeoutSecs),
			MaxRetries:        cfg.OpenAI.MaxRetries,
			RequestsPerSecond: cfg.OpenAI.RequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
		return embedding.NewCached(client, secs(cfg.CacheTTLSecs)), nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

func buildStorage(cfg config.VectorStoreConfig) (vectorstore.Storage, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			Timeout:    secs(cfg.Qdrant.TimeoutSecs),
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}

func buildGenerator(cfg config.GeneratorConfig) (generation.Generator, error) {
	switch cfg.Type {
	case "extractive", "":
		return extractive.NewGenerator(), nil
	case "openai", "ollama":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("%s generator config missing", cfg.Type)
		}
		client, err := genopenai.NewClient(genopenai.Config{
			BaseURL:           cfg.OpenAI.BaseURL,
			APIKeyEnv:         cfg.OpenAI.APIKeyEnv,
			Model:             cfg.OpenAI.Model,
			Temperature:       cfg.Temperature,
			Timeout:           secs(cfg.OpenAI.TimeoutSecs),
			RequestsPerSecond: cfg.OpenAI.RequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Type)
	}
}

func gateOptions(cfg config.GateConfig) []grounding.Option {
	var opts []grounding.Option
	if len(cfg.Keywords) > 0 {
		opts = append(opts, grounding.WithKeywords(cfg.Keywords))
	}
	if cfg.DisableKeywordCheck {
		opts = append(opts, grounding.WithoutKeywordCheck())
	}
	return opts
}

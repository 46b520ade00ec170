package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"chitravaani/internal/domain"
)

// Client is an OpenAI-compatible embeddings client implementing the Embedder interface.
// It also understands the Ollama-native {"embedding": [...]} response shape.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	dimension  atomic.Int64
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL string
	// APIKeyEnv names the environment variable holding the API key.
	// Leave empty for servers that need no key, such as a local Ollama.
	APIKeyEnv         string
	Model             string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("missing API key in env %s: %w", cfg.APIKeyEnv, domain.ErrEmbeddingUnavailable)
		}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	c := &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		model:      cfg.Model,
		client:     &http.Client{Timeout: t},
		maxRetries: cfg.MaxRetries,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai:" + c.model }

// Dimension returns the dimensionality of the produced embedding vectors.
// It is zero until the first successful call.
func (c *Client) Dimension() int { return int(c.dimension.Load()) }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds all texts in one request and returns vectors in input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	payload, err := c.do(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %v: %w", err, domain.ErrEmbeddingUnavailable)
	}
	vecs, err := decodeEmbeddings(payload, len(texts))
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %v: %w", err, domain.ErrEmbeddingUnavailable)
	}
	c.dimension.CompareAndSwap(0, int64(len(vecs[0])))
	return vecs, nil
}

func (c *Client) do(ctx context.Context, texts []string) ([]byte, error) {
	type reqBody struct {
		Input  any    `json:"input"`
		Prompt string `json:"prompt,omitempty"`
		Model  string `json:"model"`
	}
	body := reqBody{Input: texts, Model: c.model}
	if len(texts) == 1 {
		// Ollama's native endpoint reads "prompt".
		body.Input = texts[0]
		body.Prompt = texts[0]
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	url := c.baseURL + "/embeddings"

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, lastDelay(lastErr, attempt-1)); err != nil {
				return nil, err
			}
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		payload, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = &retryableStatus{status: resp.Status, retryAfter: retryAfter(resp.Header.Get("Retry-After"))}
			continue
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%s: %s", resp.Status, bytes.TrimSpace(payload))
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}
		return payload, nil
	}
	return nil, lastErr
}

func decodeEmbeddings(payload []byte, want int) ([][]float64, error) {
	// Try OpenAI-compatible response first
	var openaiOut struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &openaiOut); err == nil && len(openaiOut.Data) > 0 {
		data := openaiOut.Data
		sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })
		if len(data) != want {
			return nil, fmt.Errorf("got %d embeddings for %d inputs", len(data), want)
		}
		out := make([][]float64, len(data))
		for i, d := range data {
			if len(d.Embedding) == 0 {
				return nil, errors.New("empty embedding")
			}
			out[i] = d.Embedding
		}
		return out, nil
	}
	// Fallback to Ollama-native shape: { "embedding": [...] }
	var ollamaOut struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(payload, &ollamaOut); err == nil && len(ollamaOut.Embedding) > 0 && want == 1 {
		return [][]float64{ollamaOut.Embedding}, nil
	}
	return nil, errors.New("no embedding returned")
}

type retryableStatus struct {
	status     string
	retryAfter time.Duration
}

func (e *retryableStatus) Error() string { return "retryable status " + e.status }

func lastDelay(err error, attempt int) time.Duration {
	var rs *retryableStatus
	if errors.As(err, &rs) && rs.retryAfter > 0 {
		return rs.retryAfter
	}
	return retryDelay(attempt)
}

func retryAfter(h string) time.Duration {
	if h == "" {
		return 0
	}
	secs, err := strconv.Atoi(h)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func retryDelay(attempt int) time.Duration {
	// 200ms << 5 already exceeds the cap; larger shifts would overflow.
	attempt = max(0, min(attempt, 5))
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

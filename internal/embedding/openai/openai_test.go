package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitravaani/internal/domain"
)

func TestEmbedBatchOrdersByIndex(t *testing.T) {
	t.Setenv("TEST_EMBED_KEY", "test-key")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		inputs, ok := body["input"].([]any)
		require.True(t, ok)
		require.Len(t, inputs, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"index":1,"embedding":[0.4,0.5]},{"index":0,"embedding":[0.1,0.2]}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_EMBED_KEY", Model: "m"})
	require.NoError(t, err)

	vecs, err := c.EmbedBatch(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0.1, 0.2}, {0.4, 0.5}}, vecs)
	assert.Equal(t, 2, c.Dimension())
	assert.Equal(t, "openai:m", c.Name())
}

func TestEmbedOllamaShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["prompt"])
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"embedding":[1,2,3]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	v, err := c.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, v)
}

func TestEmbedRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, MaxRetries: 2})
	require.NoError(t, err)
	v, err := c.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbedClientErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid key"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL, MaxRetries: 3})
	require.NoError(t, err)
	_, err = c.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestMissingKeyIsUnavailable(t *testing.T) {
	t.Setenv("TEST_EMBED_MISSING", "")
	_, err := NewClient(Config{APIKeyEnv: "TEST_EMBED_MISSING"})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCountMismatchFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = c.EmbedBatch(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestRetryDelayIsCapped(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, retryDelay(0))
	assert.Equal(t, 400*time.Millisecond, retryDelay(1))
	assert.Equal(t, 5*time.Second, retryDelay(5))
	for _, attempt := range []int{6, 40, 63, 64, 1000} {
		assert.Equal(t, 5*time.Second, retryDelay(attempt), "attempt %d", attempt)
	}
	assert.Equal(t, 200*time.Millisecond, retryDelay(-1))
}

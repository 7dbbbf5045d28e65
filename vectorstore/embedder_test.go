package vectorstore_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/soontechgroup/ai-agents-sub001/config"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashingEmbedder(t *testing.T) {
	embedder := vectorstore.NewHashingEmbedder(128)
	assert.Equal(t, 128, embedder.Dimension())

	vecs, err := embedder.Embed(t.Context(), "Hello World", "hello, world!", "")
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	// case and punctuation do not matter
	assert.Equal(t, vecs[0], vecs[1])
	assert.Len(t, vecs[0], 128)

	var norm float32
	for _, v := range vecs[0] {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 1e-5)

	// empty text embeds to the zero vector
	for _, v := range vecs[2] {
		assert.Zero(t, v)
	}
}

type countingEmbedder struct {
	inner vectorstore.Embedder
	calls atomic.Int32
	texts atomic.Int32
}

func (e *countingEmbedder) Dimension() int { return e.inner.Dimension() }

func (e *countingEmbedder) Embed(ctx context.Context, texts ...string) ([][]float32, error) {
	e.calls.Add(1)
	e.texts.Add(int32(len(texts)))
	return e.inner.Embed(ctx, texts...)
}

func TestCachedEmbedder(t *testing.T) {
	inner := &countingEmbedder{inner: vectorstore.NewHashingEmbedder(32)}
	cached, err := vectorstore.NewCachedEmbedder(inner, 100)
	require.NoError(t, err)
	defer cached.Close()

	first, err := cached.Embed(t.Context(), "alpha", "beta")
	require.NoError(t, err)

	second, err := cached.Embed(t.Context(), "beta", "gamma", "alpha")
	require.NoError(t, err)

	assert.Equal(t, first[0], second[2])
	assert.Equal(t, first[1], second[0])
	assert.EqualValues(t, 2, inner.calls.Load())
	assert.EqualValues(t, 3, inner.texts.Load())
	assert.Equal(t, 32, cached.Dimension())

	_, err = vectorstore.NewCachedEmbedder(inner, 0)
	assert.Error(t, err)
}

func TestCachedEmbedder_HoldsConfiguredSize(t *testing.T) {
	inner := &countingEmbedder{inner: vectorstore.NewHashingEmbedder(16)}
	cached, err := vectorstore.NewCachedEmbedder(inner, 1000)
	require.NoError(t, err)
	defer cached.Close()

	texts := make([]string, 500)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d", i)
	}

	_, err = cached.Embed(t.Context(), texts...)
	require.NoError(t, err)
	_, err = cached.Embed(t.Context(), texts...)
	require.NoError(t, err)

	assert.EqualValues(t, 1, inner.calls.Load())
	assert.EqualValues(t, 500, inner.texts.Load())
}

func newEmbeddingServer(t *testing.T, dims int, count *int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Input      []string `json:"input"`
			Model      string   `json:"model"`
			Dimensions int      `json:"dimensions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "text-embedding-3-small", req.Model)

		n := len(req.Input)
		if count != nil {
			n = *count
		}
		data := make([]map[string]any, 0, n)
		// reply in reverse index order to check reordering
		for i := n - 1; i >= 0; i-- {
			vec := make([]float64, dims)
			vec[i%dims] = 1
			data = append(data, map[string]any{"object": "embedding", "index": i, "embedding": vec})
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
			"usage":  map[string]any{"prompt_tokens": 1, "total_tokens": 1},
		}))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIEmbedder_Embed(t *testing.T) {
	server := newEmbeddingServer(t, 4, nil)

	embedder, err := vectorstore.NewOpenAIEmbedder("sk-test", "", 4,
		option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	require.NoError(t, err)

	vecs, err := embedder.Embed(t.Context(), "first", "second")
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{1, 0, 0, 0}, vecs[0])
	assert.Equal(t, []float32{0, 1, 0, 0}, vecs[1])
}

func TestOpenAIEmbedder_ContractViolation(t *testing.T) {
	one := 1
	server := newEmbeddingServer(t, 4, &one)
	embedder, err := vectorstore.NewOpenAIEmbedder("sk-test", "", 4,
		option.WithBaseURL(server.URL+"/"), option.WithMaxRetries(0))
	require.NoError(t, err)

	_, err = embedder.Embed(t.Context(), "first", "second")
	assert.True(t, errors.Is(err, errors.ErrContractViolation))

	wrongDim, err := vectorstore.NewOpenAIEmbedder("sk-test", "", 8,
		option.WithBaseURL(newEmbeddingServer(t, 4, nil).URL+"/"), option.WithMaxRetries(0))
	require.NoError(t, err)
	_, err = wrongDim.Embed(t.Context(), "first")
	assert.True(t, errors.Is(err, errors.ErrContractViolation))
}

func TestOpenAIEmbedder_RequiresAPIKey(t *testing.T) {
	_, err := vectorstore.NewOpenAIEmbedder("", "", 0)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestFactories(t *testing.T) {
	conf := config.NewVectorConfig()
	conf.EmbeddingProvider = config.EmbeddingProviderHashing

	embedder, err := vectorstore.NewEmbedderFromConfig(conf, "")
	require.NoError(t, err)
	assert.IsType(t, &vectorstore.CachedEmbedder{}, embedder)
	assert.Equal(t, 384, embedder.Dimension())

	conf.EmbeddingCacheSize = 0
	embedder, err = vectorstore.NewEmbedderFromConfig(conf, "")
	require.NoError(t, err)
	assert.IsType(t, &vectorstore.HashingEmbedder{}, embedder)

	conf.EmbeddingProvider = config.EmbeddingProviderOpenAI
	_, err = vectorstore.NewEmbedderFromConfig(conf, "")
	assert.Error(t, err)

	store, err := vectorstore.NewStoreFromConfig(conf)
	require.NoError(t, err)
	assert.IsType(t, &vectorstore.InMemoryStore{}, store)

	conf.Backend = config.VectorBackendChromem
	store, err = vectorstore.NewStoreFromConfig(conf)
	require.NoError(t, err)
	assert.IsType(t, &vectorstore.ChromemStore{}, store)
}

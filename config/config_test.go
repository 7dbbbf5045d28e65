package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soontechgroup/ai-agents-sub001/config"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	conf := config.New()

	assert.Equal(t, "auto", conf.Search.PreferredProvider)
	assert.Equal(t, 10*time.Second, conf.Search.ProviderTimeout)
	assert.Equal(t, config.VectorBackendMemory, conf.Vector.Backend)
	assert.Equal(t, 5, conf.Workflow.RetrievalK)
	assert.Equal(t, int64(300), conf.LLM.FactMaxTokens)
	assert.Equal(t, "gpt-4o-mini", conf.LLM.Model())
	assert.Equal(t, 20, conf.Graph.NeighborLimit)
	require.NoError(t, conf.Validate())
}

func TestResolve_EnvironmentOverrides(t *testing.T) {
	conf := config.New()

	err := conf.Resolve(map[string]any{
		"SEARCH_PROVIDER":         "duckduckgo",
		"SERPER_API_KEY":          "serper-key",
		"SEARCH_RSS_FEEDS":        "https://a.example/rss,https://b.example/rss",
		"SEARCH_PROVIDER_TIMEOUT": "3s",
		"WORKFLOW_RETRIEVAL_K":    "7",
		"GRAPH_ENABLED":           "true",
		"LOG_LEVEL":               "debug",
	})
	require.NoError(t, err)

	assert.Equal(t, "duckduckgo", conf.Search.PreferredProvider)
	assert.Equal(t, "serper-key", conf.Search.SerperAPIKey)
	assert.Equal(t, []string{"https://a.example/rss", "https://b.example/rss"}, conf.Search.RSSFeeds)
	assert.Equal(t, 3*time.Second, conf.Search.ProviderTimeout)
	assert.Equal(t, 7, conf.Workflow.RetrievalK)
	assert.True(t, conf.Graph.Enabled)
	assert.Equal(t, "debug", conf.Log.LogLevel)

	// untouched values keep their defaults
	assert.True(t, conf.Search.DuckDuckGoEnabled)
	assert.Equal(t, "bolt://localhost:7687", conf.Graph.URI)
}

func TestResolve_EmbeddingProviderFollowsCredentials(t *testing.T) {
	conf := config.New()
	require.NoError(t, conf.Resolve(map[string]any{}))
	assert.Equal(t, config.EmbeddingProviderHashing, conf.Vector.EmbeddingProvider)
	assert.Equal(t, 384, conf.Vector.Dimension())

	conf = config.New()
	require.NoError(t, conf.Resolve(map[string]any{"OPENAI_API_KEY": "sk-test"}))
	assert.Equal(t, config.EmbeddingProviderOpenAI, conf.Vector.EmbeddingProvider)
	assert.Equal(t, 1536, conf.Vector.Dimension())
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
vector:
  backend: chromem
  chromemPath: /tmp/chromem
workflow:
  retrievalK: 3
llm:
  provider: anthropic
`), 0o644))

	conf := config.New()
	require.NoError(t, config.LoadFile(file, conf))

	assert.Equal(t, config.VectorBackendChromem, conf.Vector.Backend)
	assert.Equal(t, "/tmp/chromem", conf.Vector.ChromemPath)
	assert.Equal(t, 3, conf.Workflow.RetrievalK)
	assert.Equal(t, "claude-3-5-haiku-latest", conf.LLM.Model())
	// sections absent from the file keep defaults
	assert.Equal(t, 20, conf.Graph.NeighborLimit)
	assert.Equal(t, "auto", conf.Search.PreferredProvider)
}

func TestValidate(t *testing.T) {
	conf := config.New()
	conf.Vector.Backend = "faiss"
	assert.True(t, errors.Is(conf.Validate(), errors.ErrInvalidConfig))

	conf = config.New()
	conf.Graph.Enabled = true
	conf.Graph.URI = ""
	assert.True(t, errors.Is(conf.Validate(), errors.ErrInvalidConfig))

	conf = config.New()
	conf.LLM.Provider = "cohere"
	assert.Error(t, conf.Validate())
}

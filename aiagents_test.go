package aiagents_test

import (
	"context"
	"testing"
	"time"

	aiagents "github.com/soontechgroup/ai-agents-sub001"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/extraction"
	"github.com/soontechgroup/ai-agents-sub001/graphstore"
	"github.com/soontechgroup/ai-agents-sub001/hybrid"
	"github.com/soontechgroup/ai-agents-sub001/internal/mytesting"
	"github.com/soontechgroup/ai-agents-sub001/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type stubKnowledge struct {
	knowledge *extraction.Knowledge
}

func (s stubKnowledge) ExtractKnowledge(context.Context, string) (*extraction.Knowledge, error) {
	return s.knowledge, nil
}

type stubFacts struct{}

func (stubFacts) Extract(context.Context, string, string) (map[string]any, error) {
	return map[string]any{"favorite_language": "Go"}, nil
}

type EngineTestSuite struct {
	mytesting.Suite

	engine *aiagents.Engine
}

func (s *EngineTestSuite) SetupTest() {
	s.Suite.SetupTest()

	chain := search.NewChain([]search.Provider{search.NewMockProvider()}, "", time.Second, nil)

	engine, err := aiagents.NewEngine(s.Context,
		aiagents.WithSearchChain(chain),
		aiagents.WithFactExtractor(stubFacts{}),
		aiagents.WithKnowledgeExtractor(stubKnowledge{knowledge: &extraction.Knowledge{
			Entities: []graphstore.Entity{
				{Name: "Alice", Type: "person", Description: "software engineer"},
				{Name: "Acme", Type: "organization", Description: "employer"},
			},
			Relationships: []graphstore.Relationship{
				{Source: "Alice", Target: "Acme", Relation: "WORKS_AT", Description: "since 2020"},
			},
		}}),
	)
	s.Require().NoError(err)
	s.engine = engine
}

func (s *EngineTestSuite) TearDownTest() {
	s.NoError(s.engine.Close(s.Context))
	s.Suite.TearDownTest()
}

func (s *EngineTestSuite) TestStoreThenRetrieve() {
	ctx := s.Context

	stored, err := s.engine.Store(ctx, "My favorite language is Go", "Go is a great choice", 1, "conv-1")
	s.Require().NoError(err)
	s.True(stored.Success)
	s.Empty(stored.Errors)
	s.Equal("conv-1", stored.ConversationID)
	s.NotEmpty(stored.MemoryID)

	result, err := s.engine.Retrieve(ctx, "My favorite language is Go", 1, 5)
	s.Require().NoError(err)
	s.Require().Len(result.Memories, 1)
	s.Equal("User: My favorite language is Go\nAssistant: Go is a great choice", result.Memories[0])
	s.Equal(result.Memories, result.Context)
	s.Equal("Go", result.Facts["favorite_language"])
	s.Contains(result.Sources, aiagents.SourceMemory)
	s.InDelta(0.5, result.Confidence, 1e-9)
	s.Equal(false, result.Metadata["used_web_search"])
	s.NotEmpty(result.MemoryContext)
}

func (s *EngineTestSuite) TestStoreRejectsBlankText() {
	ctx := s.Context

	_, err := s.engine.Store(ctx, "", "Go is a great choice", 1, "")
	s.ErrorIs(err, errors.ErrInvalidParams)
	_, err = s.engine.Store(ctx, "My favorite language is Go", "  ", 1, "")
	s.ErrorIs(err, errors.ErrInvalidParams)

	result, err := s.engine.Retrieve(ctx, "My favorite language is Go", 1, 5)
	s.Require().NoError(err)
	s.Empty(result.Memories)
}

func (s *EngineTestSuite) TestRetrieveIsOwnerScoped() {
	ctx := s.Context

	_, err := s.engine.Store(ctx, "My favorite language is Go", "Go is a great choice", 1, "")
	s.Require().NoError(err)
	_, err = s.engine.IndexKnowledge(ctx, 1, "Alice works at Acme")
	s.Require().NoError(err)

	result, err := s.engine.Retrieve(ctx, "My favorite language is Go", 2, 5)
	s.Require().NoError(err)
	s.Empty(result.Memories)
	s.Empty(result.Facts)
	s.NotContains(result.Sources, aiagents.SourceMemory)
	s.NotContains(result.Sources, aiagents.SourceKnowledgeGraph)
}

func (s *EngineTestSuite) TestRetrieveWithWebSearch() {
	result, err := s.engine.Retrieve(s.Context, "latest news on AI", 1, 5)
	s.Require().NoError(err)

	s.Len(result.WebResults, 3)
	s.Contains(result.Sources, aiagents.SourceWebSearch)
	s.Contains(result.Sources, result.WebResults[0].URL)
	s.Equal(true, result.Metadata["used_web_search"])
	s.Equal("current_information", result.Metadata["intent"])
	s.InDelta(0.8, result.Confidence, 1e-9)
	s.NotEmpty(result.ToolContext)
}

func (s *EngineTestSuite) TestIndexKnowledgeAndHybridSearch() {
	ctx := s.Context

	stats, err := s.engine.IndexKnowledge(ctx, 1, "Alice is a software engineer at Acme")
	s.Require().NoError(err)
	s.Equal(&hybrid.IndexStats{Entities: 2, Relationships: 1}, stats)

	found, err := s.engine.HybridSearch(ctx, hybrid.Request{Query: "Alice", OwnerID: 1, ExpandGraph: true})
	s.Require().NoError(err)
	s.Len(found.Entities, 2)
	s.Len(found.Relationships, 1)

	result, err := s.engine.Retrieve(ctx, "Where does Alice work", 1, 5)
	s.Require().NoError(err)
	s.Contains(result.Sources, aiagents.SourceKnowledgeGraph)
	s.Contains(result.KnowledgeContext, "- Alice: software engineer")
}

func (s *EngineTestSuite) TestClear() {
	ctx := s.Context

	_, err := s.engine.Store(ctx, "My favorite language is Go", "Go is a great choice", 1, "")
	s.Require().NoError(err)
	_, err = s.engine.IndexKnowledge(ctx, 1, "Alice works at Acme")
	s.Require().NoError(err)

	s.Require().NoError(s.engine.Clear(ctx, 1))

	result, err := s.engine.Retrieve(ctx, "My favorite language is Go", 1, 5)
	s.Require().NoError(err)
	s.Empty(result.Memories)
	s.Require().NotNil(result.Knowledge)
	s.Empty(result.Knowledge.Entities)
}

func TestEngine(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func TestEngine_NoStores(t *testing.T) {
	engine, err := aiagents.NewEngine(t.Context(), aiagents.WithoutDefaultStores())
	require.NoError(t, err)

	_, err = engine.Retrieve(t.Context(), "hello", 1, 5)
	assert.ErrorIs(t, err, errors.ErrConfiguration)

	_, err = engine.Store(t.Context(), "hello", "hi", 1, "")
	assert.ErrorIs(t, err, errors.ErrConfiguration)

	_, err = engine.HybridSearch(t.Context(), hybrid.Request{Query: "hello"})
	assert.ErrorIs(t, err, errors.ErrConfiguration)
}

func TestEngine_StoreWithoutVectorStore(t *testing.T) {
	engine, err := aiagents.NewEngine(t.Context(),
		aiagents.WithoutDefaultStores(),
		aiagents.WithGraphStore(graphstore.NewInMemoryStore()),
		aiagents.WithFactExtractor(stubFacts{}),
	)
	require.NoError(t, err)

	result, err := engine.Store(t.Context(), "My favorite language is Go", "Nice", 1, "")
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "store_memory")
	assert.Equal(t, "Go", result.Facts["favorite_language"])
}

func TestEngine_IndexKnowledgeWithoutExtractor(t *testing.T) {
	engine, err := aiagents.NewEngine(t.Context())
	require.NoError(t, err)

	_, err = engine.IndexKnowledge(t.Context(), 1, "Alice works at Acme")
	assert.ErrorIs(t, err, errors.ErrConfiguration)
}

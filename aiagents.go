package aiagents

import (
	"context"
	"strings"

	"github.com/soontechgroup/ai-agents-sub001/config"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/extraction"
	"github.com/soontechgroup/ai-agents-sub001/graphstore"
	"github.com/soontechgroup/ai-agents-sub001/hybrid"
	"github.com/soontechgroup/ai-agents-sub001/internal/mylog"
	"github.com/soontechgroup/ai-agents-sub001/search"
	"github.com/soontechgroup/ai-agents-sub001/vectorstore"
	"github.com/soontechgroup/ai-agents-sub001/workflow"
)

type (
	Engine struct {
		conf   *config.Config
		logger *mylog.Logger

		vectors            vectorstore.Store
		embedder           vectorstore.Embedder
		graph              graphstore.Store
		chain              *search.Chain
		facts              extraction.FactExtractor
		knowledgeExtractor extraction.KnowledgeExtractor

		hybrid  *hybrid.Engine
		indexer *hybrid.Indexer
		runner  *workflow.Runner

		skipDefaultStores bool
	}
	Option func(*Engine)
)

// memoryCollections are cleared together by Clear.
var memoryCollections = []string{
	vectorstore.CollectionConversationMemory,
	vectorstore.CollectionEntities,
	vectorstore.CollectionRelationships,
}

func NewEngine(ctx context.Context, optionFuncs ...Option) (*Engine, error) {
	e := &Engine{
		conf: config.New(),
	}
	for _, f := range optionFuncs {
		f(e)
	}

	if e.logger == nil {
		e.logger = mylog.NewLogger(e.conf.Log.LogLevel, e.conf.Log.LogHandler)
	}

	var err error
	if !e.skipDefaultStores {
		if e.vectors == nil {
			if e.vectors, err = vectorstore.NewStoreFromConfig(&e.conf.Vector); err != nil {
				return nil, err
			}
		}
		if e.graph == nil {
			if e.graph, err = graphstore.NewStoreFromConfig(ctx, &e.conf.Graph, e.logger); err != nil {
				return nil, err
			}
		}
	}

	if e.embedder == nil {
		if e.embedder, err = vectorstore.NewEmbedderFromConfig(&e.conf.Vector, e.conf.LLM.OpenAIAPIKey); err != nil {
			return nil, err
		}
	}

	if e.chain == nil {
		e.chain = search.NewChainFromConfig(&e.conf.Search, e.logger)
	}

	if (e.facts == nil || e.knowledgeExtractor == nil) && e.conf.LLM.Available() {
		completer, err := extraction.NewCompleterFromConfig(&e.conf.LLM)
		if err != nil {
			return nil, err
		}
		if e.facts == nil {
			e.facts = extraction.NewFactExtractor(completer, e.logger)
		}
		if e.knowledgeExtractor == nil {
			e.knowledgeExtractor = extraction.NewKnowledgeExtractor(completer, e.logger)
		}
	}
	if e.facts == nil {
		e.logger.Info("no llm credentials configured, fact extraction disabled", "provider", e.conf.LLM.Provider)
	}

	runnerOpts := []workflow.Option{
		workflow.WithConfig(&e.conf.Workflow),
		workflow.WithLogger(e.logger),
		workflow.WithSearcher(e.chain),
	}
	if e.vectors != nil {
		e.hybrid = hybrid.NewEngine(e.vectors, e.embedder, e.graph,
			hybrid.WithLogger(e.logger),
			hybrid.WithCallTimeout(e.conf.Workflow.CallTimeout),
		)
		e.indexer = hybrid.NewIndexer(e.vectors, e.embedder, e.graph, e.logger)
		runnerOpts = append(runnerOpts,
			workflow.WithVectorStore(e.vectors, e.embedder),
			workflow.WithKnowledgeSearcher(e.hybrid),
		)
	}
	if e.facts != nil {
		runnerOpts = append(runnerOpts, workflow.WithFactExtractor(e.facts))
	}
	e.runner = workflow.NewRunner(runnerOpts...)

	return e, nil
}

// Retrieve runs the retrieval workflow. Stage failures are reported in
// the result metadata; the error is non-nil only when no store is bound.
func (e *Engine) Retrieve(ctx context.Context, query string, ownerID int64, maxResults int) (*RetrievalResult, error) {
	if e.vectors == nil && e.graph == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "neither a vector store nor a graph store is configured")
	}
	if maxResults <= 0 {
		maxResults = e.conf.Workflow.RetrievalK
	}

	state := e.runner.RunRetrieval(ctx, query, ownerID)
	return newRetrievalResult(state, maxResults), nil
}

// Store runs the storage workflow for one exchange. Success is false when
// any stage failed; Errors then lists the failures. Both utterance and
// response must be non-blank.
func (e *Engine) Store(ctx context.Context, utterance, response string, ownerID int64, conversationID string) (*StoreResult, error) {
	if e.vectors == nil && e.graph == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "neither a vector store nor a graph store is configured")
	}
	if strings.TrimSpace(utterance) == "" || strings.TrimSpace(response) == "" {
		return nil, errors.Wrap(errors.ErrInvalidParams, "utterance and response are required")
	}

	state := e.runner.RunStorage(ctx, utterance, response, ownerID, conversationID)
	return newStoreResult(state), nil
}

func (e *Engine) HybridSearch(ctx context.Context, req hybrid.Request) (*hybrid.Result, error) {
	if e.hybrid == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "hybrid search requires a vector store")
	}
	return e.hybrid.Search(ctx, req)
}

// IndexKnowledge extracts entities and relationships from text and writes
// them to the owner's vector collections and graph.
func (e *Engine) IndexKnowledge(ctx context.Context, ownerID int64, text string) (*hybrid.IndexStats, error) {
	if e.knowledgeExtractor == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "knowledge extraction requires llm credentials")
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.Wrap(errors.ErrInvalidParams, "text is required")
	}

	knowledge, err := e.knowledgeExtractor.ExtractKnowledge(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.IndexEntities(ctx, ownerID, knowledge.Entities, knowledge.Relationships)
}

// IndexEntities writes pre-extracted knowledge.
func (e *Engine) IndexEntities(ctx context.Context, ownerID int64, entities []graphstore.Entity, relationships []graphstore.Relationship) (*hybrid.IndexStats, error) {
	if e.indexer == nil {
		return nil, errors.Wrap(errors.ErrConfiguration, "indexing requires a vector store")
	}
	return e.indexer.Index(ctx, ownerID, entities, relationships)
}

// Clear deletes everything stored for ownerID.
func (e *Engine) Clear(ctx context.Context, ownerID int64) error {
	if e.vectors != nil {
		for _, collection := range memoryCollections {
			if err := e.vectors.DeleteOwner(ctx, collection, ownerID); err != nil {
				return errors.Wrapf(err, "failed to clear %s", collection)
			}
		}
	}
	if e.graph != nil {
		if err := e.graph.DeleteOwner(ctx, ownerID); err != nil {
			return err
		}
	}

	e.logger.Info("cleared owner memory", "owner_id", ownerID)
	return nil
}

func (e *Engine) SearchChain() *search.Chain {
	return e.chain
}

func (e *Engine) Close(ctx context.Context) error {
	var err error
	if e.vectors != nil {
		err = e.vectors.Close()
	}
	if e.graph != nil {
		if gerr := e.graph.Close(ctx); err == nil {
			err = gerr
		}
	}
	if cached, ok := e.embedder.(*vectorstore.CachedEmbedder); ok {
		cached.Close()
	}
	return err
}

func WithConfig(conf *config.Config) Option {
	return func(e *Engine) {
		e.conf = conf
	}
}

func WithLogger(logger *mylog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithVectorStore(store vectorstore.Store) Option {
	return func(e *Engine) {
		e.vectors = store
	}
}

func WithEmbedder(embedder vectorstore.Embedder) Option {
	return func(e *Engine) {
		e.embedder = embedder
	}
}

func WithGraphStore(store graphstore.Store) Option {
	return func(e *Engine) {
		e.graph = store
	}
}

func WithSearchChain(chain *search.Chain) Option {
	return func(e *Engine) {
		e.chain = chain
	}
}

func WithFactExtractor(facts extraction.FactExtractor) Option {
	return func(e *Engine) {
		e.facts = facts
	}
}

func WithKnowledgeExtractor(extractor extraction.KnowledgeExtractor) Option {
	return func(e *Engine) {
		e.knowledgeExtractor = extractor
	}
}

// WithoutDefaultStores keeps stores that were not passed explicitly unbound.
func WithoutDefaultStores() Option {
	return func(e *Engine) {
		e.skipDefaultStores = true
	}
}

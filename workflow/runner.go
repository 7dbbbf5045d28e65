// Package workflow drives a single conversation through the storage and
// retrieval workflows.
package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/soontechgroup/ai-agents-sub001/config"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/extraction"
	"github.com/soontechgroup/ai-agents-sub001/hybrid"
	"github.com/soontechgroup/ai-agents-sub001/internal/mylog"
	"github.com/soontechgroup/ai-agents-sub001/search"
	"github.com/soontechgroup/ai-agents-sub001/vectorstore"
)

type (
	// Searcher is the web search fallback chain.
	Searcher interface {
		Search(ctx context.Context, query string, maxResults int, provider string) ([]search.Result, error)
	}

	// KnowledgeSearcher is the hybrid retrieval engine.
	KnowledgeSearcher interface {
		Search(ctx context.Context, req hybrid.Request) (*hybrid.Result, error)
	}

	step struct {
		stage Stage
		run   func(ctx context.Context, state *ConversationState) error
		// when gates optional steps; nil means always run
		when func(state *ConversationState) bool
	}

	Runner struct {
		vectors   vectorstore.Store
		embedder  vectorstore.Embedder
		facts     extraction.FactExtractor
		searcher  Searcher
		knowledge KnowledgeSearcher
		conf      *config.WorkflowConfig
		logger    *mylog.Logger
		now       func() time.Time

		storage   []step
		retrieval []step
	}

	Option func(*Runner)
)

func WithVectorStore(store vectorstore.Store, embedder vectorstore.Embedder) Option {
	return func(r *Runner) {
		r.vectors, r.embedder = store, embedder
	}
}

func WithFactExtractor(facts extraction.FactExtractor) Option {
	return func(r *Runner) {
		r.facts = facts
	}
}

func WithSearcher(searcher Searcher) Option {
	return func(r *Runner) {
		r.searcher = searcher
	}
}

func WithKnowledgeSearcher(knowledge KnowledgeSearcher) Option {
	return func(r *Runner) {
		r.knowledge = knowledge
	}
}

func WithConfig(conf *config.WorkflowConfig) Option {
	return func(r *Runner) {
		r.conf = conf
	}
}

func WithLogger(logger *mylog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		conf: config.NewWorkflowConfig(),
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = mylog.OrDefault(r.logger)

	r.storage = []step{
		{stage: StageParseInput, run: r.parseInput},
		{stage: StageExtractFacts, run: r.extractFacts},
		{stage: StageStoreMemory, run: r.storeMemory},
	}
	r.retrieval = []step{
		{stage: StageParseInput, run: r.parseInput},
		{stage: StageClassifyIntent, run: r.classifyIntent},
		{stage: StageEvaluateTools, run: r.evaluateTools},
		{stage: StageExecuteTools, run: r.executeTools, when: func(s *ConversationState) bool {
			return s.NeedsExternalTool
		}},
		{stage: StageRetrieveContext, run: r.retrieveContext},
		{stage: StageCombineResults, run: r.combineResults},
	}
	return r
}

// RunStorage runs parse, extract facts and store memory. An empty
// conversationID gets a random one.
func (r *Runner) RunStorage(ctx context.Context, utterance, response string, ownerID int64, conversationID string) *ConversationState {
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	state := newState(ownerID, conversationID, r.now())
	state.Utterance, state.Response = utterance, response

	r.run(ctx, state, r.storage)
	return state
}

// RunRetrieval runs the retrieval workflow for query. Web search only runs
// when the evaluate stage asks for it.
func (r *Runner) RunRetrieval(ctx context.Context, query string, ownerID int64) *ConversationState {
	state := newState(ownerID, uuid.NewString(), r.now())
	state.Query = query

	r.run(ctx, state, r.retrieval)
	return state
}

// run executes steps in order and stops at the first stage error. The
// returned state keeps whatever earlier stages produced.
func (r *Runner) run(ctx context.Context, state *ConversationState, steps []step) {
	for _, s := range steps {
		if s.when != nil && !s.when(state) {
			continue
		}

		state.ProcessingLog = append(state.ProcessingLog, s.stage)
		r.logger.Debug("running stage", "stage", s.stage, "conversation_id", state.ConversationID)

		if err := s.run(ctx, state); err != nil {
			stageErr := errors.NewStageError(string(s.stage), err)
			r.logger.Warn("stage failed", "stage", s.stage, "owner_id", state.OwnerID, "err", err)
			state.Errors = append(state.Errors, stageErr.Error())
			return
		}
	}
}

func (r *Runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.conf.CallTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.conf.CallTimeout)
}

package aiagents

import (
	"github.com/samber/lo"
	"github.com/soontechgroup/ai-agents-sub001/hybrid"
	"github.com/soontechgroup/ai-agents-sub001/internal/sliceutils"
	"github.com/soontechgroup/ai-agents-sub001/search"
	"github.com/soontechgroup/ai-agents-sub001/vectorstore"
	"github.com/soontechgroup/ai-agents-sub001/workflow"
)

const (
	SourceMemory         = "Memory"
	SourceKnowledgeGraph = "Knowledge Graph"
	SourceWebSearch      = "Web Search"
)

type (
	RetrievalResult struct {
		Memories         []string        `json:"memories"`
		Context          []string        `json:"context"`
		Facts            map[string]any  `json:"facts"`
		WebResults       []search.Result `json:"web_results"`
		Knowledge        *hybrid.Result  `json:"knowledge,omitempty"`
		Confidence       float64         `json:"confidence"`
		Sources          []string        `json:"sources"`
		MemoryContext    string          `json:"memory_context,omitempty"`
		ToolContext      string          `json:"tool_context,omitempty"`
		KnowledgeContext string          `json:"knowledge_context,omitempty"`
		Metadata         map[string]any  `json:"metadata"`
	}

	StoreResult struct {
		Success        bool           `json:"success"`
		MemoryID       string         `json:"memory_id,omitempty"`
		ConversationID string         `json:"conversation_id"`
		Facts          map[string]any `json:"facts"`
		Errors         []string       `json:"errors,omitempty"`
		Warnings       []string       `json:"warnings,omitempty"`
	}
)

func newRetrievalResult(state *workflow.ConversationState, maxResults int) *RetrievalResult {
	contents := lo.Map(state.Memories, func(m vectorstore.Match, _ int) string {
		return m.Content
	})

	return &RetrievalResult{
		Memories:         sliceutils.Head(contents, maxResults),
		Context:          sliceutils.Head(contents, 3),
		Facts:            state.Facts,
		WebResults:       state.ToolResults,
		Knowledge:        state.Knowledge,
		Confidence:       state.IntentConfidence,
		Sources:          sources(state),
		MemoryContext:    state.MemoryContext,
		ToolContext:      state.ToolContext,
		KnowledgeContext: state.KnowledgeContext,
		Metadata: map[string]any{
			"intent":            state.Intent,
			"processing_stages": state.ProcessingLog,
			"used_web_search":   state.NeedsExternalTool,
			"conversation_id":   state.ConversationID,
			"errors":            state.Errors,
			"warnings":          state.Warnings,
		},
	}
}

func sources(state *workflow.ConversationState) []string {
	sources := []string{}
	if len(state.Memories) > 0 {
		sources = append(sources, SourceMemory)
	}
	if state.Knowledge != nil && len(state.Knowledge.Entities) > 0 {
		sources = append(sources, SourceKnowledgeGraph)
	}
	if len(state.ToolResults) > 0 {
		sources = append(sources, SourceWebSearch)
		for _, r := range state.ToolResults {
			if r.URL != "" {
				sources = append(sources, r.URL)
			}
		}
	}
	return sources
}

func newStoreResult(state *workflow.ConversationState) *StoreResult {
	return &StoreResult{
		Success:        !state.HasErrors(),
		MemoryID:       state.MemoryID,
		ConversationID: state.ConversationID,
		Facts:          state.Facts,
		Errors:         state.Errors,
		Warnings:       state.Warnings,
	}
}

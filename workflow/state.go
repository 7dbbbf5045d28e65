package workflow

import (
	"time"

	"github.com/soontechgroup/ai-agents-sub001/hybrid"
	"github.com/soontechgroup/ai-agents-sub001/search"
	"github.com/soontechgroup/ai-agents-sub001/vectorstore"
)

type Stage string

const (
	StageParseInput      Stage = "parse_input"
	StageClassifyIntent  Stage = "classify_intent"
	StageExtractFacts    Stage = "extract_facts"
	StageEvaluateTools   Stage = "evaluate_tools"
	StageExecuteTools    Stage = "execute_tools"
	StageStoreMemory     Stage = "store_memory"
	StageRetrieveContext Stage = "retrieve_context"
	StageCombineResults  Stage = "combine_results"
)

const (
	IntentCurrentInformation = "current_information"
	IntentFactualQuestion    = "factual_question"
	IntentInstructional      = "instructional"
	IntentConversational     = "conversational"
)

// ConversationState is threaded through one workflow run. It is created
// per request and never persisted as-is.
type ConversationState struct {
	Utterance      string    `json:"utterance,omitempty"`
	Response       string    `json:"response,omitempty"`
	Query          string    `json:"query,omitempty"`
	OwnerID        int64     `json:"owner_id"`
	ConversationID string    `json:"conversation_id"`
	CreatedAt      time.Time `json:"created_at"`

	Intent            string  `json:"intent"`
	IntentConfidence  float64 `json:"intent_confidence"`
	NeedsExternalTool bool    `json:"needs_external_tool"`

	Facts    map[string]any `json:"facts"`
	Entities []string       `json:"entities"`

	ToolResults []search.Result `json:"tool_results"`
	ToolContext string          `json:"tool_context,omitempty"`

	Memories         []vectorstore.Match `json:"memories"`
	Knowledge        *hybrid.Result      `json:"knowledge,omitempty"`
	MemoryContext    string              `json:"memory_context,omitempty"`
	KnowledgeContext string              `json:"knowledge_context,omitempty"`

	// MemoryID is set once the store stage has written the record.
	MemoryID string `json:"memory_id,omitempty"`

	ProcessingLog []Stage  `json:"processing_log"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
}

func newState(ownerID int64, conversationID string, now time.Time) *ConversationState {
	return &ConversationState{
		OwnerID:        ownerID,
		ConversationID: conversationID,
		CreatedAt:      now,
		Intent:         IntentConversational,
		Facts:          map[string]any{},
		Entities:       []string{},
		ToolResults:    []search.Result{},
		Memories:       []vectorstore.Match{},
		ProcessingLog:  []Stage{},
		Errors:         []string{},
		Warnings:       []string{},
	}
}

// Text is the input the parse stage reads: the utterance when present,
// the query otherwise.
func (s *ConversationState) Text() string {
	if s.Utterance != "" {
		return s.Utterance
	}
	return s.Query
}

func (s *ConversationState) HasErrors() bool {
	return len(s.Errors) > 0
}

func (s *ConversationState) warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}

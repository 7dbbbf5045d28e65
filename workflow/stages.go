package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/hybrid"
	"github.com/soontechgroup/ai-agents-sub001/internal/sliceutils"
	"github.com/soontechgroup/ai-agents-sub001/internal/stringslices"
	"github.com/soontechgroup/ai-agents-sub001/internal/stringutils"
	"github.com/soontechgroup/ai-agents-sub001/search"
	"github.com/soontechgroup/ai-agents-sub001/vectorstore"
)

const (
	factMetadataPrefix = "fact_"

	knowledgeEntityLimit       = 10
	knowledgeRelationshipLimit = 5
)

var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

type intentRule struct {
	intent     string
	confidence float64
	keywords   []string
}

// intentRules are tried in order; the first rule with a matching keyword wins.
var intentRules = []intentRule{
	{IntentCurrentInformation, 0.8, []string{"latest", "recent", "current", "news", "today", "now"}},
	{IntentFactualQuestion, 0.7, []string{"what is", "who is", "define", "explain"}},
	{IntentInstructional, 0.7, []string{"how to", "help me", "tutorial", "guide"}},
}

var externalToolIndicators = []string{
	"latest", "recent", "current", "news", "today", "now",
	"search for", "find information about", "what happened",
	"update on", "status of",
}

func (r *Runner) parseInput(_ context.Context, state *ConversationState) error {
	text := stringutils.SanitizeUnicodeString(state.Text())
	state.Entities = lo.Uniq(append(state.Entities, capitalizedWord.FindAllString(text, -1)...))
	return nil
}

func (r *Runner) classifyIntent(_ context.Context, state *ConversationState) error {
	query := strings.ToLower(state.Query)
	for _, rule := range intentRules {
		if stringslices.ContainsAnySubstring(query, rule.keywords) {
			state.Intent, state.IntentConfidence = rule.intent, rule.confidence
			return nil
		}
	}
	state.Intent, state.IntentConfidence = IntentConversational, 0.5
	return nil
}

func (r *Runner) extractFacts(ctx context.Context, state *ConversationState) error {
	if state.Utterance == "" || state.Response == "" {
		return nil
	}
	if r.facts == nil {
		state.warn("fact extraction not configured")
		return nil
	}

	callCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	facts, err := r.facts.Extract(callCtx, state.Utterance, state.Response)
	if err != nil {
		r.logger.Warn("fact extraction failed", "conversation_id", state.ConversationID, "err", err)
		state.warn("fact extraction failed: " + err.Error())
		return nil
	}
	for k, v := range facts {
		state.Facts[k] = v
	}
	return nil
}

func (r *Runner) evaluateTools(_ context.Context, state *ConversationState) error {
	query := strings.ToLower(state.Query)
	state.NeedsExternalTool = stringslices.ContainsAnySubstring(query, externalToolIndicators) ||
		state.Intent == IntentCurrentInformation
	return nil
}

func (r *Runner) executeTools(ctx context.Context, state *ConversationState) error {
	if r.searcher == nil {
		state.warn("web search not configured")
		return nil
	}

	results, err := r.searcher.Search(ctx, state.Query, r.conf.ToolResults, "")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			state.warn("web search timed out: " + err.Error())
			return nil
		}
		return errors.Wrap(err, "web search failed")
	}
	state.ToolResults = results

	if len(results) > 0 {
		lines := lo.Map(sliceutils.Head(results, 3), func(res search.Result, _ int) string {
			return fmt.Sprintf("• %s: %s", res.Title, res.Snippet)
		})
		state.ToolContext = "Recent information found:\n" + strings.Join(lines, "\n")
	}
	return nil
}

func (r *Runner) storeMemory(ctx context.Context, state *ConversationState) error {
	if r.vectors == nil || r.embedder == nil {
		return errors.Wrap(errors.ErrConfiguration, "no vector store available")
	}

	content := fmt.Sprintf("User: %s\nAssistant: %s", state.Utterance, state.Response)

	callCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	embeddings, err := r.embedder.Embed(callCtx, content)
	if err != nil {
		return errors.Wrap(err, "failed to embed conversation")
	}
	if len(embeddings) != 1 {
		return errors.Wrapf(errors.ErrContractViolation, "embedder returned %d vectors for one conversation", len(embeddings))
	}

	metadata := map[string]string{
		"user_message":       state.Utterance,
		"assistant_response": state.Response,
		"timestamp":          state.CreatedAt.Format(time.RFC3339),
		"conversation_id":    state.ConversationID,
		"intent":             state.Intent,
		"entities":           strings.Join(state.Entities, ","),
		"facts_count":        strconv.Itoa(len(state.Facts)),
		"importance":         strconv.FormatFloat(r.conf.DefaultImportance, 'f', -1, 64),
	}
	for k, v := range state.Facts {
		switch v.(type) {
		case string, bool, float64, float32, int, int64:
			metadata[factMetadataPrefix+k] = fmt.Sprint(v)
		}
	}

	id := fmt.Sprintf("conv_%s_%d", state.ConversationID, state.CreatedAt.Unix())
	err = r.vectors.Upsert(callCtx, vectorstore.CollectionConversationMemory, vectorstore.Record{
		ID:        id,
		OwnerID:   state.OwnerID,
		Content:   content,
		Embedding: embeddings[0],
		Metadata:  metadata,
		CreatedAt: state.CreatedAt,
	})
	if err != nil {
		return errors.Wrap(err, "failed to store memory")
	}

	state.MemoryID = id
	r.logger.Info("stored memory", "owner_id", state.OwnerID, "memory_id", id)
	return nil
}

func (r *Runner) retrieveContext(ctx context.Context, state *ConversationState) error {
	if r.vectors == nil || r.embedder == nil {
		return errors.Wrap(errors.ErrConfiguration, "no vector store available")
	}
	if strings.TrimSpace(state.Query) == "" {
		return nil
	}

	callCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	embeddings, err := r.embedder.Embed(callCtx, state.Query)
	if err != nil {
		return errors.Wrap(err, "failed to embed query")
	}
	if len(embeddings) != 1 {
		return errors.Wrapf(errors.ErrContractViolation, "embedder returned %d vectors for one query", len(embeddings))
	}

	matches, err := r.vectors.Query(callCtx, vectorstore.CollectionConversationMemory, state.OwnerID, embeddings[0], r.conf.RetrievalK)
	if err != nil {
		return errors.Wrap(err, "memory retrieval failed")
	}
	state.Memories = matches

	for _, m := range matches {
		for k, v := range m.Metadata {
			if key, ok := strings.CutPrefix(k, factMetadataPrefix); ok {
				state.Facts[key] = v
			}
		}
	}

	if r.knowledge != nil && r.conf.KnowledgeEnabled {
		knowledge, err := r.knowledge.Search(ctx, hybrid.Request{
			Query:             state.Query,
			OwnerID:           state.OwnerID,
			Mode:              hybrid.ModeHybrid,
			EntityLimit:       knowledgeEntityLimit,
			RelationshipLimit: knowledgeRelationshipLimit,
			ExpandGraph:       true,
		})
		if err != nil {
			r.logger.Warn("knowledge search failed", "owner_id", state.OwnerID, "err", err)
			state.warn("knowledge search failed: " + err.Error())
		} else {
			state.Knowledge = knowledge
			for _, failure := range knowledge.Failures {
				state.warn("graph expansion skipped " + failure)
			}
		}
	}
	return nil
}

func (r *Runner) combineResults(_ context.Context, state *ConversationState) error {
	if len(state.Memories) > 0 {
		lines := lo.Map(sliceutils.Head(state.Memories, 3), func(m vectorstore.Match, _ int) string {
			return "• " + stringutils.Truncate(m.Content, 100, "") + "..."
		})
		state.MemoryContext = "Previous conversations:\n" + strings.Join(lines, "\n")
	}

	if state.Knowledge != nil && (len(state.Knowledge.Entities) > 0 || len(state.Knowledge.Relationships) > 0) {
		var sb strings.Builder
		sb.WriteString("Relevant knowledge:")
		for _, e := range sliceutils.Head(state.Knowledge.Entities, 5) {
			fmt.Fprintf(&sb, "\n- %s: %s", e.Name, e.Description)
		}
		for _, rel := range sliceutils.Head(state.Knowledge.Relationships, 3) {
			fmt.Fprintf(&sb, "\n- %s → %s: %s", rel.Source, rel.Target, rel.Description)
		}
		state.KnowledgeContext = sb.String()
	}
	return nil
}

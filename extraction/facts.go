package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/internal/mylog"
)

const factPrompt = `Extract structured facts from this conversation:

User: %s
Assistant: %s

Extract facts in JSON format with keys like:
- user_name: if mentioned
- user_preferences: if mentioned
- topics_discussed: main topics
- user_background: if mentioned (job, location, etc.)
- questions_asked: main questions
- factual_claims: any factual statements

Return only valid JSON, no other text.`

type (
	// FactExtractor turns one conversational exchange into a flat fact map.
	FactExtractor interface {
		Extract(ctx context.Context, utterance, response string) (map[string]any, error)
	}

	LLMFactExtractor struct {
		completer Completer
		logger    *mylog.Logger
	}
)

var _ FactExtractor = (*LLMFactExtractor)(nil)

func NewFactExtractor(completer Completer, logger *mylog.Logger) *LLMFactExtractor {
	return &LLMFactExtractor{
		completer: completer,
		logger:    mylog.OrDefault(logger),
	}
}

// Extract returns an error only when the model call itself fails. Output
// that is not a JSON object yields an empty map.
func (e *LLMFactExtractor) Extract(ctx context.Context, utterance, response string) (map[string]any, error) {
	text, err := e.completer.Complete(ctx, fmt.Sprintf(factPrompt, utterance, response))
	if err != nil {
		return nil, err
	}

	facts, err := ParseFacts(text)
	if err != nil {
		e.logger.Warn("discarding unparseable fact extraction output", "err", err)
		return map[string]any{}, nil
	}
	return facts, nil
}

// ParseFacts decodes a model reply into a flat key to scalar map. Code
// fences are stripped, lists of scalars are joined with ", " and nested
// objects are dropped. The returned map is never nil.
func ParseFacts(text string) (map[string]any, error) {
	text = stripCodeFence(strings.TrimSpace(text))
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return map[string]any{}, errors.Wrap(errors.ErrContractViolation, "fact output is not a JSON object")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return map[string]any{}, errors.Wrapf(errors.ErrContractViolation, "fact output is not valid JSON: %v", err)
	}

	facts := make(map[string]any, len(raw))
	for k, v := range raw {
		if flat, ok := flattenFact(v); ok {
			facts[k] = flat
		}
	}
	return facts, nil
}

func flattenFact(v any) (any, bool) {
	switch value := v.(type) {
	case nil:
		return nil, false
	case string:
		if value == "" {
			return nil, false
		}
		return value, true
	case bool, float64:
		return value, true
	case []any:
		parts := lo.FilterMap(value, func(item any, _ int) (string, bool) {
			switch item.(type) {
			case string, bool, float64:
				s := fmt.Sprint(item)
				return s, s != ""
			}
			return "", false
		})
		if len(parts) == 0 {
			return nil, false
		}
		return strings.Join(parts, ", "), true
	}
	return nil, false
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/soontechgroup/ai-agents-sub001/graphstore"
	"github.com/soontechgroup/ai-agents-sub001/internal/mylog"
	"github.com/soontechgroup/ai-agents-sub001/internal/stringutils"
)

// MaxKnowledgeInput caps, in runes, the text sent in one extraction call.
const MaxKnowledgeInput = 1500

const knowledgePrompt = `Identify the entities and relationships in the text below.

Entity types: person, organization, location, concept.
Output one item per line, with no other text:
ENTITY|NAME|TYPE|DESCRIPTION
RELATIONSHIP|SOURCE|TARGET|RELATION|DESCRIPTION

Text: %s`

type (
	Knowledge struct {
		Entities      []graphstore.Entity       `json:"entities"`
		Relationships []graphstore.Relationship `json:"relationships"`
	}

	// KnowledgeExtractor pulls entities and relationships out of free text.
	KnowledgeExtractor interface {
		ExtractKnowledge(ctx context.Context, text string) (*Knowledge, error)
	}

	LLMKnowledgeExtractor struct {
		completer Completer
		logger    *mylog.Logger
	}
)

var _ KnowledgeExtractor = (*LLMKnowledgeExtractor)(nil)

func NewKnowledgeExtractor(completer Completer, logger *mylog.Logger) *LLMKnowledgeExtractor {
	return &LLMKnowledgeExtractor{
		completer: completer,
		logger:    mylog.OrDefault(logger),
	}
}

func (e *LLMKnowledgeExtractor) ExtractKnowledge(ctx context.Context, text string) (*Knowledge, error) {
	text = strings.TrimSpace(stringutils.SanitizeUnicodeString(text))
	if text == "" {
		return &Knowledge{}, nil
	}

	out, err := e.completer.Complete(ctx, fmt.Sprintf(knowledgePrompt, stringutils.Truncate(text, MaxKnowledgeInput, "")))
	if err != nil {
		return nil, err
	}

	knowledge := ParseKnowledge(out)
	e.logger.Debug("extracted knowledge", "entities", len(knowledge.Entities), "relationships", len(knowledge.Relationships))
	return knowledge, nil
}

// ParseKnowledge reads ENTITY and RELATIONSHIP (or RELATION) lines.
// Malformed lines are skipped, as are relationships whose endpoints are
// missing.
func ParseKnowledge(output string) *Knowledge {
	knowledge := &Knowledge{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•"))
		if !strings.Contains(line, "|") {
			continue
		}

		parts := lo.Map(strings.Split(line, "|"), func(p string, _ int) string {
			return strings.TrimSpace(p)
		})

		switch strings.ToUpper(parts[0]) {
		case "ENTITY":
			if len(parts) < 3 || parts[1] == "" {
				continue
			}
			entity := graphstore.Entity{Name: parts[1], Type: parts[2]}
			if len(parts) > 3 {
				entity.Description = strings.Join(parts[3:], " | ")
			}
			knowledge.Entities = append(knowledge.Entities, entity)
		case "RELATIONSHIP", "RELATION":
			if len(parts) < 4 || parts[1] == "" || parts[2] == "" {
				continue
			}
			rel := graphstore.Relationship{Source: parts[1], Target: parts[2], Relation: parts[3]}
			if len(parts) > 4 {
				rel.Description = strings.Join(parts[4:], " | ")
			}
			knowledge.Relationships = append(knowledge.Relationships, rel)
		}
	}

	knowledge.Entities = lo.UniqBy(knowledge.Entities, func(e graphstore.Entity) string {
		return e.Name
	})
	return knowledge
}

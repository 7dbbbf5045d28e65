package hybrid

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/soontechgroup/ai-agents-sub001/errors"
	"github.com/soontechgroup/ai-agents-sub001/vectorstore"
)

type (
	Mode       string
	Provenance string
)

const (
	ModeSemantic Mode = "semantic"
	ModeGraph    Mode = "graph"
	ModeHybrid   Mode = "hybrid"

	ProvenanceSemantic Provenance = "semantic"
	ProvenanceGraph    Provenance = "graph-expansion"

	DefaultConfidence = 0.5
	DefaultStrength   = 0.5

	// GraphConfidence is assigned to everything reached by graph expansion.
	GraphConfidence = 0.7
)

// Metadata keys written by the Indexer and read back by the Engine.
const (
	MetadataEntityName    = "entity_name"
	MetadataEntityTypes   = "entity_types"
	MetadataDescription   = "description"
	MetadataConfidence    = "confidence"
	MetadataSource        = "source"
	MetadataTarget        = "target"
	MetadataRelationTypes = "relation_types"
	MetadataStrength      = "strength"
)

type (
	EntityCandidate struct {
		Name        string     `json:"name"`
		Types       []string   `json:"types"`
		Description string     `json:"description"`
		Confidence  float64    `json:"confidence"`
		Provenance  Provenance `json:"provenance"`
		// Distance is nil for candidates that did not come from a vector query.
		Distance *float64 `json:"distance,omitempty"`
	}

	RelationshipCandidate struct {
		Source      string     `json:"source"`
		Target      string     `json:"target"`
		Types       []string   `json:"types"`
		Description string     `json:"description"`
		Confidence  float64    `json:"confidence"`
		Strength    float64    `json:"strength"`
		Provenance  Provenance `json:"provenance"`
		Distance    *float64   `json:"distance,omitempty"`
	}

	entityMetadata struct {
		Name        string `mapstructure:"entity_name"`
		Types       string `mapstructure:"entity_types"`
		Description string `mapstructure:"description"`
		Confidence  string `mapstructure:"confidence"`
	}

	relationshipMetadata struct {
		Source      string `mapstructure:"source"`
		Target      string `mapstructure:"target"`
		Types       string `mapstructure:"relation_types"`
		Description string `mapstructure:"description"`
		Confidence  string `mapstructure:"confidence"`
		Strength    string `mapstructure:"strength"`
	}
)

func (c RelationshipCandidate) key() string {
	return c.Source + "->" + c.Target
}

// entityFromMatch decodes a semantic hit. A malformed numeric field keeps
// its default and is reported as a contract violation.
func entityFromMatch(m vectorstore.Match) (EntityCandidate, error) {
	var meta entityMetadata
	if err := decodeMetadata(m.Metadata, &meta); err != nil {
		return EntityCandidate{}, err
	}
	if meta.Name == "" {
		return EntityCandidate{}, errors.Wrapf(errors.ErrContractViolation, "entity record %s has no %s", m.ID, MetadataEntityName)
	}

	distance := float64(m.Distance)
	candidate := EntityCandidate{
		Name:        meta.Name,
		Types:       parseTypes(meta.Types),
		Description: meta.Description,
		Provenance:  ProvenanceSemantic,
		Distance:    &distance,
	}

	var err error
	candidate.Confidence, err = parseScore(meta.Confidence, DefaultConfidence)
	return candidate, err
}

func relationshipFromMatch(m vectorstore.Match) (RelationshipCandidate, error) {
	var meta relationshipMetadata
	if err := decodeMetadata(m.Metadata, &meta); err != nil {
		return RelationshipCandidate{}, err
	}

	if meta.Source == "" || meta.Target == "" {
		return RelationshipCandidate{}, errors.Wrapf(errors.ErrContractViolation, "record %s has no relationship endpoints", m.ID)
	}

	distance := float64(m.Distance)
	candidate := RelationshipCandidate{
		Source:      meta.Source,
		Target:      meta.Target,
		Types:       parseTypes(meta.Types),
		Description: meta.Description,
		Provenance:  ProvenanceSemantic,
		Distance:    &distance,
	}

	confidence, confErr := parseScore(meta.Confidence, DefaultConfidence)
	strength, strengthErr := parseScore(meta.Strength, DefaultStrength)
	candidate.Confidence, candidate.Strength = confidence, strength

	if confErr != nil {
		return candidate, confErr
	}
	return candidate, strengthErr
}

func decodeMetadata(metadata map[string]string, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.WithStack(err)
	}
	if err := decoder.Decode(metadata); err != nil {
		return errors.Wrapf(errors.ErrContractViolation, "failed to decode metadata: %v", err)
	}
	return nil
}

// parseTypes accepts a JSON list or a comma separated list.
func parseTypes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var types []string
		if err := json.Unmarshal([]byte(raw), &types); err == nil {
			return types
		}
		raw = strings.Trim(raw, "[]")
	}

	var types []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.Trim(strings.TrimSpace(t), `"'`)
		if t != "" {
			types = append(types, t)
		}
	}
	return types
}

func parseScore(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback, errors.Wrapf(errors.ErrContractViolation, "score %q is not numeric", raw)
	}
	return v, nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package config

import (
	"time"

	"github.com/soontechgroup/ai-agents-sub001/errors"
)

type WorkflowConfig struct {
	// RetrievalK is the number of memories fetched by the retrieve stage
	// Default: 5
	RetrievalK int `yaml:"retrievalK" env:"WORKFLOW_RETRIEVAL_K"`

	// ToolResults is the number of web results requested by the execute stage
	// Default: 5
	ToolResults int `yaml:"toolResults" env:"WORKFLOW_TOOL_RESULTS"`

	// CallTimeout bounds each embedding, vector and extraction call
	// Default: 30s
	CallTimeout time.Duration `yaml:"callTimeout" env:"WORKFLOW_CALL_TIMEOUT"`

	// DefaultImportance is stored with every conversation memory
	// Default: 0.5
	DefaultImportance float64 `yaml:"defaultImportance" env:"WORKFLOW_DEFAULT_IMPORTANCE"`

	// KnowledgeEnabled runs a hybrid search during retrieval
	// Default: true
	KnowledgeEnabled bool `yaml:"knowledgeEnabled" env:"WORKFLOW_KNOWLEDGE_ENABLED"`
}

func NewWorkflowConfig() *WorkflowConfig {
	return &WorkflowConfig{
		RetrievalK:        5,
		ToolResults:       5,
		CallTimeout:       30 * time.Second,
		DefaultImportance: 0.5,
		KnowledgeEnabled:  true,
	}
}

func (c *WorkflowConfig) Validate() error {
	if c.RetrievalK <= 0 {
		return errors.Wrapf(errors.ErrInvalidConfig, "retrieval k must be positive")
	}
	if c.DefaultImportance < 0 || c.DefaultImportance > 1 {
		return errors.Wrapf(errors.ErrInvalidConfig, "default importance must be within [0, 1]")
	}
	return nil
}

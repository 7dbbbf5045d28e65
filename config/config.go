package config

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/soontechgroup/ai-agents-sub001/errors"
)

// Config aggregates every component configuration of the engine.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Search   SearchConfig   `yaml:"search"`
	Vector   VectorConfig   `yaml:"vector"`
	Graph    GraphConfig    `yaml:"graph"`
	LLM      LLMConfig      `yaml:"llm"`
	Workflow WorkflowConfig `yaml:"workflow"`
}

// New returns a Config populated with defaults only.
func New() *Config {
	return &Config{
		Log:      *NewLogConfig(),
		Search:   *NewSearchConfig(),
		Vector:   *NewVectorConfig(),
		Graph:    *NewGraphConfig(),
		LLM:      *NewLLMConfig(),
		Workflow: *NewWorkflowConfig(),
	}
}

// Load builds a Config from defaults, the optional YAML file at path,
// .env files and finally the process environment.
func Load(path string) (*Config, error) {
	conf := New()

	if path != "" {
		if err := LoadFile(path, conf); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	if err := conf.Resolve(environ()); err != nil {
		return nil, err
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func LoadFile(file string, conf *Config) (err error) {
	var yamlBytes []byte
	if yamlBytes, err = os.ReadFile(file); err != nil {
		err = errors.Wrapf(err, "failed to read file %s", file)
		return
	}

	if err = yaml.Unmarshal(yamlBytes, conf); err != nil {
		err = errors.Wrapf(err, "failed to unmarshal file %s", file)
		return
	}

	return
}

// Resolve overlays env onto every section of the config.
func (c *Config) Resolve(env map[string]any) error {
	if err := resolveConfig(&c.Log, env); err != nil {
		return err
	}
	if err := resolveConfig(&c.Search, env); err != nil {
		return err
	}
	if err := resolveConfig(&c.Vector, env); err != nil {
		return err
	}
	if err := resolveConfig(&c.Graph, env); err != nil {
		return err
	}
	if err := resolveConfig(&c.LLM, env); err != nil {
		return err
	}
	if err := resolveConfig(&c.Workflow, env); err != nil {
		return err
	}

	if c.Vector.EmbeddingProvider == "" {
		if c.LLM.OpenAIAPIKey != "" {
			c.Vector.EmbeddingProvider = EmbeddingProviderOpenAI
		} else {
			c.Vector.EmbeddingProvider = EmbeddingProviderHashing
		}
	}

	return nil
}

func (c *Config) Validate() error {
	for _, v := range []interface{ Validate() error }{
		&c.Search, &c.Vector, &c.Graph, &c.LLM, &c.Workflow,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

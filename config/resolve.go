package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/soontechgroup/ai-agents-sub001/errors"
)

// loadDotEnv loads .env files into the process environment without
// overriding variables that are already set.
func loadDotEnv() error {
	filenames := []string{".env"}
	if v := os.Getenv("ENV_TEST_FILE"); v != "" {
		filenames = append(filenames, v)
	}

	for _, filename := range filenames {
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(filename); err != nil {
			return errors.Wrapf(err, "failed to load %s", filename)
		}
	}

	return nil
}

func environ() map[string]any {
	env := make(map[string]any)
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// resolveConfig overlays environment variables onto config using its env tags.
// Fields whose variable is unset keep their current value.
func resolveConfig[T any](config *T, env map[string]any) error {
	if config == nil {
		return errors.New("config is nil")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "env",
		WeaklyTypedInput: true,
		Result:           config,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create decoder")
	}

	if err := decoder.Decode(env); err != nil {
		return errors.Wrapf(err, "failed to load config")
	}

	return nil
}

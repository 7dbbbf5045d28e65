package config

type LogConfig struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"level" env:"LOG_LEVEL"`

	// LogHandler selects "json" or the default colored text handler
	LogHandler string `yaml:"handler" env:"LOG_HANDLER"`
}

func NewLogConfig() *LogConfig {
	return &LogConfig{
		LogLevel:   "info",
		LogHandler: "default",
	}
}

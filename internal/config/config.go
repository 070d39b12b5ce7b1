// Package config loads application settings from defaults, an optional
// drill.yaml file and DRILL_* environment variables.
package config

import (
	"time"

	"github.com/abhisek/drillsergeant/internal/session"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	DB        DBConfig        `mapstructure:"db"`
	Timeouts  TimeoutsConfig  `mapstructure:"timeouts"`
	Diagnosis DiagnosisConfig `mapstructure:"diagnosis"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr" validate:"required,hostname_port"`
	CORSOrigins []string `mapstructure:"cors_origins" validate:"dive,required"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
}

// CorpusConfig points at the local passage corpus.
type CorpusConfig struct {
	Dir string `mapstructure:"dir"`
}

// DBConfig locates the LLM event log. Empty means the default path.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// TimeoutsConfig bounds each provider call.
type TimeoutsConfig struct {
	Generation time.Duration `mapstructure:"generation" validate:"gt=0"`
	Diagnosis  time.Duration `mapstructure:"diagnosis" validate:"gt=0"`
	Summary    time.Duration `mapstructure:"summary" validate:"gt=0"`
}

// DiagnosisConfig limits the diagnosis fan-out.
type DiagnosisConfig struct {
	MaxConcurrency int `mapstructure:"max_concurrency" validate:"min=1,max=64"`
}

// Session returns the orchestrator limits.
func (c *Config) Session() session.Config {
	return session.Config{
		GenerationTimeout:      c.Timeouts.Generation,
		DiagnosisTimeout:       c.Timeouts.Diagnosis,
		SummaryTimeout:         c.Timeouts.Summary,
		MaxConcurrentDiagnoses: c.Diagnosis.MaxConcurrency,
	}
}

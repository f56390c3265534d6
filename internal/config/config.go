package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizmark/internal/logging"
	"github.com/abhisek/quizmark/internal/predict"
	"github.com/abhisek/quizmark/internal/report"
	"github.com/abhisek/quizmark/internal/trend"
)

// Config holds all quizmark configuration.
type Config struct {
	Trend      trend.Config   `yaml:"trend"`
	Prediction predict.Config `yaml:"prediction"`
	Report     ReportConfig   `yaml:"report"`
	Server     ServerConfig   `yaml:"server"`
	Log        LogConfig      `yaml:"log"`
}

// ReportConfig holds report policy thresholds.
type ReportConfig struct {
	AttentionCut int `yaml:"attention_cut"` // Default: 70
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Default: ":8080"
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns a Config with the standard thresholds.
func Default() Config {
	return Config{
		Trend:      trend.DefaultConfig(),
		Prediction: predict.DefaultConfig(),
		Report: ReportConfig{
			AttentionCut: 70,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path yields the
// defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from QUIZMARK_* environment variables.
func (c *Config) ApplyEnv() error {
	ints := []struct {
		env string
		dst *int
	}{
		{"QUIZMARK_TREND_MIN_POINTS", &c.Trend.MinPoints},
		{"QUIZMARK_MEDIUM_CONFIDENCE_AT", &c.Prediction.MediumConfidenceAt},
		{"QUIZMARK_HIGH_CONFIDENCE_AT", &c.Prediction.HighConfidenceAt},
		{"QUIZMARK_PROFICIENCY_CUT", &c.Prediction.ProficiencyCut},
		{"QUIZMARK_ATTENTION_CUT", &c.Report.AttentionCut},
	}
	for _, e := range ints {
		v := os.Getenv(e.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.env, err)
		}
		*e.dst = n
	}

	if v := os.Getenv("QUIZMARK_TREND_DEADBAND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("QUIZMARK_TREND_DEADBAND: %w", err)
		}
		c.Trend.Deadband = f
	}
	if v := os.Getenv("QUIZMARK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("QUIZMARK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("QUIZMARK_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

// Validate checks that thresholds are coherent.
func (c Config) Validate() error {
	var errs []error
	if c.Trend.MinPoints < 2 {
		errs = append(errs, fmt.Errorf("trend.min_points must be at least 2, got %d", c.Trend.MinPoints))
	}
	if c.Trend.Deadband < 0 {
		errs = append(errs, fmt.Errorf("trend.deadband must not be negative, got %g", c.Trend.Deadband))
	}
	if c.Prediction.MediumConfidenceAt < 1 || c.Prediction.HighConfidenceAt <= c.Prediction.MediumConfidenceAt {
		errs = append(errs, fmt.Errorf("prediction confidence steps must satisfy 1 <= medium < high, got %d and %d",
			c.Prediction.MediumConfidenceAt, c.Prediction.HighConfidenceAt))
	}
	if !inPercentRange(c.Prediction.ProficiencyCut) {
		errs = append(errs, fmt.Errorf("prediction.proficiency_cut must be within 0-100, got %d", c.Prediction.ProficiencyCut))
	}
	if !inPercentRange(c.Report.AttentionCut) {
		errs = append(errs, fmt.Errorf("report.attention_cut must be within 0-100, got %d", c.Report.AttentionCut))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// ReportPolicy converts the loaded thresholds into assembler policy.
func (c Config) ReportPolicy() report.Config {
	pcfg := c.Prediction
	pcfg.Trend = c.Trend
	return report.Config{
		Trend:        c.Trend,
		Prediction:   pcfg,
		AttentionCut: c.Report.AttentionCut,
	}
}

func inPercentRange(v int) bool {
	return v >= 0 && v <= 100
}

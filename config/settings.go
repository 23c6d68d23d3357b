package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// HTTPSettings configures the fetch layer. Durations are expressed in
// seconds to match the settings file format.
type HTTPSettings struct {
	TimeoutSeconds         float64 `yaml:"timeout"`
	MaxRetries             int     `yaml:"max_retries"`
	UserAgent              string  `yaml:"user_agent"`
	DelaySeconds           float64 `yaml:"delay_seconds"`
	RetryBackoffSeconds    float64 `yaml:"retry_backoff_seconds"`
	RetryBackoffMultiplier float64 `yaml:"retry_backoff_multiplier"`
	RetryJitterSeconds     float64 `yaml:"retry_jitter_seconds"`
}

// Timeout returns the per-request timeout as a duration.
func (s HTTPSettings) Timeout() time.Duration {
	return secondsToDuration(s.TimeoutSeconds)
}

// Delay returns the politeness delay between detail fetches.
func (s HTTPSettings) Delay() time.Duration {
	return secondsToDuration(s.DelaySeconds)
}

// RetryBackoff returns the base backoff delay.
func (s HTTPSettings) RetryBackoff() time.Duration {
	return secondsToDuration(s.RetryBackoffSeconds)
}

// RetryJitter returns the maximum backoff jitter.
func (s HTTPSettings) RetryJitter() time.Duration {
	return secondsToDuration(s.RetryJitterSeconds)
}

// ValidationSettings controls the post-run quality report.
type ValidationSettings struct {
	Enabled *bool `yaml:"enabled"`
}

// LoggingSettings controls log output.
type LoggingSettings struct {
	Level string `yaml:"level"`
}

// Settings is the optional runtime settings file. All sections may be
// omitted; zero values defer to component defaults.
type Settings struct {
	HTTP       HTTPSettings       `yaml:"http"`
	Validation ValidationSettings `yaml:"validation"`
	Logging    LoggingSettings    `yaml:"logging"`
}

// ValidationEnabled reports whether the quality report should run. It
// defaults to true when the settings file leaves it unset.
func (s Settings) ValidationEnabled() bool {
	return s.Validation.Enabled == nil || *s.Validation.Enabled
}

// LoadSettings reads the optional settings file. A missing file is not an
// error; it yields zero-value settings.
func LoadSettings(path string) (Settings, error) {
	var settings Settings

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return settings, nil
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadSettings_MissingFile verifies a missing settings file is not an
// error
func TestLoadSettings_MissingFile(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Zero(t, settings.HTTP.TimeoutSeconds)
	assert.True(t, settings.ValidationEnabled(), "validation should default to enabled")
}

// TestLoadSettings_FullFile verifies all sections parse
func TestLoadSettings_FullFile(t *testing.T) {
	content := `
http:
  timeout: 5
  max_retries: 4
  user_agent: test-bot/1.0
  delay_seconds: 0.5
  retry_backoff_seconds: 1.5
  retry_backoff_multiplier: 3
  retry_jitter_seconds: 0.25
validation:
  enabled: false
logging:
  level: debug
`
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, settings.HTTP.Timeout())
	assert.Equal(t, 4, settings.HTTP.MaxRetries)
	assert.Equal(t, "test-bot/1.0", settings.HTTP.UserAgent)
	assert.Equal(t, 500*time.Millisecond, settings.HTTP.Delay())
	assert.Equal(t, 1500*time.Millisecond, settings.HTTP.RetryBackoff())
	assert.Equal(t, 3.0, settings.HTTP.RetryBackoffMultiplier)
	assert.Equal(t, 250*time.Millisecond, settings.HTTP.RetryJitter())
	assert.False(t, settings.ValidationEnabled())
	assert.Equal(t, "debug", settings.Logging.Level)
}

// TestLoadSettings_InvalidYAML verifies parse failures are reported
func TestLoadSettings_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	require.NoError(t, os.WriteFile(path, []byte("http: ["), 0o644))

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse settings")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/planboard/internal/llm"
)

var configEnvVars = []string{
	"PLANBOARD_CONFIG", "PLANBOARD_ADDR", "PLANBOARD_API_KEY", "PLANBOARD_DB",
	"PLANBOARD_REMOTE_URL", "PLANBOARD_REMOTE_API_KEY", "PLANBOARD_REMOTE_TIMEOUT",
	"PLANBOARD_SETTLE_DELAY", "PLANBOARD_CALL_TIMEOUT",
	"PLANBOARD_LOG_LEVEL", "PLANBOARD_LOG_FORMAT", "PLANBOARD_LOG_FILE",
	"PLANBOARD_LLM_ENABLED", "PLANBOARD_LLM_PROVIDER", "PLANBOARD_LLM_MODEL",
	"PLANBOARD_LLM_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
}

// isolate clears planboard env vars and points HOME at a temp dir so no
// developer config leaks into a test.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 600*time.Millisecond, cfg.Sync.SettleDelay.Std())
	assert.Equal(t, 10*time.Second, cfg.Sync.CallTimeout.Std())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "planboard.db", filepath.Base(cfg.Database.Path))
	assert.False(t, cfg.UsesRemote())
	assert.Equal(t, llm.ProviderOllama, cfg.LLM.Provider)
}

func TestLoad_YAMLFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
server:
  addr: "127.0.0.1:9000"
database:
  path: /tmp/board.db
remote:
  url: https://plans.example.com
  timeout: 3s
sync:
  settle_delay: 250ms
log:
  level: debug
  format: json
llm:
  enabled: true
  provider: openai
  model: gpt-4o-mini
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/board.db", cfg.Database.Path)
	assert.True(t, cfg.UsesRemote())
	assert.Equal(t, 3*time.Second, cfg.Remote.Timeout.Std())
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.SettleDelay.Std())
	assert.Equal(t, 10*time.Second, cfg.Sync.CallTimeout.Std(), "unset keys keep defaults")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 15000, cfg.LLM.TimeoutMs)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "log:\n  level: debug\nremote:\n  url: https://a.example.com\n")
	t.Setenv("PLANBOARD_LOG_LEVEL", "error")
	t.Setenv("PLANBOARD_REMOTE_URL", "http://localhost:8080")
	t.Setenv("PLANBOARD_REMOTE_API_KEY", "secret")
	t.Setenv("PLANBOARD_CALL_TIMEOUT", "2s")
	t.Setenv("PLANBOARD_LLM_MODEL", "mistral")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "http://localhost:8080", cfg.Remote.URL)
	assert.Equal(t, "secret", cfg.Remote.APIKey)
	assert.Equal(t, 2*time.Second, cfg.Sync.CallTimeout.Std())
	assert.Equal(t, "mistral", cfg.LLM.Model)
}

func TestLoad_InvalidDurationEnvIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("PLANBOARD_SETTLE_DELAY", "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 600*time.Millisecond, cfg.Sync.SettleDelay.Std())
}

func TestLoad_SecretsAreEnvOnly(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "server:\n  api_key: from-yaml\nremote:\n  api_key: from-yaml\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.APIKey)
	assert.Empty(t, cfg.Remote.APIKey)
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PLANBOARD_CONFIG", writeConfig(t, "server:\n  addr: \":7000\"\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad duration", "sync:\n  settle_delay: later\n", "invalid duration"},
		{"bad yaml", "server: [unclosed\n", "parsing config file"},
		{"bad remote scheme", "remote:\n  url: ftp://x\n", "remote.url"},
		{"bad log level", "log:\n  level: loud\n", "log.level"},
		{"bad log format", "log:\n  format: xml\n", "log.format"},
		{"bad provider", "llm:\n  provider: acme\n", "llm.provider"},
		{"zero call timeout", "sync:\n  call_timeout: 0s\n", "call_timeout"},
		{"log file without size", "log:\n  file: /tmp/p.log\n  max_size_mb: 0\n", "max_size_mb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestDuration_MarshalYAML(t *testing.T) {
	v, err := Duration(1500 * time.Millisecond).MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", v)
}

func TestLoad_LogFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "log:\n  file: /var/log/planboard.log\n  max_backups: 7\nllm:\n  provider: anthropic\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/log/planboard.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
	assert.Equal(t, 7, cfg.Log.MaxBackups)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)

	t.Setenv("PLANBOARD_LOG_FILE", "/tmp/other.log")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.log", cfg.Log.File)
}

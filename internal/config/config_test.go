package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transaction-matcher/pkg/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYNAB_EnvironmentWins(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")
	path := writeConfigFile(t, "ynab:\n  api_key: file-key\n")

	cfg, err := LoadYNAB(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
}

func TestLoadYNAB_FileFallback(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	path := writeConfigFile(t, "ynab:\n  api_key: file-key\n  api_url: https://example.test/v1\n")

	cfg, err := LoadYNAB(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "https://example.test/v1", cfg.APIURL)
}

func TestLoadYNAB_MissingEverywhere(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	_, err := LoadYNAB("")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeMissingCredential))
}

func TestLoadYNAB_FileWithoutKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	path := writeConfigFile(t, "ynab:\n  api_url: https://example.test/v1\n")

	_, err := LoadYNAB(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeMissingCredential))
}

func TestLoadYNAB_UnreadableFileIgnoredWhenEnvSet(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")

	cfg, err := LoadYNAB(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadYNAB_UnreadableFileFatalWithoutEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	_, err := LoadYNAB(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
}

func TestLoadYNAB_MalformedYAML(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	path := writeConfigFile(t, "ynab: [unclosed\n")

	_, err := LoadYNAB(path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBool(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"t", true},
		{"yes", true},
		{" yes ", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"", false},
		{"verbose", false},
	}

	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseBool(tc.value))
		})
	}
}

func TestInitMissingExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// An explicitly named config file that does not exist is an error;
	// only the default search path tolerates absence.
	err := Init(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestInitReadsConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "autoflow.yaml")
	content := "model: gpt-4\nverbose: true\napi_key: file-key\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o600))

	require.NoError(t, Init(cfgFile))

	cfg := Get()
	assert.Equal(t, "gpt-4", cfg.Model)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "file-key", cfg.APIKey)
}

func TestEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("AUTOFLOW_LITELLM_MODEL", "gpt-4-turbo")
	t.Setenv("AUTOFLOW_LITELLM_VERBOSE", "1")
	t.Setenv("OPENAI_API_KEY", "env-key")

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "autoflow.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("model: gpt-3.5-turbo\n"), 0o600))
	require.NoError(t, Init(cfgFile))

	cfg := Get()
	assert.Equal(t, "gpt-4-turbo", cfg.Model)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestGetFallsBackToDefaultModel(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	bindEnvs()
	viper.Set("model", "")

	cfg := Get()
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.False(t, cfg.Verbose)
}

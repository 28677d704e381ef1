// Package config loads autoflow configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings the generation client and workflow depend on.
// It is resolved once at process start and passed to constructors explicitly.
type Config struct {
	Model   string `mapstructure:"model"`
	Verbose bool   `mapstructure:"verbose"`
	APIKey  string `mapstructure:"api_key"`
	APIBase string `mapstructure:"api_base"`
}

const (
	DefaultModel      = "gpt-3.5-turbo"
	DefaultConfigName = ".autoflow"

	envModel   = "AUTOFLOW_LITELLM_MODEL"
	envVerbose = "AUTOFLOW_LITELLM_VERBOSE"
	envAPIKey  = "OPENAI_API_KEY"
	envAPIBase = "OPENAI_API_BASE"
)

// Init configures viper and loads the config file when present.
// A missing config file is not an error; the environment alone is enough.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to locate home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(DefaultConfigName)
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("model", DefaultModel)
	viper.SetDefault("verbose", false)
	viper.SetDefault("api_key", "")
	viper.SetDefault("api_base", "")

	bindEnvs()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("unable to read config file: %w", err)
	}
	return nil
}

func bindEnvs() {
	_ = viper.BindEnv("model", envModel)
	_ = viper.BindEnv("verbose", envVerbose)
	_ = viper.BindEnv("api_key", envAPIKey)
	_ = viper.BindEnv("api_base", envAPIBase)
}

// Get resolves the current configuration.
func Get() *Config {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return &Config{Model: DefaultModel}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	// The verbose toggle accepts the loose boolean forms the env contract allows.
	cfg.Verbose = ParseBool(viper.GetString("verbose"))
	return cfg
}

// ParseBool interprets the boolean-ish forms accepted by AUTOFLOW_LITELLM_VERBOSE.
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "t", "yes":
		return true
	}
	return false
}

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/annotate/pkg/dispatch"
)

// Config is the CLI configuration, read from annotate.yaml, ANNOTATE_* variables and flags.
type Config struct {
	Fixtures string        `mapstructure:"fixtures"`
	User     string        `mapstructure:"user" validate:"required"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Strict   bool          `mapstructure:"strict"`
	Verbose  bool          `mapstructure:"verbose"`
}

// loadConfig merges the config file, the environment and the flags of cmd.
// Flags win over the environment, which wins over the file.
func loadConfig(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("user", dispatch.DefaultUser)
	v.SetDefault("timeout", dispatch.DefaultFallbackTimeout)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("annotate")
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ANNOTATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	for _, name := range []string{"fixtures", "user", "timeout", "strict", "verbose"} {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

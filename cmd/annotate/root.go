package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/annotate"
	"github.com/aretw0/annotate/pkg/dispatch"
)

var (
	configFile string
	cfg        *Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "annotate",
	Short: "An offline backend for a browser-based entity annotation editor",
	Long: `annotate answers the remote actions of an entity annotation editor locally.
Documents come from built-in fixtures or from a fixture directory (offline_data),
and span edits are applied to an in-memory session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(cmd, configFile)
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if cfg.Verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fixtureRoot returns the configured fixture directory, falling back to the
// nearest fixture root above the working directory.
func fixtureRoot() string {
	if cfg.Fixtures != "" {
		return cfg.Fixtures
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	root, err := annotate.FindFixtureRoot(wd)
	if err != nil {
		slog.Debug("no fixture root found, serving canned responses only", "from", wd)
		return ""
	}
	return root
}

// newDispatcher builds a dispatcher from the loaded configuration.
func newDispatcher(extra ...annotate.Option) (*annotate.Dispatcher, error) {
	opts := []annotate.Option{
		annotate.WithLogger(slog.Default()),
		annotate.WithUser(cfg.User),
		annotate.WithFallbackTimeout(cfg.Timeout),
		annotate.WithStrict(cfg.Strict),
		annotate.WithMustExist(true),
		annotate.WithFallbackErrorHandler(func(err error) {
			fmt.Fprintf(os.Stderr, "fixture load failed: %v\n", err)
		}),
	}
	return annotate.New(fixtureRoot(), append(opts, extra...)...)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ./annotate.yaml)")
	rootCmd.PersistentFlags().StringP("fixtures", "f", "", "Fixture directory (default: nearest fixture root)")
	rootCmd.PersistentFlags().String("user", dispatch.DefaultUser, "Identity reported by whoami")
	rootCmd.PersistentFlags().Duration("timeout", dispatch.DefaultFallbackTimeout, "Timeout for a single fixture load")
	rootCmd.PersistentFlags().Bool("strict", false, "Keep fixture numbers as exact decimals")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
}

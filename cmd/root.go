package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jarredhawkins/cfmatch/internal/cfml"
	"github.com/jarredhawkins/cfmatch/internal/config"
	"github.com/jarredhawkins/cfmatch/internal/match"
)

var (
	cfgFile string
	logFile string
	debug   bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cfmatch",
	Short: "cfmatch - delimiter and tag matching for CFML templates",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(logFile, debug)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "Configuration file")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "Log file path (defaults to stderr)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

// newLogger writes JSON logs to path (stderr when empty). Stdout is never
// used since serve speaks LSP on it.
func newLogger(path string, debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	out := "stderr"
	if path != "" {
		out = path
	}
	cfg.OutputPaths = []string{out}
	cfg.ErrorOutputPaths = []string{out}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// loadMatcher reads the configuration and builds the CFML matcher from it
func loadMatcher(path string) (*config.Config, *match.Facade, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.MatcherOptions()
	if err != nil {
		return nil, nil, err
	}
	opts.Logger = logger
	m, err := cfml.NewMatcher(opts)
	if err != nil {
		return nil, nil, err
	}
	return cfg, m, nil
}

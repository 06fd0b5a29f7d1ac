package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jarredhawkins/cfmatch/internal/index"
	"github.com/jarredhawkins/cfmatch/internal/lexer"
	"github.com/jarredhawkins/cfmatch/internal/lsp"
	"github.com/jarredhawkins/cfmatch/internal/watcher"
)

var rootPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the language server on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to current directory
		if rootPath == "" {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			rootPath = wd
		}
		abs, err := filepath.Abs(rootPath)
		if err != nil {
			return err
		}
		rootPath = abs
		cfgPath := cfgFile
		if !filepath.IsAbs(cfgPath) {
			cfgPath = filepath.Join(rootPath, cfgPath)
		}

		logger.Info("cfmatch starting", zap.String("root", rootPath), zap.String("config", cfgPath))

		// Create context with cancellation
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Handle shutdown signals
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			logger.Info("shutdown signal received")
			cancel()
		}()

		cfg, m, err := loadMatcher(cfgPath)
		if err != nil {
			return err
		}

		idx := index.New(rootPath, lexer.NewDefault(), logger)
		if err := idx.Build(ctx); err != nil {
			return err
		}

		server := lsp.NewServer(idx, m, logger)

		w, err := watcher.New(rootPath, func(changed, removed []string) {
			for _, path := range removed {
				if path == cfgPath {
					continue
				}
				idx.RemoveFile(path)
			}
			for _, path := range changed {
				if path == cfgPath {
					reloadConfig(server, cfgPath)
					continue
				}
				if err := idx.UpdateFile(path); err != nil {
					logger.Warn("failed to update file", zap.String("path", path), zap.Error(err))
				}
			}
		}, watcher.Options{
			DebounceMs: cfg.DebounceMs,
			Filter: func(path string) bool {
				return path == cfgPath || index.IsTemplate(path)
			},
			Logger: logger,
		})
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.Start(); err != nil {
			return err
		}

		// Start LSP server on stdio
		if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
			return err
		}

		logger.Info("cfmatch shutdown complete")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&rootPath, "root", "", "Workspace root (defaults to current directory)")
}

// reloadConfig rebuilds the matcher; a broken file keeps the old one
func reloadConfig(server *lsp.Server, path string) {
	_, m, err := loadMatcher(path)
	if err != nil {
		logger.Warn("config reload failed, keeping previous settings", zap.String("path", path), zap.Error(err))
		return
	}
	server.SetMatcher(m)
	logger.Info("config reloaded", zap.String("path", path))
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jarredhawkins/cfmatch/internal/check"
	"github.com/jarredhawkins/cfmatch/internal/index"
	"github.com/jarredhawkins/cfmatch/internal/lexer"
)

var (
	checkTimeout time.Duration

	// errIssuesFound makes the process exit non-zero without extra output
	errIssuesFound = errors.New("unmatched delimiters found")
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Report tags and braces without a counterpart",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
		defer cancel()

		_, m, err := loadMatcher(cfgFile)
		if err != nil {
			return err
		}

		files, err := expandPaths(ctx, args)
		if err != nil {
			return err
		}

		lx := lexer.NewDefault()
		var issues []check.Issue
		sources := make(map[string]string, len(files))
		for _, path := range files {
			content, err := os.ReadFile(path)
			if err != nil {
				logger.Error("Failed to read file", zap.String("path", path), zap.Error(err))
				continue
			}
			sources[path] = string(content)
			issues = append(issues, check.Document(lx.Lex(path, string(content)), m)...)
		}

		fmt.Fprint(cmd.OutOrStdout(), check.Format(issues, sources))
		logger.Debug("check finished", zap.Int("files", len(files)), zap.Int("issues", len(issues)))
		if len(issues) > 0 {
			cmd.SilenceErrors = true
			return errIssuesFound
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "Abort after this long")
}

// expandPaths turns directories into the templates below them
func expandPaths(ctx context.Context, args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := index.Collect(ctx, arg)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

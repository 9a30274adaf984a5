// Package cmd provides the pfmctl commands: offline FIRE math, rule
// categorization, formatting and a local workspace kept in a bbolt file.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	debug  bool
	logger *slog.Logger
}

// NewRootCmd builds the pfmctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{logger: slog.Default()}

	root := &cobra.Command{
		Use:   "pfmctl",
		Short: "Personal finance tools that run without the API server",
		Long: `pfmctl runs the pfm-api calculations locally.

Example:
  pfmctl project --spending 40000 --portfolio 250000 --contrib 30000
  pfmctl categorize "TRADER JOE'S #552"
  pfmctl workspace set-balance cash 12000`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.debug {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newProjectCmd(),
		newMonteCarloCmd(),
		newCategorizeCmd(),
		newFormatCmd(),
		newSeedCmd(),
		newWorkspaceCmd(opts),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput returns the contents of path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/janekbaraniewski/cursorlog/internal/config"
	"github.com/janekbaraniewski/cursorlog/internal/version"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		output    string
		verbose   bool
		watchMode bool
	)

	root := &cobra.Command{
		Use:   "cursorlog",
		Short: "cursorlog extracts AI prompt history from Cursor's local databases into a plain-text log.",
		Long: `cursorlog locates Cursor IDE's embedded SQLite databases, extracts the AI
prompt history they contain, and writes it to a chronological plain-text log
(most recent first). The source databases are only ever opened read-only.

Search locations follow the OS conventions for Cursor's application data;
setting CURSOR_STORAGE_PATH to an existing path replaces them entirely.

When no databases are found the log contains only the header, a warning goes
to stderr, and the exit code is still 0. The only fatal condition is an
unwritable output path.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(_ *cobra.Command, _ []string) error {
			if verbose {
				log.SetOutput(os.Stderr)
			} else {
				log.SetOutput(io.Discard)
			}

			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
				cfg = config.DefaultConfig()
			}
			if output != "" {
				cfg.Output = output
			}

			if watchMode {
				return runWatch(cfg)
			}
			return runOnce(cfg)
		},
	}

	root.Flags().StringVarP(&output, "output", "o", "", "path to the output log file (default \"cursor-prompts.log\")")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit per-step diagnostics to stderr")
	root.Flags().BoolVarP(&watchMode, "watch", "w", false, "keep running and regenerate the log when a database changes")

	root.AddCommand(newInspectCommand(&verbose))
	return root
}

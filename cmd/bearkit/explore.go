package main

import (
	"github.com/bearkit/bearkit/pkg/explore"
	"github.com/bearkit/bearkit/pkg/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively browse stored check results",
	Long: `Launch an interactive TUI over a datastore written by "bearkit check --db".

Features:
  - Three-pane layout: filters, files table, diagnostic details
  - Faceted filtering by check, severity and file extension
  - Suggested patch for each indentation diagnostic
  - Vi-style navigation (hjkl, Ctrl-f/b, g/G)
  - Source viewer via $PAGER`,
	Args: cobra.NoArgs,
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().String("db", store.MemoryPath, "Datastore path")
	configFlag(exploreCmd, "db", "store.path")
}

func runExplore(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	if s.cfg.Store.Path == store.MemoryPath {
		return errors.WithHint(
			errors.New("cannot explore an in-memory datastore"),
			"pass --db or set store.path in bearkit.toml",
		)
	}

	model, err := explore.New(s.cfg.Store.Path)
	if err != nil {
		return errors.Wrap(err, "loading datastore")
	}
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "running explore TUI")
	}
	return nil
}

package main

import (
	"os/signal"
	"syscall"

	"github.com/bearkit/bearkit/pkg/analyzer"
	"github.com/bearkit/bearkit/pkg/serve"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming analysis server for editor integrations",
	Long: `Run bearkit as a long-lived server that reads requests from stdin and
writes responses to stdout, one JSON document per line.

Profiles are loaded once at startup. Requests are "analyze",
"analyze_batch", "classify" and "close"; the server also stops when stdin
closes or SIGTERM is received.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "Also report lines that should open an indented block")
	cmd.Flags().StringSlice("disable", nil, "Checks to turn off")
	cmd.Flags().Int("cache-size", analyzer.DefaultCacheSize, "Classification cache entries (0 disables)")
	configFlag(cmd, "strict", "check.strict")
	configFlag(cmd, "disable", "check.disabled")
	configFlag(cmd, "cache-size", "cache.size")
	addProfileFlags(cmd)
	addIndentFlags(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.log.Sync()

	registry, err := s.registry()
	if err != nil {
		return err
	}
	a, err := analyzer.New(analyzer.Config{
		Registry:  registry,
		Indent:    s.indentOptions(),
		Strict:    s.cfg.Check.Strict,
		Disabled:  s.cfg.DisabledChecks(),
		CacheSize: s.cfg.Cache.Size,
		Logger:    s.log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	srv := serve.NewServer(a, s.log, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/bearkit/bearkit/pkg/config"
	"github.com/bearkit/bearkit/pkg/logger"
	"github.com/bearkit/bearkit/pkg/nesting"
	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	verbose    int
	quiet      bool
	logJSON    bool
	configPath string
)

// errDiagnostics is returned by commands that ran fine but found problems.
var errDiagnostics = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:   "bearkit",
	Short: "bearkit - string, comment and indentation analysis for source files",
	Long: `bearkit classifies the strings and comments of source files, tracks the
nesting of braces, brackets and keyword blocks, and reports lines whose
indentation does not match their nesting depth.

Settings are read from bearkit.toml (searched upwards from the working
directory), BEARKIT_* environment variables and flags, in increasing
precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Verbose output (repeat for debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON lines")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to bearkit.toml")

	// Add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(blocksCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. An interrupt cancels the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// settings is the resolved configuration of one command run.
type settings struct {
	cfg *config.Config
	log *zap.Logger
}

// configKeyAnnotation marks a flag as an override of a config key.
const configKeyAnnotation = "bearkit/config-key"

// configFlag ties an already defined flag to a config key.
func configFlag(cmd *cobra.Command, name, key string) {
	if err := cmd.Flags().SetAnnotation(name, configKeyAnnotation, []string{key}); err != nil {
		panic(err)
	}
}

// loadSettings layers the config file, environment and the flags cmd
// defines, then builds the logger.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	v, err := config.New(configPath)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	verbosity := verbose
	if quiet {
		verbosity = logger.VerbosityQuiet
	}
	log := logger.New(logger.Options{
		Verbosity: verbosity,
		JSON:      logJSON,
		Output:    cmd.ErrOrStderr(),
	})
	if f := v.ConfigFileUsed(); f != "" {
		log.Debug("loaded config", zap.String("path", f))
	}
	return &settings{cfg: cfg, log: log}, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[configKeyAnnotation]
		if len(keys) == 0 || err != nil {
			return
		}
		if bindErr := v.BindPFlag(keys[0], f); bindErr != nil {
			err = errors.Wrapf(bindErr, "binding flag --%s", f.Name)
		}
	})
	return err
}

// addProfileFlags registers the flags that select language profiles.
func addProfileFlags(cmd *cobra.Command) {
	cmd.Flags().String("profiles-dir", "", "Directory of additional profile files (*.yml)")
	cmd.Flags().StringSlice("profiles-include", nil, "Only use profiles whose ID matches these regexes")
	cmd.Flags().StringSlice("profiles-exclude", nil, "Skip profiles whose ID matches these regexes")
	configFlag(cmd, "profiles-dir", "profiles.path")
	configFlag(cmd, "profiles-include", "profiles.include")
	configFlag(cmd, "profiles-exclude", "profiles.exclude")
}

// addScanFlags registers the flags that control file enumeration.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("include-hidden", false, "Descend into hidden files and directories")
	cmd.Flags().Int64("max-file-size", 10*1024*1024, "Skip files larger than this many bytes")
	cmd.Flags().Int("workers", 0, "Files analyzed in parallel (0 = number of CPUs)")
	configFlag(cmd, "include-hidden", "scan.include_hidden")
	configFlag(cmd, "max-file-size", "scan.max_file_size")
	configFlag(cmd, "workers", "scan.workers")
}

// addOutputFlags registers --format and --color.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "human", "Output format: human, json, sarif")
	cmd.Flags().String("color", "auto", "Color output: auto, always, never")
	configFlag(cmd, "format", "output.format")
	configFlag(cmd, "color", "output.color")
}

// addIndentFlags registers the flags that shape corrected indentation.
func addIndentFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("spaces", false, "Indent with spaces instead of tabs")
	cmd.Flags().Int("indent-size", 4, "Spaces per level with --spaces")
	configFlag(cmd, "spaces", "indent.use_spaces")
	configFlag(cmd, "indent-size", "indent.size")
}

// registry loads the builtin profiles, adds those from profiles.path and
// applies the include/exclude filters.
func (s *settings) registry() (*profile.Registry, error) {
	loader := profile.NewLoader()
	profiles, err := loader.LoadBuiltinProfiles()
	if err != nil {
		return nil, errors.Wrap(err, "loading builtin profiles")
	}
	if dir := s.cfg.Profiles.Path; dir != "" {
		custom, err := loader.LoadProfileDir(dir)
		if err != nil {
			return nil, err
		}
		s.log.Debug("loaded custom profiles", zap.String("dir", dir), zap.Int("count", len(custom)))
		profiles = append(profiles, custom...)
	}

	profiles, err = profile.Filter(profiles, profile.FilterConfig{
		Include: s.cfg.Profiles.Include,
		Exclude: s.cfg.Profiles.Exclude,
	})
	if err != nil {
		return nil, errors.Wrap(err, "filtering profiles")
	}
	if len(profiles) == 0 {
		return nil, errors.WithHint(
			errors.New("no language profiles left after filtering"),
			"check --profiles-include and --profiles-exclude",
		)
	}
	return profile.NewRegistry(profiles), nil
}

func (s *settings) indentOptions() nesting.Options {
	return nesting.Options{Unit: s.cfg.IndentUnit()}
}

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	profilesFormat string
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect language profiles",
	Long:  "Commands for listing and inspecting the lexical profiles that drive classification",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available profiles",
	Long:  "Display every language profile with its ID, name and file extensions",
	Args:  cobra.NoArgs,
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one profile",
	Long:  "Print the full marker table of a profile, looked up by ID or alias, as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesListCmd.Flags().StringVar(&profilesFormat, "format", "table", "Output format: table, json")
	addProfileFlags(profilesListCmd)
	addProfileFlags(profilesShowCmd)
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	registry, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	profiles := registry.All()

	switch profilesFormat {
	case "json":
		return writeJSON(cmd.OutOrStdout(), profiles)
	case "table":
		return outputProfilesTable(cmd, profiles)
	default:
		return errors.Newf("unknown output format: %s", profilesFormat)
	}
}

func runProfilesShow(cmd *cobra.Command, args []string) error {
	registry, err := loadRegistry(cmd)
	if err != nil {
		return err
	}
	p, err := registry.Get(args[0])
	if err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "%q", args[0]),
			"run `bearkit profiles list` to see the available IDs",
		)
	}
	return writeJSON(cmd.OutOrStdout(), p)
}

func loadRegistry(cmd *cobra.Command) (*profile.Registry, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	return s.registry()
}

func outputProfilesTable(cmd *cobra.Command, profiles []*profile.LexicalProfile) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tName\tExtensions\tMarkers\n")
	fmt.Fprintf(w, "--\t----\t----------\t-------\n")

	for _, p := range profiles {
		exts := strings.Join(p.Extensions, " ")
		if len(p.Filenames) > 0 {
			exts = strings.TrimSpace(exts + " " + strings.Join(p.Filenames, " "))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Name, exts, len(p.Markers))
	}

	return nil
}

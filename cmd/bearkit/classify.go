package main

import (
	"io"
	"os"

	"github.com/bearkit/bearkit/pkg/analyzer"
	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	classifyProfile string
)

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Print the string and comment ranges of a file",
	Long: `Print, as JSON, the ranges of a file that are string literals or comments.
Positions are 1-based lines and rune columns; offsets are bytes.

The language is detected from the file name unless --profile is given.
"-" reads stdin, which needs --profile.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyProfile, "profile", "p", "", "Language profile ID or alias")
	addProfileFlags(classifyCmd)
}

// classifyOutput is the JSON document printed by classify.
type classifyOutput struct {
	File     string              `json:"file"`
	Profile  string              `json:"profile"`
	Strings  []types.SourceRange `json:"strings"`
	Comments []types.SourceRange `json:"comments"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	in, err := loadInput(cmd, args[0], classifyProfile)
	if err != nil {
		return err
	}
	ranges, err := in.analyzer.Classify(in.name, in.lines, in.profile)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), classifyOutput{
		File:     in.name,
		Profile:  in.profile.ID,
		Strings:  nonNil(ranges.Strings),
		Comments: nonNil(ranges.Comments),
	})
}

// input is one file loaded for the single-file commands.
type input struct {
	name     string
	lines    []string
	profile  *profile.LexicalProfile
	analyzer *analyzer.Analyzer
}

// loadInput reads path (or stdin for "-") and resolves its profile,
// either by name or by detection.
func loadInput(cmd *cobra.Command, path, profileName string) (*input, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	registry, err := s.registry()
	if err != nil {
		return nil, err
	}

	var content []byte
	if path == "-" {
		if profileName == "" {
			return nil, errors.WithHint(
				errors.New("cannot detect the language of stdin"),
				"pass --profile",
			)
		}
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var p *profile.LexicalProfile
	if profileName != "" {
		p, err = registry.Get(profileName)
	} else {
		p, err = registry.Detect(path, content)
	}
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "%s", path),
			"run `bearkit profiles list` and pass one with --profile",
		)
	}

	a, err := analyzer.New(analyzer.Config{Registry: registry, Logger: s.log})
	if err != nil {
		return nil, err
	}
	return &input{
		name:     path,
		lines:    types.SplitLines(string(content)),
		profile:  p,
		analyzer: a,
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

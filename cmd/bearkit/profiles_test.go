package main

import (
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProfilesListCmd creates a fresh profiles list command for testing
func newProfilesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "list",
		Args: cobra.NoArgs,
		RunE: runProfilesList,
	}
	cmd.Flags().StringVar(&profilesFormat, "format", "table", "")
	addProfileFlags(cmd)
	return cmd
}

func newProfilesShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:  "show <id>",
		Args: cobra.ExactArgs(1),
		RunE: runProfilesShow,
	}
	addProfileFlags(cmd)
	return cmd
}

type profileJSON struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Markers    []struct {
		Kind  string `json:"kind"`
		Open  string `json:"open"`
		Close string `json:"close"`
	} `json:"markers"`
}

func TestProfilesList_Table(t *testing.T) {
	workdir(t, nil)

	stdout, _, err := run(t, newProfilesListCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ID")
	assert.Contains(t, stdout, "Extensions")
	assert.Contains(t, stdout, ".c .h")
	assert.Contains(t, stdout, "python")
}

func TestProfilesList_JSON(t *testing.T) {
	workdir(t, nil)

	stdout, _, err := run(t, newProfilesListCmd(), "", "--format", "json")
	require.NoError(t, err)

	var profiles []profileJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &profiles))
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	assert.Contains(t, ids, "c")
	assert.Contains(t, ids, "go")
	assert.Contains(t, ids, "python")
}

func TestProfilesList_Filtered(t *testing.T) {
	workdir(t, nil)

	stdout, _, err := run(t, newProfilesListCmd(), "", "--format", "json", "--profiles-include", "^c$")
	require.NoError(t, err)
	var profiles []profileJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &profiles))
	require.Len(t, profiles, 1)
	assert.Equal(t, "c", profiles[0].ID)

	_, _, err = run(t, newProfilesListCmd(), "", "--profiles-include", "^nothing$")
	assert.ErrorContains(t, err, "no language profiles left")
}

func TestProfilesList_InvalidFormat(t *testing.T) {
	workdir(t, nil)

	_, _, err := run(t, newProfilesListCmd(), "", "--format", "yaml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestProfilesShow(t *testing.T) {
	workdir(t, nil)

	stdout, _, err := run(t, newProfilesShowCmd(), "", "h")
	require.NoError(t, err)

	var p profileJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &p))
	assert.Equal(t, "c", p.ID, "looked up by alias")
	assert.Equal(t, []string{".c", ".h"}, p.Extensions)

	var kinds []string
	for _, m := range p.Markers {
		kinds = append(kinds, m.Kind)
	}
	assert.Contains(t, kinds, "indent")
	assert.Contains(t, kinds, "multiline_comment")

	_, _, err = run(t, newProfilesShowCmd(), "", "cobol")
	assert.Error(t, err)
}

func TestProfilesCustomDir(t *testing.T) {
	workdir(t, map[string]string{
		"profiles/lua.yml": `profiles:
  - id: lua
    name: Lua
    extensions: [.lua]
    comment_delimiters: ["--"]
    string_delimiters:
      '"': '"'
    indent_markers:
      "function": "end"
`,
		"main.lua": "function f()\nreturn 1 -- end\nend\n",
	})

	stdout, _, err := run(t, newProfilesShowCmd(), "", "--profiles-dir", "profiles", "lua")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"id": "lua"`)

	fixed, _, err := run(t, newFixCmd(), "", "--profiles-dir", "profiles", "--diff", "main.lua")
	require.ErrorIs(t, err, errDiagnostics)
	assert.Contains(t, fixed, "+\treturn 1 -- end")
}

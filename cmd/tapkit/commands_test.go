package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lightninglabs/tapkit/address"
	"github.com/lightninglabs/tapkit/internal/test"
	"github.com/lightninglabs/tapkit/taptree"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

// TestCommandShortNamesUnique ensures that all command short names are unique
// within their respective command groups at the same level to avoid conflicts.
func TestCommandShortNamesUnique(t *testing.T) {
	// Create a new app to get all commands.
	app := NewApp()

	// Helper function to check short names within a group of commands at
	// the same level.
	//
	// Note that we define using var here to avoid recursion issues.
	var checkLevel func(commands []cli.Command, groupPath string)
	checkLevel = func(commands []cli.Command, groupPath string) {
		shortNames := make(map[string][]string)

		// Check short names only at this level (not recursively).
		for _, cmd := range commands {
			// Check if command has a short name.
			if cmd.ShortName == "" {
				continue
			}

			// Command has a short name, so we add it to the map.
			commandPath := groupPath
			if commandPath != "" {
				commandPath += " "
			}

			commandPath += cmd.Name
			shortNames[cmd.ShortName] = append(
				shortNames[cmd.ShortName], commandPath,
			)
		}

		// Check for duplicates at this level.
		var duplicates []string
		for shortName, paths := range shortNames {
			if len(paths) > 1 {
				duplicates = append(duplicates, shortName)
			}
		}

		// Fail the test if any duplicates were found at this level.
		require.Empty(t, duplicates, "Found duplicate short names at "+
			"command level '%s'", groupPath)

		// Log all short names for reference (only in verbose mode).
		if testing.Verbose() {
			t.Logf("Level '%s' has %d unique short names:",
				groupPath, len(shortNames))
			for shortName, paths := range shortNames {
				t.Logf("  %s -> %s", shortName, paths[0])
			}
		}

		// Recursively check subcommands at their respective levels.
		for _, cmd := range commands {
			if len(cmd.Subcommands) > 0 {
				// Formulate subgroup path.
				subGroupPath := groupPath
				if subGroupPath != "" {
					subGroupPath += " "
				}
				subGroupPath += cmd.Name

				// Recursively check subcommands.
				checkLevel(cmd.Subcommands, subGroupPath)
			}
		}
	}

	// Check top-level commands.
	checkLevel(app.Commands, "")
}

// TestParseNode checks the JSON form of trees.
func TestParseNode(t *testing.T) {
	a, b, c := test.RandHash(), test.RandHash(), test.RandHash()

	raw, err := json.Marshal([]any{
		hashHex(a), []string{hashHex(b), hashHex(c)},
	})
	require.NoError(t, err)

	node, err := parseNode(raw)
	require.NoError(t, err)
	require.Equal(t, taptree.Branch{
		taptree.Leaf(a), taptree.Leaves(b, c),
	}, node)

	_, err = parseNode(json.RawMessage(`["abcd"]`))
	require.ErrorContains(t, err, "invalid leaf")

	_, err = parseNode(json.RawMessage(`{"leaf": 1}`))
	require.ErrorContains(t, err, "string or a list")

	h, err := parseHash(hashHex(a))
	require.NoError(t, err)
	require.Equal(t, a, h)
}

// TestSetup runs the app with a config file and checks that global flags
// take precedence over it.
func TestSetup(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "tapkit.conf")
	content := "[Application Options]\nnetwork=testnet\n"
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))

	app := NewApp()
	err := app.Run([]string{
		"tapkit", "--configfile", configFile, "--logdir", dir,
		"version",
	})
	require.NoError(t, err)
	require.Equal(t, address.Testnet, cfg.ActiveNet)

	err = app.Run([]string{
		"tapkit", "--configfile", configFile, "--logdir", dir,
		"--network", "regtest", "version",
	})
	require.NoError(t, err)
	require.Equal(t, address.Regtest, cfg.ActiveNet)

	err = app.Run([]string{
		"tapkit", "--configfile", configFile, "--logdir", dir,
		"--network", "simnet", "version",
	})
	require.ErrorIs(t, err, address.ErrUnknownNetwork)
}

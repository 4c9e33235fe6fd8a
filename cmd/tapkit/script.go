package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/lightninglabs/tapkit/script"
	"github.com/urfave/cli"
)

const varintName = "varint"

var scriptCommands = []cli.Command{
	{
		Name:     "script",
		Usage:    "Encode and decode scripts.",
		Category: "Scripts",
		Subcommands: []cli.Command{
			encodeScriptCommand,
			decodeScriptCommand,
		},
	},
}

var encodeScriptCommand = cli.Command{
	Name:      "encode",
	Usage:     "encode script words",
	ArgsUsage: "word...",
	Description: `
	Encodes the words given as arguments. Words starting with OP_ are
	opcodes, all other words are hex encoded data pushes.
	`,
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  varintName,
			Usage: "prefix the script with its compact size length",
		},
	},
	Action: encodeScript,
}

func encodeScript(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.ShowCommandHelp(ctx, "encode")
	}

	words := script.ParseWords(strings.Join(ctx.Args(), " "))
	encoded, err := script.EncodeScript(words, ctx.Bool(varintName))
	if err != nil {
		return err
	}

	printJSON(struct {
		Script string `json:"script"`
		Size   int    `json:"size"`
	}{
		Script: hex.EncodeToString(encoded),
		Size:   len(encoded),
	})

	return nil
}

var decodeScriptCommand = cli.Command{
	Name:      "decode",
	Usage:     "disassemble an encoded script",
	ArgsUsage: "script_hex",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  varintName,
			Usage: "the script starts with its compact size length",
		},
	},
	Action: decodeScript,
}

func decodeScript(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "decode")
	}

	raw, err := hex.DecodeString(ctx.Args().First())
	if err != nil {
		return fmt.Errorf("invalid script hex: %w", err)
	}

	words, err := script.DecodeScript(raw, ctx.Bool(varintName))
	if err != nil {
		return err
	}

	printJSON(struct {
		Asm   string `json:"asm"`
		Words int    `json:"num_words"`
	}{
		Asm:   words.String(),
		Words: len(words),
	})

	return nil
}

package main

import (
	"encoding/hex"

	"github.com/lightninglabs/tapkit/address"
	"github.com/lightninglabs/tapkit/script"
	"github.com/urfave/cli"
)

const (
	kindName = "kind"
	keyName  = "key"
)

var addrCommands = []cli.Command{
	{
		Name:      "addrs",
		ShortName: "a",
		Usage:     "Detect, decode and encode Bitcoin addresses.",
		Category:  "Addresses",
		Subcommands: []cli.Command{
			detectAddrCommand,
			decodeAddrCommand,
			addrScriptCommand,
			encodeAddrCommand,
		},
	},
}

var detectAddrCommand = cli.Command{
	Name:      "detect",
	Usage:     "detect the kind and network of an address",
	ArgsUsage: "addr",
	Action:    detectAddr,
}

func detectAddr(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "detect")
	}

	addrType, err := address.DetectType(ctx.Args().First())
	if err != nil {
		return err
	}

	printJSON(struct {
		Prefix  string `json:"prefix"`
		Kind    string `json:"kind"`
		Network string `json:"network"`
	}{
		Prefix:  addrType.Prefix,
		Kind:    string(addrType.Kind),
		Network: addrType.Network.String(),
	})

	return nil
}

var decodeAddrCommand = cli.Command{
	Name:      "decode",
	Usage:     "decode the hash or key an address commits to",
	ArgsUsage: "addr",
	Action:    decodeAddr,
}

func decodeAddr(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "decode")
	}

	hash, err := address.DecodeAddress(ctx.Args().First())
	if err != nil {
		return err
	}

	printJSON(struct {
		Hash string `json:"hash"`
	}{
		Hash: hex.EncodeToString(hash),
	})

	return nil
}

var addrScriptCommand = cli.Command{
	Name:      "script",
	Usage:     "convert an address into its output script",
	ArgsUsage: "addr",
	Action:    addrScript,
}

func addrScript(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "script")
	}

	pkScript, err := address.ConvertAddress(ctx.Args().First())
	if err != nil {
		return err
	}

	asm, err := script.Disasm(pkScript)
	if err != nil {
		return err
	}

	printJSON(struct {
		Script string `json:"script"`
		Asm    string `json:"asm"`
	}{
		Script: hex.EncodeToString(pkScript),
		Asm:    asm,
	})

	return nil
}

var encodeAddrCommand = cli.Command{
	Name:  "encode",
	Usage: "encode a key as an address on the configured network",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  kindName,
			Value: string(address.KindP2TR),
			Usage: "the address kind, one of p2pkh, p2sh, p2w or " +
				"p2tr",
		},
		cli.StringFlag{
			Name: keyName,
			Usage: "the hex encoded key or script the address " +
				"commits to",
		},
	},
	Action: encodeAddr,
}

func encodeAddr(ctx *cli.Context) error {
	kind, err := address.ParseKind(ctx.String(kindName))
	if err != nil {
		return err
	}

	key, err := parseHexFlag(ctx, keyName)
	if err != nil {
		return err
	}

	addr, err := address.Encode(kind, key, cfg.ActiveNet)
	if err != nil {
		return err
	}

	printJSON(struct {
		Address string `json:"address"`
		Network string `json:"network"`
	}{
		Address: addr,
		Network: cfg.ActiveNet.String(),
	})

	return nil
}

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/lightninglabs/tapkit/bip340"
	"github.com/lightninglabs/tapkit/fn"
	"github.com/lightninglabs/tapkit/script"
	"github.com/lightninglabs/tapkit/taptree"
	lfn "github.com/lightningnetwork/lnd/fn/v2"
	"github.com/urfave/cli"
)

const (
	leafVersionName = "leafversion"
	rawName         = "raw"
	treeName        = "tree"
	targetName      = "target"
	internalKeyName = "internalkey"
)

var treeCommands = []cli.Command{
	{
		Name:     "tree",
		Usage:    "Hash tapscript leaves and merkleize script trees.",
		Category: "Trees",
		Subcommands: []cli.Command{
			leafCommand,
			merkleizeCommand,
		},
	},
}

var leafCommand = cli.Command{
	Name:      "leaf",
	Usage:     "compute the hash of a tapscript leaf",
	ArgsUsage: "word... | script_hex",
	Flags: []cli.Flag{
		cli.UintFlag{
			Name:  leafVersionName,
			Value: uint(txscript.BaseLeafVersion),
			Usage: "the leaf version of the script",
		},
		cli.BoolFlag{
			Name:  rawName,
			Usage: "treat the argument as an encoded script",
		},
	},
	Action: leafHash,
}

func leafHash(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.ShowCommandHelp(ctx, "leaf")
	}

	var src script.Source = script.ParseWords(
		strings.Join(ctx.Args(), " "),
	)
	if ctx.Bool(rawName) {
		src = script.RawHex(ctx.Args().First())
	}

	version := txscript.TapscriptLeafVersion(ctx.Uint(leafVersionName))
	h, err := taptree.TapLeafHash(src, version)
	if err != nil {
		return err
	}

	printJSON(struct {
		LeafHash string `json:"leaf_hash"`
	}{
		LeafHash: hashHex(h),
	})

	return nil
}

var merkleizeCommand = cli.Command{
	Name:  "merkleize",
	Usage: "compute the root of a script tree and the proof of a leaf",
	Description: `
	The tree is given as JSON, where a string is a hex encoded leaf hash
	and a list is a sub-tree, for example '["<a>", ["<b>", "<c>"]]'.

	If an internal key is set, the output key committing to the tree and,
	if a target is set, the control block of the target leaf are printed.
	`,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  treeName,
			Usage: "the tree as a JSON list",
		},
		cli.StringFlag{
			Name:  targetName,
			Usage: "the leaf hash to create the proof for",
		},
		cli.StringFlag{
			Name:  internalKeyName,
			Usage: "the hex encoded internal key of the output",
		},
	},
	Action: merkleize,
}

// parseNode parses the JSON form of a tree node.
func parseNode(raw json.RawMessage) (taptree.Node, error) {
	var leaf string
	if err := json.Unmarshal(raw, &leaf); err == nil {
		h, err := parseHash(leaf)
		if err != nil {
			return nil, fmt.Errorf("invalid leaf %q: %w", leaf, err)
		}

		return taptree.Leaf(h), nil
	}

	var children []json.RawMessage
	if err := json.Unmarshal(raw, &children); err != nil {
		return nil, fmt.Errorf("tree node must be a string or a "+
			"list: %w", err)
	}

	branch := make(taptree.Branch, len(children))
	for i, child := range children {
		node, err := parseNode(child)
		if err != nil {
			return nil, err
		}
		branch[i] = node
	}

	return branch, nil
}

// parseHash decodes a hex encoded hash. Unlike chainhash.NewHashFromStr the
// bytes are not reversed, matching hashHex.
func parseHash(s string) (chainhash.Hash, error) {
	var h chainhash.Hash

	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != chainhash.HashSize {
		return h, fmt.Errorf("hash must be %d bytes, got %d",
			chainhash.HashSize, len(b))
	}

	return fn.ToArray[chainhash.Hash](b), nil
}

// hashHex encodes a hash in byte order.
func hashHex(h chainhash.Hash) string {
	return hex.EncodeToString(h[:])
}

func merkleize(ctx *cli.Context) error {
	if !ctx.IsSet(treeName) {
		return cli.ShowCommandHelp(ctx, "merkleize")
	}

	node, err := parseNode(json.RawMessage(ctx.String(treeName)))
	if err != nil {
		return err
	}
	tree, ok := node.(taptree.Branch)
	if !ok {
		tree = taptree.Branch{node}
	}

	target := lfn.None[chainhash.Hash]()
	if ctx.IsSet(targetName) {
		h, err := parseHash(ctx.String(targetName))
		if err != nil {
			return fmt.Errorf("invalid target: %w", err)
		}
		target = lfn.Some(h)
	}

	proof, err := taptree.Merkleize(tree, target)
	if err != nil {
		return err
	}

	path := fn.Map(proof.Path, hashHex)

	proofBytes, err := proof.Bytes()
	if err != nil {
		return err
	}

	resp := struct {
		Root         string   `json:"root"`
		Found        bool     `json:"target_found"`
		Path         []string `json:"path"`
		Proof        string   `json:"proof"`
		OutputKey    string   `json:"output_key,omitempty"`
		ControlBlock string   `json:"control_block,omitempty"`
	}{
		Root:  hashHex(proof.Root),
		Found: proof.Found(),
		Path:  path,
		Proof: hex.EncodeToString(proofBytes),
	}

	if ctx.IsSet(internalKeyName) {
		keyBytes, err := parseHexFlag(ctx, internalKeyName)
		if err != nil {
			return err
		}
		internalKey, err := bip340.ParsePubKey(keyBytes)
		if err != nil {
			return err
		}

		outputKey := taptree.OutputKey(internalKey, proof.Root)
		resp.OutputKey = hex.EncodeToString(
			outputKey.SerializeCompressed(),
		)

		if proof.Found() {
			ctrlBlock, err := proof.ControlBlock(
				internalKey, txscript.BaseLeafVersion,
			)
			if err != nil {
				return err
			}
			ctrlBytes, err := ctrlBlock.ToBytes()
			if err != nil {
				return err
			}
			resp.ControlBlock = hex.EncodeToString(ctrlBytes)
		}
	}

	printJSON(resp)

	return nil
}

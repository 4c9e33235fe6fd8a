package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lightninglabs/tapkit/bip340"
	"github.com/lightninglabs/tapkit/fn"
	"github.com/urfave/cli"
)

const (
	secKeyName = "seckey"
	msgName    = "msg"
	auxName    = "aux"
	sigName    = "sig"
	pubKeyName = "pubkey"
	strictName = "strict"
	fileName   = "file"
)

var schnorrCommands = []cli.Command{
	{
		Name:      "schnorr",
		ShortName: "s",
		Usage:     "Create and verify BIP340 signatures.",
		Category:  "Signatures",
		Subcommands: []cli.Command{
			signCommand,
			verifyCommand,
			verifyBatchCommand,
			pubKeyCommand,
		},
	},
}

var signCommand = cli.Command{
	Name:  "sign",
	Usage: "sign a message with a secret key",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  secKeyName,
			Usage: "the hex encoded 32-byte secret key",
		},
		cli.StringFlag{
			Name:  msgName,
			Usage: "the hex encoded message to sign",
		},
		cli.StringFlag{
			Name: auxName,
			Usage: "the hex encoded 32 bytes of auxiliary " +
				"randomness; random if not set",
		},
	},
	Action: sign,
}

func sign(ctx *cli.Context) error {
	secKey, err := parseHexFlag(ctx, secKeyName)
	if err != nil {
		return err
	}
	msg, err := parseHexFlag(ctx, msgName)
	if err != nil {
		return err
	}

	var sig *bip340.Signature
	if ctx.IsSet(auxName) {
		auxBytes, err := parseHexFlag(ctx, auxName)
		if err != nil {
			return err
		}
		if len(auxBytes) != bip340.AuxSize {
			return fmt.Errorf("aux must be %d bytes", bip340.AuxSize)
		}

		var aux [bip340.AuxSize]byte
		copy(aux[:], auxBytes)
		sig, err = bip340.Sign(secKey, msg, aux)
		if err != nil {
			return err
		}
	} else {
		sig, err = bip340.SignWithRand(secKey, msg, rand.Reader)
		if err != nil {
			return err
		}
	}

	pubKey, err := bip340.PubKey(secKey)
	if err != nil {
		return err
	}

	printJSON(struct {
		Signature string `json:"signature"`
		PubKey    string `json:"pubkey"`
	}{
		Signature: hex.EncodeToString(sig[:]),
		PubKey:    hex.EncodeToString(pubKey[:]),
	})

	return nil
}

var verifyCommand = cli.Command{
	Name:  "verify",
	Usage: "verify a signature and report every check",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  sigName,
			Usage: "the hex encoded 64-byte signature",
		},
		cli.StringFlag{
			Name:  msgName,
			Usage: "the hex encoded signed message",
		},
		cli.StringFlag{
			Name:  pubKeyName,
			Usage: "the hex encoded x-only or compressed public key",
		},
		cli.BoolFlag{
			Name:  strictName,
			Usage: "fail on the first failing check",
		},
	},
	Action: verify,
}

type checkResp struct {
	Check  string `json:"check"`
	Passed bool   `json:"passed"`
	Error  string `json:"error,omitempty"`
}

func verify(ctx *cli.Context) error {
	sig, err := parseHexFlag(ctx, sigName)
	if err != nil {
		return err
	}
	msg, err := parseHexFlag(ctx, msgName)
	if err != nil {
		return err
	}
	pubKey, err := parseHexFlag(ctx, pubKeyName)
	if err != nil {
		return err
	}

	valid, err := bip340.Verify(sig, msg, pubKey, ctx.Bool(strictName))
	if err != nil {
		return err
	}

	result, err := bip340.CheckSignature(sig, msg, pubKey)
	if err != nil {
		return err
	}

	checks := make([]checkResp, 0, len(result.Checks))
	for _, c := range result.Checks {
		resp := checkResp{
			Check:  c.Check.String(),
			Passed: c.Passed(),
		}
		if c.Err != nil {
			resp.Error = c.Err.Error()
		}
		checks = append(checks, resp)
	}

	printJSON(struct {
		Valid     bool        `json:"valid"`
		AllPassed bool        `json:"all_passed"`
		Checks    []checkResp `json:"checks"`
	}{
		Valid:     valid,
		AllPassed: result.AllPassed(),
		Checks:    checks,
	})

	return nil
}

var verifyBatchCommand = cli.Command{
	Name:  "verifybatch",
	Usage: "verify many signatures read from a JSON file",
	Description: `
	Verifies every entry of a JSON file holding a list of objects with the
	hex encoded fields "sig", "msg" and "pubkey". The signatures are
	verified concurrently and the results are printed in file order.
	`,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:      fileName,
			Usage:     "the JSON file holding the requests",
			TakesFile: true,
		},
		cli.BoolFlag{
			Name:  strictName,
			Usage: "abort on the first failing check",
		},
	},
	Action: verifyBatch,
}

type batchEntry struct {
	Sig    string `json:"sig"`
	Msg    string `json:"msg"`
	PubKey string `json:"pubkey"`
}

// parseBatchEntry decodes the hex fields of a batch entry.
func parseBatchEntry(entry batchEntry) (bip340.Request, error) {
	var (
		req    bip340.Request
		fields = []struct {
			name   string
			value  string
			target *[]byte
		}{
			{sigName, entry.Sig, &req.Sig},
			{msgName, entry.Msg, &req.Msg},
			{pubKeyName, entry.PubKey, &req.PubKey},
		}
	)
	for _, field := range fields {
		b, err := hex.DecodeString(field.value)
		if err != nil {
			return req, fmt.Errorf("invalid hex for %s: %w",
				field.name, err)
		}
		*field.target = b
	}

	return req, nil
}

func verifyBatch(ctx *cli.Context) error {
	if !ctx.IsSet(fileName) {
		return fmt.Errorf("%s must be set", fileName)
	}

	fileBytes, err := os.ReadFile(ctx.String(fileName))
	if err != nil {
		return err
	}

	var entries []batchEntry
	if err := json.Unmarshal(fileBytes, &entries); err != nil {
		return fmt.Errorf("unable to parse batch file: %w", err)
	}

	reqs, err := fn.MapErr(entries, parseBatchEntry)
	if err != nil {
		return err
	}

	results, err := bip340.VerifyBatch(
		getContext(), reqs, ctx.Bool(strictName),
	)
	if err != nil {
		return err
	}

	printJSON(struct {
		Valid []bool `json:"valid"`
	}{
		Valid: results,
	})

	return nil
}

var pubKeyCommand = cli.Command{
	Name:  "pubkey",
	Usage: "derive the x-only public key of a secret key",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  secKeyName,
			Usage: "the hex encoded 32-byte secret key",
		},
	},
	Action: pubKey,
}

func pubKey(ctx *cli.Context) error {
	secKey, err := parseHexFlag(ctx, secKeyName)
	if err != nil {
		return err
	}

	key, err := bip340.PubKey(secKey)
	if err != nil {
		return err
	}

	printJSON(struct {
		PubKey string `json:"pubkey"`
	}{
		PubKey: hex.EncodeToString(key[:]),
	})

	return nil
}

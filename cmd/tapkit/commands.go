package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lightninglabs/tapkit"
	"github.com/lightninglabs/tapkit/tkcfg"
	"github.com/lightningnetwork/lnd/build"
	"github.com/lightningnetwork/lnd/signal"
	"github.com/urfave/cli"
)

// cfg is the configuration loaded before any command runs.
var cfg *tkcfg.Config

// NewApp creates a new tapkit app with all the available commands.
func NewApp() cli.App {
	app := cli.NewApp()
	app.Name = "tapkit"
	app.Version = tapkit.Version()
	app.Usage = "sign, verify and encode Bitcoin taproot data"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:      "configfile",
			Value:     tkcfg.DefaultConfigFile,
			Usage:     "The path to the tapkit config file.",
			TakesFile: true,
		},
		cli.StringFlag{
			Name: "network, n",
			Usage: "The network addresses are encoded for, e.g. " +
				"mainnet, testnet or regtest.",
		},
		cli.StringFlag{
			Name:  "debuglevel",
			Usage: "The logging level for all subsystems.",
		},
		cli.StringFlag{
			Name:      "logdir",
			Usage:     "The directory to write log output to.",
			TakesFile: true,
		},
	}
	app.Before = setup

	// Add all the available commands.
	app.Commands = []cli.Command{
		versionCommand,
	}
	app.Commands = append(app.Commands, schnorrCommands...)
	app.Commands = append(app.Commands, scriptCommands...)
	app.Commands = append(app.Commands, treeCommands...)
	app.Commands = append(app.Commands, addrCommands...)

	return *app
}

// setup loads the config file, applies the global flags on top of it and
// initializes logging.
func setup(ctx *cli.Context) error {
	loadedCfg, err := tkcfg.LoadConfig(ctx.GlobalString("configfile"))
	if err != nil {
		return err
	}

	if ctx.GlobalIsSet("network") {
		loadedCfg.Network = ctx.GlobalString("network")
	}
	if ctx.GlobalIsSet("debuglevel") {
		loadedCfg.DebugLevel = ctx.GlobalString("debuglevel")
	}
	if ctx.GlobalIsSet("logdir") {
		loadedCfg.LogDir = ctx.GlobalString("logdir")
	}

	cfg, err = tkcfg.ValidateConfig(*loadedCfg)
	if err != nil {
		return err
	}

	logWriter := build.NewRotatingLogWriter()
	tapkit.SetupLoggers(logWriter)

	err = logWriter.InitLogRotator(
		cfg.LogFile(), cfg.MaxLogFileSize, cfg.MaxLogFiles,
	)
	if err != nil {
		return fmt.Errorf("unable to init log rotator: %w", err)
	}

	err = build.ParseAndSetDebugLevels(cfg.DebugLevel, logWriter)
	if err != nil {
		return fmt.Errorf("error parsing debug level: %w", err)
	}

	tapkit.Logger().Debugf("Using network %v", cfg.ActiveNet)

	return nil
}

func getContext() context.Context {
	shutdownInterceptor, err := signal.Intercept()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctxc, cancel := context.WithCancel(context.Background())
	go func() {
		<-shutdownInterceptor.ShutdownChannel()
		cancel()
	}()
	return ctxc
}

func printJSON(resp interface{}) {
	b, err := json.Marshal(resp)
	if err != nil {
		fatal(err)
	}

	var out bytes.Buffer
	_ = json.Indent(&out, b, "", "\t")
	out.WriteString("\n")
	_, _ = out.WriteTo(os.Stdout)
}

func fatal(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "[tapkit] %v\n", err)
	os.Exit(1)
}

// parseHexFlag decodes the hex value of a required flag.
func parseHexFlag(ctx *cli.Context, name string) ([]byte, error) {
	if !ctx.IsSet(name) {
		return nil, fmt.Errorf("%s must be set", name)
	}

	b, err := hex.DecodeString(ctx.String(name))
	if err != nil {
		return nil, fmt.Errorf("invalid hex for %s: %w", name, err)
	}

	return b, nil
}

var versionCommand = cli.Command{
	Name:   "version",
	Usage:  "Display tapkit version info.",
	Action: version,
}

func version(_ *cli.Context) error {
	printJSON(struct {
		Version    string   `json:"version"`
		Semantic   string   `json:"semantic_version"`
		Commit     string   `json:"commit"`
		CommitHash string   `json:"commit_hash"`
		GoVersion  string   `json:"go_version"`
		BuildTags  []string `json:"build_tags"`
	}{
		Version:    tapkit.Version(),
		Semantic:   tapkit.SemanticVersion(),
		Commit:     tapkit.Commit,
		CommitHash: tapkit.CommitHash,
		GoVersion:  tapkit.GoVersion,
		BuildTags:  tapkit.Tags(),
	})

	return nil
}

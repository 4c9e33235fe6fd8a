package tapkit

import (
	"github.com/btcsuite/btclog"
	"github.com/lightninglabs/tapkit/address"
	"github.com/lightninglabs/tapkit/bip340"
	"github.com/lightninglabs/tapkit/script"
	"github.com/lightninglabs/tapkit/taptree"
	"github.com/lightningnetwork/lnd/build"
)

// Subsystem is the logging code of the tapkit root package.
const Subsystem = "TKIT"

// replaceableLogger is a thin wrapper around a logger that is used so the
// logger can be replaced easily without some black pointer magic.
type replaceableLogger struct {
	btclog.Logger
	subsystem string
}

// Loggers can not be used before the log rotator has been initialized with a
// log file. This must be performed early during application startup by
// calling InitLogRotator() on the main log writer instance.
var (
	// pkgLoggers is a list of all root package level loggers that are
	// registered. They are tracked here so they can be replaced once the
	// SetupLoggers function is called with the final root logger.
	pkgLoggers []*replaceableLogger

	// addPkgLogger is a helper function that creates a new replaceable
	// root package level logger and adds it to the list of loggers that
	// are replaced again later, once the final root logger is ready.
	addPkgLogger = func(subsystem string) *replaceableLogger {
		l := &replaceableLogger{
			Logger:    build.NewSubLogger(subsystem, nil),
			subsystem: subsystem,
		}
		pkgLoggers = append(pkgLoggers, l)
		return l
	}

	// tkitLog is the logger of the root package.
	tkitLog = addPkgLogger(Subsystem)
)

// genSubLogger returns a function that creates a logger for a subsystem
// from the root logger.
func genSubLogger(root *build.RotatingLogWriter) func(string) btclog.Logger {
	return func(tag string) btclog.Logger {
		return root.GenSubLogger(tag, nil)
	}
}

// Logger returns the logger of the root package, for use by the command line
// front end.
func Logger() btclog.Logger {
	return tkitLog
}

// SetupLoggers initializes all package-global logger variables.
func SetupLoggers(root *build.RotatingLogWriter) {
	genLogger := genSubLogger(root)

	// Now that we have the proper root logger, we can replace the
	// placeholder root package loggers.
	for _, l := range pkgLoggers {
		l.Logger = build.NewSubLogger(l.subsystem, genLogger)
		SetSubLogger(root, l.subsystem, l.Logger)
	}

	AddSubLogger(root, bip340.Subsystem, bip340.UseLogger)
	AddSubLogger(root, script.Subsystem, script.UseLogger)
	AddSubLogger(root, taptree.Subsystem, taptree.UseLogger)
	AddSubLogger(root, address.Subsystem, address.UseLogger)

	tkitLog.Debugf("Registered loggers for subsystems %v",
		root.SupportedSubsystems())
}

// AddSubLogger is a helper method to conveniently create and register the
// logger of one or more sub systems.
func AddSubLogger(root *build.RotatingLogWriter, subsystem string,
	useLoggers ...func(btclog.Logger)) {

	// Create and register just a single logger to prevent them from
	// overwriting each other internally.
	logger := build.NewSubLogger(subsystem, genSubLogger(root))
	SetSubLogger(root, subsystem, logger, useLoggers...)
}

// SetSubLogger is a helper method to conveniently register the logger of a sub
// system.
func SetSubLogger(root *build.RotatingLogWriter, subsystem string,
	logger btclog.Logger, useLoggers ...func(btclog.Logger)) {

	root.RegisterSubLogger(subsystem, logger)
	for _, useLogger := range useLoggers {
		useLogger(logger)
	}
}

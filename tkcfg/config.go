package tkcfg

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/lightninglabs/tapkit/address"
	"github.com/lightninglabs/tapkit/fn"
)

const (
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultConfigFileName = "tapkit.conf"
	defaultNetwork        = "mainnet"
	defaultMaxLogFiles    = 3
	defaultMaxLogFileSize = 10

	// DefaultLogFilename is the name of the log file inside the log
	// directory.
	DefaultLogFilename = "tapkit.log"
)

var (
	// DefaultTapkitDir is the default directory where tapkit keeps its
	// configuration and logs.
	DefaultTapkitDir = btcutil.AppDataDir("tapkit", false)

	// DefaultConfigFile is the default full path of the config file.
	DefaultConfigFile = filepath.Join(
		DefaultTapkitDir, defaultConfigFileName,
	)

	defaultLogDir = filepath.Join(DefaultTapkitDir, defaultLogDirname)
)

// Config is the configuration of the tapkit command line tool.
//
//nolint:lll
type Config struct {
	Network string `long:"network" description:"The network addresses are encoded for" choice:"mainnet" choice:"testnet" choice:"regtest"`

	DebugLevel string `long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <global-level>,<subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`

	LogDir         string `long:"logdir" description:"Directory to log output."`
	MaxLogFiles    int    `long:"maxlogfiles" description:"Maximum logfiles to keep (0 for no rotation)"`
	MaxLogFileSize int    `long:"maxlogfilesize" description:"Maximum logfile size in MB"`

	// ActiveNet is the network resolved from Network.
	ActiveNet address.Network `no-flag:"true"`
}

// DefaultConfig returns all default values for the Config struct.
func DefaultConfig() Config {
	return Config{
		Network:        defaultNetwork,
		DebugLevel:     defaultLogLevel,
		LogDir:         defaultLogDir,
		MaxLogFiles:    defaultMaxLogFiles,
		MaxLogFileSize: defaultMaxLogFileSize,
		ActiveNet:      address.Main,
	}
}

// LoadConfig starts from the default config and applies the options of the
// passed config file. A missing file is only an error if it isn't the default
// config file. The result is validated before it is returned.
func LoadConfig(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	configFilePath := CleanAndExpandPath(configFile)
	if configFilePath == "" {
		configFilePath = DefaultConfigFile
	}

	if !fileExists(configFilePath) {
		if configFilePath != DefaultConfigFile {
			return nil, fmt.Errorf("specified config file does "+
				"not exist in %s", configFilePath)
		}

		return ValidateConfig(cfg)
	}

	fileParser := flags.NewParser(&cfg, flags.Default)
	err := flags.NewIniParser(fileParser).ParseFile(configFilePath)
	switch {
	case fn.ErrorAs[*flags.IniError](err):
		return nil, fmt.Errorf("invalid config file %s: %w",
			configFilePath, err)

	case err != nil:
		return nil, fmt.Errorf("unable to parse config file %s: %w",
			configFilePath, err)
	}

	return ValidateConfig(cfg)
}

// ValidateConfig checks the given configuration to be sane. All file system
// paths are normalized. The cleaned up config is returned on success.
func ValidateConfig(cfg Config) (*Config, error) {
	net, err := address.ParseNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	cfg.ActiveNet = net

	if cfg.DebugLevel == "" {
		return nil, fmt.Errorf("debuglevel must be set")
	}

	if cfg.MaxLogFiles < 0 {
		return nil, fmt.Errorf("maxlogfiles must not be negative, "+
			"got %d", cfg.MaxLogFiles)
	}
	if cfg.MaxLogFileSize <= 0 {
		return nil, fmt.Errorf("maxlogfilesize must be positive, "+
			"got %d", cfg.MaxLogFileSize)
	}

	cfg.LogDir = CleanAndExpandPath(cfg.LogDir)

	return &cfg, nil
}

// LogFile returns the full path of the log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.LogDir, DefaultLogFilename)
}

// fileExists reports whether the named file or directory exists.
// This function is taken from https://github.com/btcsuite/btcd
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// CleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
// This function is taken from https://github.com/btcsuite/btcd
func CleanAndExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		var homeDir string
		u, err := user.Current()
		if err == nil {
			homeDir = u.HomeDir
		} else {
			homeDir = os.Getenv("HOME")
		}

		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but the variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

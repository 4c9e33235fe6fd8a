// Package tkcfg holds the configuration of the tapkit command line tool. The
// configuration is read from an INI style config file and can be overridden
// by global command line flags.
package tkcfg

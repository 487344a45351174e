// Package config handles configuration loading for the stash CLI.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files (chosen by extension) with
// environment variable expansion. The package validates that the store
// connection and store name are present.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from STASH_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/stash/config.toml (or ~/.config/stash/config.toml)
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	store:
//	  connection: ${STASH_DB}
//	  name: items
package config

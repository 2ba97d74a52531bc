// Package config loads gffrules settings. Layers, lowest first: embedded
// defaults, the user file ($XDG_CONFIG_HOME/gffrules/config.toml or an
// explicit path), GFFRULES_* environment variables and command line
// overrides.
package config

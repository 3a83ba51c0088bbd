// Package config handles loading the fleetmon configuration file.
//
// Configuration is TOML read from ~/.config/fleetmon/config.toml (or an
// explicit path). A missing file is not an error: every field has a
// sensible default, and command-line flags override whatever was
// loaded. Paths may use a leading ~ which is expanded to the user's
// home directory.
package config

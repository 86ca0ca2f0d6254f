// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.ticklist/ticklist.toml or OS-specific config directory)
// 3. Project config file (ticklist.toml or .ticklist.toml in the working directory)
// 4. Environment variables (TICKLIST_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.ticklist/ticklist.toml (preferred)
// - Windows: %APPDATA%\ticklist\ticklist.toml
// - macOS: ~/Library/Application Support/ticklist/ticklist.toml
// - Linux/BSD: $XDG_CONFIG_HOME/ticklist/ticklist.toml or ~/.config/ticklist/ticklist.toml
//
// Project-level config locations (overrides user config):
// - ./ticklist.toml (preferred)
// - ./.ticklist.toml
package config
